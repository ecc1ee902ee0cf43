// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/pkg/ux"
)

var (
	fmtWrite bool
	fmtCheck bool
	fmtLang  string
)

func runFmt(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	out := outputConfig()

	printMode := len(args) == 1 && !fmtWrite && !fmtCheck
	if len(args) > 1 && !fmtWrite && !fmtCheck {
		OutputError(out.JSON, "Invalid flags",
			errors.New("formatting multiple files requires --write or --check"))
		os.Exit(CLIExitError)
	}
	if args[0] == "-" && fmtWrite {
		OutputError(out.JSON, "Invalid flags",
			errors.New("cannot write back to stdin, omit --write"))
		os.Exit(CLIExitError)
	}

	reports := make([]FmtReport, 0, len(args))

	for _, path := range args {
		code, err := readSource(path)
		if err != nil {
			OutputError(out.JSON, "Cannot read file", err)
			os.Exit(CLIExitError)
		}
		l, err := resolveLanguage(code, path, fmtLang)
		if err != nil {
			OutputError(out.JSON, "Invalid flag", err)
			os.Exit(CLIExitError)
		}

		formatted := app.EnforceStandards(ctx, code, l)
		r := FmtReport{Path: path, Changed: formatted != code}

		if r.Changed && fmtWrite && !fmtCheck {
			if err := writeSource(path, formatted); err != nil {
				OutputError(out.JSON, "Cannot write file", err)
				os.Exit(CLIExitError)
			}
			r.Written = true
		}

		if printMode && !out.JSON && !out.Quiet {
			fmt.Print(formatted)
		}

		reports = append(reports, r)
	}

	if !out.Quiet && !out.JSON && !printMode {
		outputFmtText(reports)
	}

	// Only --check turns pending changes into a non-zero exit
	hasFindings := false
	if fmtCheck {
		for i := range reports {
			if reports[i].Changed {
				hasFindings = true
				break
			}
		}
	}

	os.Exit(OutputResult(out, "fmt", start, reports, hasFindings, nil))
}

func outputFmtText(reports []FmtReport) {
	for i := range reports {
		r := &reports[i]
		switch {
		case r.Written:
			ux.FileStatus(r.Path, ux.IconSuccess, "formatted")
		case r.Changed:
			ux.FileStatus(r.Path, ux.IconWarning, "needs formatting")
		default:
			ux.FileStatus(r.Path, ux.IconSuccess, "already formatted")
		}
	}
}
