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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/pkg/ux"
)

var syntaxLang string

func runSyntax(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	out := outputConfig()
	path := args[0]

	code, err := readSource(path)
	if err != nil {
		OutputError(out.JSON, "Cannot read file", err)
		os.Exit(CLIExitError)
	}

	l, err := resolveLanguage(code, path, syntaxLang)
	if err != nil {
		OutputError(out.JSON, "Invalid flag", err)
		os.Exit(CLIExitError)
	}

	result := app.ValidateSyntax(ctx, code, l)
	report := SyntaxReport{
		Path:     path,
		Language: l.String(),
		Valid:    result.Valid,
		Issues:   result.Issues,
	}

	if !out.Quiet && !out.JSON {
		if result.Valid {
			ux.Success(fmt.Sprintf("%s: syntax OK (%s)", path, l))
		} else {
			ux.Error(fmt.Sprintf("%s: syntax invalid", path))
		}
		printIssues(path, result.Issues)
	}

	os.Exit(OutputResult(out, "syntax", start, report, !result.Valid, nil))
}
