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
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/pkg/ux"
)

var suggestLang string

func runSuggest(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	out := outputConfig()
	path := args[0]

	code, err := readSource(path)
	if err != nil {
		OutputError(out.JSON, "Cannot read file", err)
		os.Exit(CLIExitError)
	}
	l, err := resolveLanguage(code, path, suggestLang)
	if err != nil {
		OutputError(out.JSON, "Invalid flag", err)
		os.Exit(CLIExitError)
	}

	// Suggestions build on findings and complexity, so gather both
	issues := app.RunQualityChecks(ctx, code, l, true)
	metrics := app.AnalyzeComplexity(ctx, code, l)
	suggestions := app.SuggestImprovements(code, l, issues, &metrics)

	report := SuggestReport{
		Path:        path,
		Language:    l.String(),
		Suggestions: suggestions,
	}

	if !out.Quiet && !out.JSON {
		if len(suggestions) == 0 {
			ux.Success(path + ": nothing to suggest")
		} else {
			lines := make([]string, 0, len(suggestions))
			for _, s := range suggestions {
				lines = append(lines, string(ux.IconBullet)+" "+s)
			}
			ux.Box("Suggestions for "+path, strings.Join(lines, "\n"))
		}
	}

	os.Exit(OutputResult(out, "suggest", start, report, false, nil))
}
