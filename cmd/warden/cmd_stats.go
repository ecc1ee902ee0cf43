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

var (
	statsLang      string
	statsFunctions bool
)

func runStats(cmd *cobra.Command, args []string) {
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
	l, err := resolveLanguage(code, path, statsLang)
	if err != nil {
		OutputError(out.JSON, "Invalid flag", err)
		os.Exit(CLIExitError)
	}

	metrics := app.AnalyzeComplexity(ctx, code, l)
	report := StatsReport{Path: path, Language: l.String(), Metrics: metrics}

	if !out.Quiet && !out.JSON {
		ux.Title(fmt.Sprintf("Complexity: %s (%s)", path, l))
		fmt.Printf("%-20s %d\n", "Total lines", metrics.TotalLines)
		fmt.Printf("%-20s %d\n", "Code lines", metrics.CodeLines)
		fmt.Printf("%-20s %d\n", "Comment lines", metrics.CommentLines)
		fmt.Printf("%-20s %d\n", "Blank lines", metrics.BlankLines)
		fmt.Printf("%-20s %d\n", "Functions", metrics.FunctionCount)
		fmt.Printf("%-20s %d\n", "Classes", metrics.ClassCount)
		fmt.Printf("%-20s %.1f\n", "Avg complexity", metrics.AverageComplexity)
		fmt.Printf("%-20s %d\n", "Max complexity", metrics.MaxComplexity)

		if statsFunctions && len(metrics.Functions) > 0 {
			fmt.Println()
			ux.Title("Functions")
			for _, fn := range metrics.Functions {
				fmt.Printf("  %-28s %s\n", fn.Name,
					ux.MutedText(fmt.Sprintf("lines %d-%d, length %d, complexity %d",
						fn.StartLine, fn.EndLine, fn.Length, fn.Complexity)))
			}
		}
	}

	os.Exit(OutputResult(out, "stats", start, report, false, nil))
}
