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
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/lang"
	"github.com/AleutianAI/codewarden/pkg/ux"
)

func runTools(cmd *cobra.Command, args []string) {
	start := time.Now()
	out := outputConfig()

	avail := app.ToolAvailability()
	names := make([]string, 0, len(avail))
	for name := range avail {
		names = append(names, name)
	}
	sort.Strings(names)

	report := ToolsReport{Tools: make([]ToolStatus, 0, len(names))}
	for _, name := range names {
		report.Tools = append(report.Tools, ToolStatus{Name: name, Available: avail[name]})
	}

	if !out.Quiet && !out.JSON {
		ux.Title("External Tools")
		for _, t := range report.Tools {
			if t.Available {
				ux.FileStatus(t.Name, ux.IconSuccess, "available")
			} else {
				ux.FileStatus(t.Name, ux.IconPending, "not installed")
			}
		}
	}

	os.Exit(OutputResult(out, "tools", start, report, false, nil))
}

func runLanguages(cmd *cobra.Command, args []string) {
	start := time.Now()
	out := outputConfig()

	analyzed := make(map[lang.Language]bool)
	for _, l := range app.SupportedLanguages() {
		analyzed[l] = true
	}

	report := LanguagesReport{Languages: make([]LanguageInfo, 0)}
	for _, l := range lang.All() {
		report.Languages = append(report.Languages, LanguageInfo{
			Name:      l.String(),
			Extension: l.PrimaryExtension(),
			Analyzer:  analyzed[l],
		})
	}

	if !out.Quiet && !out.JSON {
		ux.Title("Supported Languages")
		for _, info := range report.Languages {
			detail := "general checks only"
			if info.Analyzer {
				detail = "full analyzer"
			}
			fmt.Printf("  %-12s %-6s %s\n", info.Name, info.Extension, ux.MutedText(detail))
		}
	}

	os.Exit(OutputResult(out, "languages", start, report, false, nil))
}
