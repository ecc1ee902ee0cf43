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

	"github.com/AleutianAI/codewarden/patch"
	"github.com/AleutianAI/codewarden/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	patchAgainst  string
	patchMaxLines int
)

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runPatchValidate(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	out := outputConfig()

	patchText, err := readSource(args[0])
	if err != nil {
		OutputError(out.JSON, "Cannot read patch", err)
		os.Exit(CLIExitError)
	}

	// An empty root treats every file in the diff as new.
	if patchAgainst != "" {
		info, err := appFS.Stat(patchAgainst)
		if err != nil {
			OutputError(out.JSON, "Invalid --against root", err)
			os.Exit(CLIExitError)
		}
		if !info.IsDir() {
			OutputError(out.JSON, "Invalid --against root",
				fmt.Errorf("%s is not a directory", patchAgainst))
			os.Exit(CLIExitError)
		}
	}

	var opts []patch.Option
	if patchMaxLines > 0 {
		opts = append(opts, patch.WithMaxLines(patchMaxLines))
	}
	validator := patch.NewValidator(app, opts...)

	result, err := validator.Validate(ctx, patchText, patchAgainst)
	if err != nil {
		OutputError(out.JSON, "Validation failed", err)
		os.Exit(CLIExitError)
	}
	logger.Debug("patch validated",
		"id", result.ID, "valid", result.Valid,
		"files", result.Stats.FilesAffected, "errors", len(result.Errors))

	if !out.Quiet && !out.JSON {
		outputPatchText(result)
	}

	os.Exit(OutputResult(out, "patch validate", start, result, !result.Valid, nil))
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputPatchText(result *patch.Result) {
	ux.Title("Patch Validation")

	for _, e := range result.Errors {
		msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
		if e.File != "" {
			loc := e.File
			if e.Line > 0 {
				loc = fmt.Sprintf("%s:%d", e.File, e.Line)
			}
			msg += " (" + loc + ")"
		}
		ux.Error(msg)
	}

	for i := range result.Files {
		fr := &result.Files[i]
		note := "ok"
		switch {
		case fr.Deleted:
			note = "deleted"
		case fr.Created:
			note = "created"
		}

		if len(fr.Introduced) == 0 {
			ux.FileStatus(fr.Path, ux.IconSuccess, note)
			continue
		}
		icon := ux.IconWarning
		if hasBlocking(fr.Introduced) {
			icon = ux.IconError
		}
		ux.FileStatus(fr.Path, icon,
			fmt.Sprintf("%s, %d new findings", note, len(fr.Introduced)))
		printIssues(fr.Path, fr.Introduced)
	}

	stats := fmt.Sprintf("%d files, %d hunks, +%d -%d lines",
		result.Stats.FilesAffected, result.Stats.Hunks,
		result.Stats.LinesAdded, result.Stats.LinesRemoved)
	if result.Valid {
		ux.Success("patch OK: " + stats)
	} else {
		ux.Error("patch invalid: " + stats)
	}
}
