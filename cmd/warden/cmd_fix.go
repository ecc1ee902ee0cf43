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

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/pkg/ux"
)

var (
	fixWrite       bool
	fixInteractive bool
	fixLang        string
)

func runFix(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	out := outputConfig()

	if fixInteractive {
		fixWrite = true
	}

	// Printing fixed content to stdout only works for one input
	printMode := len(args) == 1 && !fixWrite
	if len(args) > 1 && !fixWrite {
		OutputError(out.JSON, "Invalid flags",
			errors.New("fixing multiple files requires --write"))
		os.Exit(CLIExitError)
	}
	if args[0] == "-" && fixWrite {
		OutputError(out.JSON, "Invalid flags",
			errors.New("cannot write back to stdin, omit --write"))
		os.Exit(CLIExitError)
	}
	if fixInteractive && !isInteractiveTerminal() {
		OutputError(out.JSON, "Invalid flags",
			errors.New("--interactive requires a terminal"))
		os.Exit(CLIExitError)
	}

	reports := make([]FixReport, 0, len(args))
	aborted := false

	for _, path := range args {
		if aborted {
			reports = append(reports, FixReport{Path: path, Skipped: true})
			continue
		}

		code, err := readSource(path)
		if err != nil {
			OutputError(out.JSON, "Cannot read file", err)
			os.Exit(CLIExitError)
		}
		l, err := resolveLanguage(code, path, fixLang)
		if err != nil {
			OutputError(out.JSON, "Invalid flag", err)
			os.Exit(CLIExitError)
		}

		// Fixes come from built-in rules, so external tools are skipped
		issues := app.RunQualityChecks(ctx, code, l, true)
		fixed := app.AutoFixIssues(ctx, code, issues, l)

		r := FixReport{Path: path, Changed: fixed != code}

		if r.Changed && fixWrite {
			apply := true
			if fixInteractive {
				apply, err = confirmFix(path, countFixable(issues))
				if err != nil {
					// Ctrl-C skips this and all remaining files
					apply = false
					aborted = true
				}
			}
			if apply {
				if err := writeSource(path, fixed); err != nil {
					OutputError(out.JSON, "Cannot write file", err)
					os.Exit(CLIExitError)
				}
				r.Written = true
			} else {
				r.Skipped = true
			}
		}

		if printMode && !out.JSON && !out.Quiet {
			fmt.Print(fixed)
		}
		if out.JSON && !fixWrite {
			r.Fixed = fixed
		}

		reports = append(reports, r)
	}

	if !out.Quiet && !out.JSON && !printMode {
		outputFixText(reports)
	}

	// Exit 1 only when fixes exist that were not written back
	hasFindings := false
	for i := range reports {
		if reports[i].Changed && !reports[i].Written {
			hasFindings = true
			break
		}
		if reports[i].Skipped {
			hasFindings = true
			break
		}
	}

	os.Exit(OutputResult(out, "fix", start, reports, hasFindings, nil))
}

// confirmFix asks before writing fixes to one file.
func confirmFix(path string, fixes int) (bool, error) {
	apply := true
	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Apply %d fixes to %s?", fixes, path)).
		Affirmative("Apply").
		Negative("Skip").
		Value(&apply)
	if err := confirm.Run(); err != nil {
		return false, err
	}
	return apply, nil
}

// countFixable counts issues carrying a mechanical replacement.
func countFixable(issues []issue.Issue) int {
	n := 0
	for i := range issues {
		if issues[i].Fixable() {
			n++
		}
	}
	return n
}

// isInteractiveTerminal reports whether stdin is attached to a
// terminal that can drive prompts.
func isInteractiveTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func outputFixText(reports []FixReport) {
	for i := range reports {
		r := &reports[i]
		switch {
		case r.Written:
			ux.FileStatus(r.Path, ux.IconSuccess, "fixed")
		case r.Skipped:
			ux.FileStatus(r.Path, ux.IconPending, "skipped")
		case r.Changed:
			ux.FileStatus(r.Path, ux.IconWarning, "fixes pending")
		default:
			ux.FileStatus(r.Path, ux.IconSuccess, "no fixable findings")
		}
	}
}
