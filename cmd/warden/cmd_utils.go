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
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
	"github.com/AleutianAI/codewarden/pkg/ux"
)

// appFS is the filesystem all commands read and write through. Tests
// swap in an in-memory filesystem.
var appFS afero.Fs = afero.NewOsFs()

// readSource returns the content of path, or stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := afero.ReadFile(appFS, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeSource writes content back to path, preserving the original
// file mode when it can be read.
func writeSource(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := appFS.Stat(path); err == nil {
		mode = info.Mode()
	}
	return afero.WriteFile(appFS, path, []byte(content), mode)
}

// resolveLanguage picks the language for a file: an explicit override
// wins, otherwise detection on filename and content.
func resolveLanguage(code, path, override string) (lang.Language, error) {
	if override != "" {
		l := lang.Language(strings.ToLower(override))
		if !l.Known() {
			return lang.Unknown, fmt.Errorf("unsupported language %q", override)
		}
		return l, nil
	}
	name := path
	if name == "-" {
		name = ""
	}
	return app.DetectLanguage(code, name), nil
}

// hasBlocking reports whether any issue is at error severity or above.
func hasBlocking(issues []issue.Issue) bool {
	for i := range issues {
		if issues[i].Severity.Blocking() {
			return true
		}
	}
	return false
}

// anyAtOrAbove reports whether any issue meets the severity threshold.
func anyAtOrAbove(issues []issue.Issue, min issue.Severity) bool {
	for i := range issues {
		if issues[i].Severity >= min {
			return true
		}
	}
	return false
}

// countBySeverity tallies issues per severity name.
func countBySeverity(counts map[string]int, issues []issue.Issue) {
	for i := range issues {
		counts[issues[i].Severity.String()]++
	}
}

// printIssues renders the findings for one file in text mode.
func printIssues(path string, issues []issue.Issue) {
	machine := ux.GetPersonality().Level == ux.PersonalityMachine
	for i := range issues {
		is := &issues[i]
		severity := is.Severity.String()

		if machine {
			fmt.Printf("%s\t%s:%s\t%s\t%s\n", severity, path, is.Location(), is.Code, is.Message)
			continue
		}

		line := fmt.Sprintf("  %s %s  %s %s",
			ux.SeverityIcon(severity).Render(),
			ux.MutedText(path+":"+is.Location()),
			ux.RenderSeverity(severity),
			is.Message)
		if is.Code != "" {
			line += " " + ux.MutedText("["+is.Code+"]")
		}
		fmt.Println(line)
		if is.Suggestion != "" {
			fmt.Printf("      %s\n", ux.MutedText("hint: "+is.Suggestion))
		}
	}
}

// summarize prints the severity breakdown for a finished run.
func summarize(counts map[string]int) {
	ux.IssueSummary(counts["critical"], counts["error"], counts["warning"], counts["info"])
}
