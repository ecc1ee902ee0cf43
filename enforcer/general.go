// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enforcer

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/codewarden/issue"
)

// generalChecks runs the cross-language checks that apply to any input,
// supported language or not. They run regardless of fast mode: they are
// cheap line scans, and they are the only coverage an unsupported
// language gets.
func (e *Enforcer) generalChecks(code string) []issue.Issue {
	var out []issue.Issue
	out = append(out, e.checkFileSize(code)...)

	lines := strings.Split(code, "\n")
	out = append(out, e.checkBannedFunctions(lines)...)
	out = append(out, e.checkTodoMarkers(lines)...)
	return out
}

// checkFileSize flags input larger than general.max_file_size_kb.
func (e *Enforcer) checkFileSize(code string) []issue.Issue {
	maxKB := e.cfg.GetInt("general", "max_file_size_kb", 1000)
	if len(code) <= maxKB*1024 {
		return nil
	}
	return []issue.Issue{{
		Message:    fmt.Sprintf("File size %d KB exceeds the configured maximum of %d KB", len(code)/1024, maxKB),
		Code:       issue.CodeFileTooLarge,
		Severity:   issue.SeverityWarning,
		Source:     "general",
		Suggestion: "Split the file into smaller modules",
	}}
}

// checkBannedFunctions scans for calls to general.banned_functions.
//
// This is a plain text scan with word boundaries, not a parse: it fires
// inside comments and strings too. That is deliberate, because it must
// work for every language including ones without a parser.
func (e *Enforcer) checkBannedFunctions(lines []string) []issue.Issue {
	banned := e.cfg.GetList("general", "banned_functions", []string{"eval", "exec"})
	if len(banned) == 0 {
		return nil
	}

	var out []issue.Issue
	for i, line := range lines {
		for _, name := range banned {
			for _, col := range findCalls(line, name) {
				out = append(out, issue.Issue{
					Line:       i + 1,
					Column:     col,
					Message:    fmt.Sprintf("Banned function '%s' detected", name),
					Code:       issue.CodeBannedFunction,
					Severity:   issue.SeverityError,
					Source:     "general",
					Suggestion: fmt.Sprintf("Remove the call to '%s' or replace it with a safe alternative", name),
				})
			}
		}
	}
	return out
}

// checkTodoMarkers flags lines carrying TODO or FIXME markers.
func (e *Enforcer) checkTodoMarkers(lines []string) []issue.Issue {
	var out []issue.Issue
	for i, line := range lines {
		upper := strings.ToUpper(line)
		marker := ""
		idx := strings.Index(upper, "TODO")
		if j := strings.Index(upper, "FIXME"); j >= 0 && (idx < 0 || j < idx) {
			idx, marker = j, "FIXME"
		} else if idx >= 0 {
			marker = "TODO"
		}
		if marker == "" {
			continue
		}
		out = append(out, issue.Issue{
			Line:       i + 1,
			Column:     idx + 1,
			Message:    fmt.Sprintf("%s marker found", marker),
			Code:       issue.CodeTodoFound,
			Severity:   issue.SeverityInfo,
			Source:     "general",
			Suggestion: "Resolve the marker or file a tracked ticket for it",
		})
	}
	return out
}

// findCalls returns the 1-based columns where name is invoked as a call
// on the line. A match requires name immediately followed by '(' and not
// preceded by an identifier character, so "eval(" matches but
// "evaluate(" and "my_eval(" do not.
func findCalls(line, name string) []int {
	if name == "" {
		return nil
	}
	var cols []int
	target := name + "("
	from := 0
	for {
		idx := strings.Index(line[from:], target)
		if idx < 0 {
			return cols
		}
		abs := from + idx
		if abs == 0 || !isIdentByte(line[abs-1]) {
			cols = append(cols, abs+1)
		}
		from = abs + 1
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
