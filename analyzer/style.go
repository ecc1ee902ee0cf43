// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AleutianAI/codewarden/issue"
)

// Line-based checks shared between the Python and JavaScript analyzers.
// Columns are 1-based rune positions; lengths count runes, not bytes, so a
// multibyte character is one column like an editor would show it.

// checkLineLength flags lines exceeding the section's max_line_length.
// The column points at the first character past the limit.
func checkLineLength(rc *RuleContext, section string, defaultMax int) []issue.Issue {
	max := rc.Config.GetInt(section, "max_line_length", defaultMax)
	var issues []issue.Issue
	for i, line := range rc.Lines {
		length := utf8.RuneCountInString(strings.TrimSuffix(line, "\r"))
		if length > max {
			issues = append(issues, issue.Issue{
				Line:       i + 1,
				Column:     max + 1,
				Message:    fmt.Sprintf("Line too long (%d > %d characters)", length, max),
				Code:       issue.CodeLineTooLong,
				Severity:   issue.SeverityWarning,
				Source:     StageStyle.String(),
				Suggestion: "Break the line across multiple shorter lines",
			})
		}
	}
	return issues
}

// checkTrailingWhitespace flags lines with trailing spaces or tabs.
func checkTrailingWhitespace(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == line {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(trimmed) + 1,
			Message:     "Trailing whitespace",
			Code:        issue.CodeTrailingWhitespace,
			Severity:    issue.SeverityInfo,
			Source:      StageStyle.String(),
			Replacement: trimmed,
		})
	}
	return issues
}

// checkTabs flags tab characters and offers a four-space expansion.
func checkTabs(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.IndexRune(line, '\t')
		if idx < 0 {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(line[:idx]) + 1,
			Message:     "Line contains tab characters",
			Code:        issue.CodeTabIndentation,
			Severity:    issue.SeverityWarning,
			Source:      StageStyle.String(),
			Suggestion:  "Configure the editor to indent with spaces",
			Replacement: strings.ReplaceAll(line, "\t", "    "),
		})
	}
	return issues
}

// =============================================================================
// Shared scanning helpers
// =============================================================================

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanCalls returns the 1-based columns at which name is invoked as a call
// on the line. A word character immediately before the name disqualifies
// the match (substring of a longer identifier).
func scanCalls(line, name string) []int {
	var cols []int
	needle := name + "("
	idx := 0
	for {
		j := strings.Index(line[idx:], needle)
		if j < 0 {
			return cols
		}
		pos := idx + j
		if pos == 0 || !isWordChar(line[pos-1]) {
			cols = append(cols, utf8.RuneCountInString(line[:pos])+1)
		}
		idx = pos + len(needle)
	}
}

func leadingWhitespace(line string) int {
	n := 0
	for _, ch := range line {
		if ch != ' ' && ch != '\t' {
			break
		}
		n++
	}
	return n
}

// forEachLoopBodyLine calls fn once per line that sits inside a loop body,
// determined by indentation relative to the nearest for/while header.
// Indentation-based scoping is approximate for brace languages but holds
// for conventionally formatted code.
func forEachLoopBodyLine(lines []string, isLoopHeader func(trimmed string) bool, fn func(lineNo int, line string)) {
	seen := make(map[int]bool)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isLoopHeader(trimmed) {
			continue
		}
		indent := leadingWhitespace(line)
		for j := i + 1; j < len(lines); j++ {
			body := lines[j]
			if strings.TrimSpace(body) == "" {
				continue
			}
			if leadingWhitespace(body) <= indent {
				break
			}
			if !seen[j] {
				seen[j] = true
				fn(j+1, body)
			}
		}
	}
}

// =============================================================================
// Hardcoded secret detection (shared)
// =============================================================================

// secretAssignPattern matches a string literal assigned to a secret-looking
// name. Group 1 is the name, group 3 the literal value.
var secretAssignPattern = regexp.MustCompile(
	`(?i)\b(password|passwd|pwd|api_key|apikey|access_key|secret_key|auth_token|token|secret)\s*=\s*(["'])([^"']*)(["'])`)

// secretFalsePositives marks values that are clearly not real secrets:
// environment lookups, placeholders, docs examples.
var secretFalsePositives = regexp.MustCompile(
	`(?i)(os\.environ|getenv|process\.env|example|changeme|placeholder|dummy|your[_-]|x{4,}|<[^>]*>|\$\{)`)

// checkHardcodedSecrets flags literal secret assignments. envLookup builds
// the language-appropriate replacement expression for the literal (e.g.
// os.environ.get('PASSWORD') for Python).
func checkHardcodedSecrets(rc *RuleContext, envLookup func(envVar string) string) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		m := secretAssignPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		value := line[m[6]:m[7]]
		if value == "" || secretFalsePositives.MatchString(value) {
			continue
		}

		name := line[m[2]:m[3]]
		envVar := strings.ToUpper(name)
		replacement := line[:m[4]] + envLookup(envVar) + line[m[9]:]

		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(line[:m[2]]) + 1,
			Message:     fmt.Sprintf("Hardcoded secret assigned to '%s'", name),
			Code:        issue.CodeHardcodedSecret,
			Severity:    issue.SeverityCritical,
			Source:      StageSecurity.String(),
			Suggestion:  "Load secrets from the environment or a secrets manager",
			Replacement: replacement,
		})
	}
	return issues
}
