// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package complexity

import (
	"regexp"
	"strings"
)

// jsDeclPattern matches a function declaration line: classic declarations
// (optionally exported/async/generator) and const/let/var bindings of a
// function or parenthesized arrow. Single-argument arrows without parens
// are not recognized.
var jsDeclPattern = regexp.MustCompile(
	`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)?\s*\(` +
		`|^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?(?:function\b|\()`)

var jsClassPattern = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+`)

var jsDecisionPattern = regexp.MustCompile(`\b(if|for|while|case|catch)\b`)

// jsTernaryPattern matches a conditional '?', excluding optional chaining
// (?.), nullish coalescing (??), and TS optional markers (?: and ?=).
var jsTernaryPattern = regexp.MustCompile(`[^?]\?[^.?:=]`)

func countJSDecisions(line string) int {
	n := len(jsDecisionPattern.FindAllString(line, -1))
	n += strings.Count(line, "&&")
	n += strings.Count(line, "||")
	n += len(jsTernaryPattern.FindAllString(line, -1))
	return n
}

// javascriptFunctions extracts function spans by brace tracking from each
// declaration line. Braces inside strings are counted too; on code that
// embeds braces in literals the span end drifts, which is acceptable for
// a metric.
func javascriptFunctions(lines []string) ([]FunctionMetrics, int) {
	var fns []FunctionMetrics
	classes := 0
	for i, line := range lines {
		if jsClassPattern.MatchString(line) {
			classes++
		}
		m := jsDeclPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "" {
			name = "<anonymous>"
		}
		end := findJSBlockEnd(lines, i)
		fns = append(fns, FunctionMetrics{
			Name:       name,
			StartLine:  i + 1,
			EndLine:    end + 1,
			Length:     end - i + 1,
			Complexity: spanComplexity(lines, i+1, end+1, countJSDecisions),
		})
	}
	return fns, classes
}

// findJSBlockEnd returns the 0-based line index closing the block opened
// at or after start. Expression-bodied arrows on one line end there.
func findJSBlockEnd(lines []string, start int) int {
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		for _, ch := range lines[j] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				if opened {
					depth--
					if depth == 0 {
						return j
					}
				}
			}
		}
		if !opened && j == start && strings.Contains(lines[j], "=>") {
			return j
		}
	}
	return len(lines) - 1
}
