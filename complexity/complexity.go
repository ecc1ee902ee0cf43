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
	"context"
	"strings"

	"github.com/AleutianAI/codewarden/lang"
)

// FunctionMetrics describes one function span.
type FunctionMetrics struct {
	Name       string `json:"name"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	Length     int    `json:"length"`
	Complexity int    `json:"complexity"`
}

// Metrics is the full measurement for one source text.
type Metrics struct {
	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`

	FunctionCount int               `json:"function_count"`
	ClassCount    int               `json:"class_count"`
	Functions     []FunctionMetrics `json:"functions,omitempty"`

	AverageComplexity float64 `json:"average_complexity"`
	MaxComplexity     int     `json:"max_complexity"`
}

// Measure computes metrics for code in language l.
//
// Description:
//
//	Line counts are computed for every language. Function spans and
//	complexity are extracted for Python (parse tree) and for
//	JavaScript/TypeScript (brace heuristic); other languages report
//	zero functions.
//
// Inputs:
//
//	ctx - bounds the Python parse.
//	code - raw source text. Empty input yields a zero Metrics.
//	l - detected language; lang.Unknown degrades to line counts.
//
// Outputs:
//
//	Metrics - never an error; degraded rather than failed.
//
// Thread Safety: Safe for concurrent use; no shared state.
func Measure(ctx context.Context, code string, l lang.Language) Metrics {
	var m Metrics
	if code == "" {
		return m
	}

	lines := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	countLines(&m, lines, l)

	switch l {
	case lang.Python:
		m.Functions, m.ClassCount = pythonFunctions(ctx, code)
	case lang.JavaScript, lang.TypeScript:
		m.Functions, m.ClassCount = javascriptFunctions(lines)
	}

	m.FunctionCount = len(m.Functions)
	total := 0
	for _, fn := range m.Functions {
		total += fn.Complexity
		if fn.Complexity > m.MaxComplexity {
			m.MaxComplexity = fn.Complexity
		}
	}
	if m.FunctionCount > 0 {
		m.AverageComplexity = float64(total) / float64(m.FunctionCount)
	}
	return m
}

// commentStyle returns the line-comment markers and whether the language
// has /* */ block comments.
func commentStyle(l lang.Language) (markers []string, block bool) {
	switch l {
	case lang.Python, lang.Ruby:
		return []string{"#"}, false
	case lang.PHP:
		return []string{"//", "#"}, true
	case lang.Unknown:
		return nil, false
	default:
		return []string{"//"}, true
	}
}

func countLines(m *Metrics, lines []string, l lang.Language) {
	markers, block := commentStyle(l)
	m.TotalLines = len(lines)

	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			m.BlankLines++
		case inBlock:
			m.CommentLines++
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
		case block && strings.HasPrefix(trimmed, "/*"):
			m.CommentLines++
			if !strings.Contains(trimmed[2:], "*/") {
				inBlock = true
			}
		case hasAnyPrefix(trimmed, markers):
			m.CommentLines++
		default:
			m.CodeLines++
			// A trailing block-comment open puts later lines in comment.
			if block && strings.Contains(trimmed, "/*") && !strings.Contains(trimmed, "*/") {
				inBlock = true
			}
		}
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// spanComplexity is 1 plus the decision tokens found across the span's
// lines. The token set is supplied per language.
func spanComplexity(lines []string, startLine, endLine int, count func(line string) int) int {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	c := 1
	for i := startLine - 1; i < endLine; i++ {
		c += count(lines[i])
	}
	return c
}
