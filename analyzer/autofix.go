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
	"regexp"
	"strings"

	"github.com/AleutianAI/codewarden/issue"
)

// Fix application is line-granular, not column-precise: an issue's
// replacement swaps the entire 1-based line. A line holding two statements
// can therefore lose the second one if a rule's replacement was computed
// from the first.

// applyReplacement swaps the issue's line for its replacement text.
func applyReplacement(code string, is issue.Issue) (string, bool) {
	if is.Replacement == "" || is.Line < 1 {
		return code, false
	}
	lines := splitLines(code)
	if is.Line > len(lines) {
		return code, false
	}
	lines[is.Line-1] = is.Replacement
	return strings.Join(lines, "\n"), true
}

// assignmentPattern matches a simple single-target assignment. The value
// group must not begin with '=' (that would be a comparison).
var assignmentPattern = regexp.MustCompile(`^(\s*)([A-Za-z_][\w.]*(?:\[[^\]]*\])?)\s*=\s*(.+)$`)

// splitLongAssignment rewrites an overlong assignment across two lines by
// wrapping the value in parentheses:
//
//	x = very_long_expression
//
// becomes
//
//	x = (
//	    very_long_expression)
//
// Parenthesizing an expression is semantics-preserving in Python; lines
// that are not simple assignments (or whose value is not bracket-balanced,
// or carries a comment) are left alone.
func splitLongAssignment(code string, lineNo int) (string, bool) {
	lines := splitLines(code)
	if lineNo < 1 || lineNo > len(lines) {
		return code, false
	}

	m := assignmentPattern.FindStringSubmatch(lines[lineNo-1])
	if m == nil {
		return code, false
	}
	indent, target, value := m[1], m[2], m[3]
	if strings.HasPrefix(value, "=") || strings.Contains(value, "#") {
		return code, false
	}
	if !bracketBalanced(value) {
		return code, false
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:lineNo-1]...)
	out = append(out, indent+target+" = (")
	out = append(out, indent+"    "+value+")")
	out = append(out, lines[lineNo:]...)
	return strings.Join(out, "\n"), true
}

// bracketBalanced does a quick quote-aware balance check on one expression.
func bracketBalanced(s string) bool {
	var stack []rune
	var inStr rune
	escaped := false
	for _, ch := range s {
		if inStr != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == inStr:
				inStr = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inStr = ch
		case '(', '[', '{':
			stack = append(stack, ch)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != bracketPairs[ch] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && inStr == 0
}
