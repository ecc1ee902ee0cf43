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

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// maxBracketIssues caps the findings from one scan so pathological input
// cannot produce unbounded output.
const maxBracketIssues = 50

// bracketPairs maps closers to their openers.
var bracketPairs = map[rune]rune{')': '(', ']': '[', '}': '{'}

// bracketClosers maps openers to their closers, for messages.
var bracketClosers = map[rune]rune{'(': ')', '[': ']', '{': '}'}

type openBracket struct {
	ch   rune
	line int
	col  int
}

// CheckBrackets scans for unbalanced brackets outside strings and comments.
//
// Description:
//
//	A heuristic syntax check for languages without a real parser. The
//	scanner understands single/double/backtick string literals with
//	backslash escapes, line comments, and block comments, chosen per
//	language. It cannot understand every construct (regex literals,
//	heredocs), so it errs toward silence: brackets inside anything
//	string-like are ignored.
//
// Inputs:
//
//	code - Source text
//	l    - Language, controls comment syntax
//
// Outputs:
//
//	[]issue.Issue - E999 errors, at most maxBracketIssues
func CheckBrackets(code string, l lang.Language) []issue.Issue {
	var (
		issues  []issue.Issue
		stack   []openBracket
		line    = 1
		col     = 0
		inStr   rune // 0 when outside a string
		escaped bool
		inLine  bool // inside a line comment
		inBlock bool // inside a block comment
	)

	hashComments := l == lang.Ruby || l == lang.PHP || l == lang.Python
	slashComments := l != lang.Ruby && l != lang.Python
	backtickStrings := l == lang.Go || l == lang.JavaScript || l == lang.TypeScript

	runes := []rune(code)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\n' {
			line++
			col = 0
			inLine = false
			escaped = false
			// Only backtick literals may span lines; an unterminated
			// quote must not swallow the rest of the file.
			if inStr == '\'' || inStr == '"' {
				inStr = 0
			}
			continue
		}
		col++

		switch {
		case inLine:
			continue

		case inBlock:
			if ch == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				inBlock = false
				i++
				col++
			}
			continue

		case inStr != 0:
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == inStr {
				inStr = 0
			}
			continue

		case ch == '\'' || ch == '"':
			inStr = ch

		case ch == '`' && backtickStrings:
			inStr = ch

		case ch == '#' && hashComments:
			inLine = true

		case ch == '/' && slashComments && i+1 < len(runes):
			switch runes[i+1] {
			case '/':
				inLine = true
				i++
				col++
			case '*':
				inBlock = true
				i++
				col++
			}

		case ch == '(' || ch == '[' || ch == '{':
			stack = append(stack, openBracket{ch: ch, line: line, col: col})

		case ch == ')' || ch == ']' || ch == '}':
			want := bracketPairs[ch]
			if len(stack) == 0 {
				issues = append(issues, issue.Issue{
					Line:     line,
					Column:   col,
					Message:  fmt.Sprintf("Unexpected closing '%c'", ch),
					Code:     issue.CodeSyntaxError,
					Severity: issue.SeverityError,
					Source:   StageSyntax.String(),
				})
			} else {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.ch != want {
					issues = append(issues, issue.Issue{
						Line:     line,
						Column:   col,
						Message:  fmt.Sprintf("Mismatched '%c': expected closing '%c'", ch, bracketClosers[top.ch]),
						Code:     issue.CodeSyntaxError,
						Severity: issue.SeverityError,
						Source:   StageSyntax.String(),
					})
				}
			}
		}

		if len(issues) >= maxBracketIssues {
			return issues
		}
	}

	for i := len(stack) - 1; i >= 0 && len(issues) < maxBracketIssues; i-- {
		open := stack[i]
		issues = append(issues, issue.Issue{
			Line:       open.line,
			Column:     open.col,
			Message:    fmt.Sprintf("Unclosed '%c'", open.ch),
			Code:       issue.CodeSyntaxError,
			Severity:   issue.SeverityError,
			Source:     StageSyntax.String(),
			Suggestion: fmt.Sprintf("Add a matching '%c'", bracketClosers[open.ch]),
		})
	}

	issue.Sort(issues)
	return issues
}
