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

// javascriptRules returns the JavaScript/TypeScript rule set in pipeline
// order. All rules are line heuristics; there is no parse tree to lean on.
func javascriptRules() []Rule {
	return []Rule{
		// Style.
		{Code: issue.CodeLineTooLong, Stage: StageStyle, Check: func(rc *RuleContext) []issue.Issue {
			return checkLineLength(rc, "javascript", 80)
		}},
		{Code: issue.CodeTrailingWhitespace, Stage: StageStyle, Check: checkTrailingWhitespace},
		{Code: issue.CodeTabIndentation, Stage: StageStyle, Check: checkTabs},
		{Code: issue.CodeMissingSemicolon, Stage: StageStyle, Check: checkJSMissingSemicolon},
		{Code: issue.CodeVarDeclaration, Stage: StageStyle, Check: checkJSVarUsage},

		// Security.
		{Code: issue.CodeBannedCall, Stage: StageSecurity, Check: checkJSBannedCalls},
		{Code: issue.CodeHardcodedSecret, Stage: StageSecurity, Check: func(rc *RuleContext) []issue.Issue {
			return checkHardcodedSecrets(rc, func(envVar string) string {
				return "process.env." + envVar
			})
		}},
		{Code: issue.CodeInnerHTML, Stage: StageSecurity, Check: checkJSInnerHTML},
		{Code: issue.CodeDocumentWrite, Stage: StageSecurity, Check: checkJSDocumentWrite},

		// Best practice.
		{Code: issue.CodeConsoleCall, Stage: StagePractice, Check: checkJSConsoleCalls},
		{Code: issue.CodeLooseEquality, Stage: StagePractice, Check: checkJSLooseEquality},
		{Code: issue.CodeThenWithoutCatch, Stage: StagePractice, Check: checkJSThenWithoutCatch},
		{Code: issue.CodeMissingJSDoc, Stage: StagePractice, Check: checkJSMissingJSDoc},
		{Code: issue.CodeTodoComment, Stage: StagePractice, Check: func(rc *RuleContext) []issue.Issue {
			return checkTodoComments(rc, "//")
		}},

		// Performance.
		{Code: issue.CodeStringConcatLoop, Stage: StagePerformance, Check: checkJSStringConcatInLoop},
	}
}

// =============================================================================
// Style
// =============================================================================

// jsStatementKeywords start lines that legitimately end without a
// semicolon (block headers, declarations).
var jsStatementKeywords = []string{
	"if", "else", "for", "while", "switch", "case", "default", "function",
	"class", "try", "catch", "finally", "do", "export", "import", "interface",
	"type", "enum", "namespace",
}

func startsWithKeyword(trimmed string) bool {
	for _, kw := range jsStatementKeywords {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"(") {
			return true
		}
	}
	return false
}

// checkJSMissingSemicolon flags statement lines that end without a
// terminator. ASI makes the semicolon optional; consistent style does not.
// The heuristic skips block headers, continuations, and comments, so it
// misses some cases rather than inventing them.
func checkJSMissingSemicolon(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if startsWithKeyword(trimmed) {
			continue
		}
		last := trimmed[len(trimmed)-1]
		switch last {
		case ';', '{', '}', ',', ':', '(', '[', '.', '+', '-', '*', '/', '=', '<', '>', '&', '|', '?', '`':
			continue
		}
		// Only unambiguous statement endings are flagged.
		if last != ')' && last != ']' && last != '"' && last != '\'' && !isWordChar(last) {
			continue
		}
		rstripped := strings.TrimRight(line, " \t\r")
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(rstripped) + 1,
			Message:     "Missing semicolon",
			Code:        issue.CodeMissingSemicolon,
			Severity:    issue.SeverityInfo,
			Source:      StageStyle.String(),
			Replacement: rstripped + ";",
		})
	}
	return issues
}

var jsVarPattern = regexp.MustCompile(`^\s*var\s+`)

func checkJSVarUsage(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		if !jsVarPattern.MatchString(line) {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     leadingWhitespace(line) + 1,
			Message:    "Use let or const instead of var",
			Code:       issue.CodeVarDeclaration,
			Severity:   issue.SeverityWarning,
			Source:     StageStyle.String(),
			Suggestion: "Prefer const; use let when reassignment is required",
		})
	}
	return issues
}

// =============================================================================
// Security
// =============================================================================

func checkJSBannedCalls(rc *RuleContext) []issue.Issue {
	banned := rc.Config.GetList("general", "banned_functions", []string{"eval", "exec"})
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		for _, name := range banned {
			for _, col := range scanCalls(line, name) {
				issues = append(issues, issue.Issue{
					Line:       i + 1,
					Column:     col,
					Message:    fmt.Sprintf("Use of banned function '%s'", name),
					Code:       issue.CodeBannedCall,
					Severity:   issue.SeverityError,
					Source:     StageSecurity.String(),
					Suggestion: fmt.Sprintf("Remove '%s'; it can execute arbitrary code", name),
				})
			}
		}
	}
	return issues
}

var jsInnerHTMLPattern = regexp.MustCompile(`\.innerHTML\s*=[^=]`)

func checkJSInnerHTML(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		loc := jsInnerHTMLPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:loc[0]]) + 2,
			Message:    "Assignment to innerHTML can enable XSS",
			Code:       issue.CodeInnerHTML,
			Severity:   issue.SeverityWarning,
			Source:     StageSecurity.String(),
			Suggestion: "Use textContent, or sanitize the HTML first",
		})
	}
	return issues
}

func checkJSDocumentWrite(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, "document.write(")
		if idx < 0 {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:idx]) + 1,
			Message:    "document.write blocks rendering and enables injection",
			Code:       issue.CodeDocumentWrite,
			Severity:   issue.SeverityWarning,
			Source:     StageSecurity.String(),
			Suggestion: "Build DOM nodes and append them instead",
		})
	}
	return issues
}

// =============================================================================
// Best practice
// =============================================================================

var jsConsolePattern = regexp.MustCompile(`\bconsole\.(log|warn|error|info|debug|trace)\s*\(`)

func checkJSConsoleCalls(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		m := jsConsolePattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		method := line[m[2]:m[3]]
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:m[0]]) + 1,
			Message:    fmt.Sprintf("console.%s left in code", method),
			Code:       issue.CodeConsoleCall,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "Remove debug output or route it through a logger",
		})
	}
	return issues
}

// findLooseEquality returns the byte index of the first == or != that is
// not part of a strict operator, or -1.
func findLooseEquality(line string) int {
	for i := 0; i+1 < len(line); i++ {
		if line[i+1] != '=' {
			continue
		}
		switch line[i] {
		case '=':
			// Part of ===, ==>, <==, !==? Look around.
			if i > 0 && (line[i-1] == '=' || line[i-1] == '!' || line[i-1] == '<' || line[i-1] == '>') {
				continue
			}
			if i+2 < len(line) && line[i+2] == '=' {
				continue
			}
			return i
		case '!':
			if i+2 < len(line) && line[i+2] == '=' {
				continue
			}
			return i
		}
	}
	return -1
}

// strictenEquality widens every loose == and != on the line to the
// strict form, leaving existing strict operators alone.
func strictenEquality(line string) string {
	var b strings.Builder
	b.Grow(len(line) + 4)
	for i := 0; i < len(line); i++ {
		if i+1 < len(line) && line[i+1] == '=' {
			prev := byte(0)
			if i > 0 {
				prev = line[i-1]
			}
			strict := i+2 < len(line) && line[i+2] == '='
			if line[i] == '=' && !strict && prev != '=' && prev != '!' && prev != '<' && prev != '>' {
				b.WriteString("===")
				i++
				continue
			}
			if line[i] == '!' && !strict {
				b.WriteString("!==")
				i++
				continue
			}
		}
		b.WriteByte(line[i])
	}
	return b.String()
}

func checkJSLooseEquality(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := findLooseEquality(line)
		if idx < 0 {
			continue
		}
		op := "=="
		if line[idx] == '!' {
			op = "!="
		}
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(line[:idx]) + 1,
			Message:     fmt.Sprintf("Loose equality '%s' coerces types", op),
			Code:        issue.CodeLooseEquality,
			Severity:    issue.SeverityWarning,
			Source:      StagePractice.String(),
			Suggestion:  "Use the strict operator",
			Replacement: strictenEquality(line),
		})
	}
	return issues
}

func checkJSThenWithoutCatch(rc *RuleContext) []issue.Issue {
	if !strings.Contains(rc.Code, ".then(") || strings.Contains(rc.Code, ".catch(") {
		return nil
	}
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, ".then(")
		if idx < 0 {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:idx]) + 2,
			Message:    "Promise chain has no .catch handler",
			Code:       issue.CodeThenWithoutCatch,
			Severity:   issue.SeverityWarning,
			Source:     StagePractice.String(),
			Suggestion: "Add .catch, or use await inside try/catch",
		})
	}
	return issues
}

var jsFunctionDeclPattern = regexp.MustCompile(
	`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s+\w+|^\s*(?:export\s+)?const\s+\w+\s*=\s*(?:async\s*)?\(`)

func checkJSMissingJSDoc(rc *RuleContext) []issue.Issue {
	if !rc.Config.GetBool("javascript", "enforce_jsdoc", true) {
		return nil
	}
	var issues []issue.Issue
	for i, line := range rc.Lines {
		if !jsFunctionDeclPattern.MatchString(line) {
			continue
		}
		documented := false
		for j := i - 1; j >= 0; j-- {
			prev := strings.TrimSpace(rc.Lines[j])
			if prev == "" {
				continue
			}
			documented = strings.HasSuffix(prev, "*/")
			break
		}
		if documented {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     leadingWhitespace(line) + 1,
			Message:    "Function is missing a JSDoc comment",
			Code:       issue.CodeMissingJSDoc,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "Document parameters and the return value with /** ... */",
		})
	}
	return issues
}

// =============================================================================
// Performance
// =============================================================================

var jsLoopHeaderPattern = regexp.MustCompile(`^(?:for|while)\s*\(`)

func isJSLoopHeader(trimmed string) bool {
	return jsLoopHeaderPattern.MatchString(trimmed)
}

// jsConcatPattern matches += of a string literal or template.
var jsConcatPattern = regexp.MustCompile(`[A-Za-z_$][\w$]*\s*\+=\s*["'` + "`" + `]`)

func checkJSStringConcatInLoop(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	forEachLoopBodyLine(rc.Lines, isJSLoopHeader, func(lineNo int, line string) {
		loc := jsConcatPattern.FindStringIndex(line)
		if loc == nil {
			return
		}
		issues = append(issues, issue.Issue{
			Line:       lineNo,
			Column:     utf8.RuneCountInString(line[:loc[0]]) + 1,
			Message:    "String concatenation in a loop",
			Code:       issue.CodeStringConcatLoop,
			Severity:   issue.SeverityInfo,
			Source:     StagePerformance.String(),
			Suggestion: "Push parts onto an array and join once",
		})
	})
	return issues
}
