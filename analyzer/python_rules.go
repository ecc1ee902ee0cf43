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

// pythonRules returns the Python rule set in pipeline order. Rules that
// need structural facts read rc.Python; the rest scan rc.Lines directly.
func pythonRules() []Rule {
	return []Rule{
		// Style.
		{Code: issue.CodeLineTooLong, Stage: StageStyle, Check: func(rc *RuleContext) []issue.Issue {
			return checkLineLength(rc, "python", 88)
		}},
		{Code: issue.CodeTrailingWhitespace, Stage: StageStyle, Check: checkTrailingWhitespace},
		{Code: issue.CodeTabIndentation, Stage: StageStyle, Check: checkTabs},
		{Code: issue.CodeTrailingSemicolon, Stage: StageStyle, Check: checkPyTrailingSemicolon},

		// Security.
		{Code: issue.CodeBannedCall, Stage: StageSecurity, Check: checkPyBannedCalls},
		{Code: issue.CodeHardcodedSecret, Stage: StageSecurity, Check: func(rc *RuleContext) []issue.Issue {
			return checkHardcodedSecrets(rc, func(envVar string) string {
				return "os.environ.get('" + envVar + "')"
			})
		}},
		{Code: issue.CodeDangerousImport, Stage: StageSecurity, Check: checkPyDangerousImports},
		{Code: issue.CodeSQLInjection, Stage: StageSecurity, Check: checkPySQLInjection},
		{Code: issue.CodeUnsafeDeserialize, Stage: StageSecurity, Check: checkPyUnsafeYAML},

		// Best practice.
		{Code: issue.CodeMissingDocstring, Stage: StagePractice, Check: checkPyDocstrings},
		{Code: issue.CodeMissingTypeHints, Stage: StagePractice, Check: checkPyTypeHints},
		{Code: issue.CodeTooManyParams, Stage: StagePractice, Check: checkPyTooManyParams},
		{Code: issue.CodeLongFunction, Stage: StagePractice, Check: checkPyFunctionLength},
		{Code: issue.CodeBareExcept, Stage: StagePractice, Check: checkPyBareExcept},
		{Code: issue.CodeIdentityComparison, Stage: StagePractice, Check: checkPyNoneComparison},
		{Code: issue.CodeTodoComment, Stage: StagePractice, Check: checkPyTodoComments},

		// Performance.
		{Code: issue.CodeLoopAppend, Stage: StagePerformance, Check: checkPyLoopAppend},
		{Code: issue.CodeStringConcatLoop, Stage: StagePerformance, Check: checkPyStringConcatInLoop},
		{Code: issue.CodeRedundantConversion, Stage: StagePerformance, Check: checkPyRedundantConversion},
		{Code: issue.CodeRangeLen, Stage: StagePerformance, Check: checkPyRangeLen},
	}
}

// =============================================================================
// Style
// =============================================================================

// checkPyTrailingSemicolon flags statements terminated C-style. Python
// allows the semicolon but every style guide rejects it.
func checkPyTrailingSemicolon(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		rstripped := strings.TrimRight(line, " \t\r")
		if !strings.HasSuffix(rstripped, ";") {
			continue
		}
		replacement := rstripped
		for strings.HasSuffix(replacement, ";") {
			replacement = strings.TrimRight(replacement[:len(replacement)-1], " \t")
		}
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(rstripped),
			Message:     "Statement ends with a semicolon",
			Code:        issue.CodeTrailingSemicolon,
			Severity:    issue.SeverityInfo,
			Source:      StageStyle.String(),
			Replacement: replacement,
		})
	}
	return issues
}

// =============================================================================
// Security
// =============================================================================

func checkPyBannedCalls(rc *RuleContext) []issue.Issue {
	banned := rc.Config.GetList("general", "banned_functions", []string{"eval", "exec"})
	var issues []issue.Issue
	for i, line := range rc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
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

var pyDangerousImportPattern = regexp.MustCompile(`^\s*(?:import|from)\s+(pickle|marshal|shelve)\b`)

func checkPyDangerousImports(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		m := pyDangerousImportPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		module := line[m[2]:m[3]]
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:m[2]]) + 1,
			Message:    fmt.Sprintf("Import of '%s' can execute arbitrary code during deserialization", module),
			Code:       issue.CodeDangerousImport,
			Severity:   issue.SeverityWarning,
			Source:     StageSecurity.String(),
			Suggestion: "Prefer json or another format that cannot run code",
		})
	}
	return issues
}

// sqlFormatMarkers are signs that the query string passed to execute() was
// assembled with interpolation rather than bound parameters.
var sqlFormatMarkers = []string{"%", ".format(", `f"`, "f'", "+ ", " +"}

func checkPySQLInjection(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, ".execute(")
		if idx < 0 {
			continue
		}
		call := line[idx:]
		interpolated := false
		for _, marker := range sqlFormatMarkers {
			if strings.Contains(call, marker) {
				interpolated = true
				break
			}
		}
		if !interpolated {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:idx]) + 2,
			Message:    "Possible SQL injection: query built with string interpolation",
			Code:       issue.CodeSQLInjection,
			Severity:   issue.SeverityError,
			Source:     StageSecurity.String(),
			Suggestion: "Pass values as bound parameters instead of formatting them in",
		})
	}
	return issues
}

func checkPyUnsafeYAML(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, "yaml.load(")
		if idx < 0 || strings.Contains(line, "Loader=") {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(line[:idx]) + 1,
			Message:     "yaml.load without an explicit safe loader",
			Code:        issue.CodeUnsafeDeserialize,
			Severity:    issue.SeverityError,
			Source:      StageSecurity.String(),
			Suggestion:  "Use yaml.safe_load for untrusted input",
			Replacement: strings.Replace(line, "yaml.load(", "yaml.safe_load(", 1),
		})
	}
	return issues
}

// =============================================================================
// Best practice
// =============================================================================

func checkPyDocstrings(rc *RuleContext) []issue.Issue {
	if !rc.Config.GetBool("python", "enforce_docstrings", true) {
		return nil
	}
	facts := rc.Python
	if facts == nil {
		return nil
	}
	var issues []issue.Issue
	if facts.HasStatements && !facts.HasModuleDocstring {
		issues = append(issues, issue.Issue{
			Line:       1,
			Message:    "Module is missing a docstring",
			Code:       issue.CodeMissingDocstring,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: `Add a module docstring: """One-line summary."""`,
		})
	}
	for _, cls := range facts.Classes {
		if cls.HasDocstring {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       cls.Line,
			Message:    fmt.Sprintf("Class '%s' is missing a docstring", cls.Name),
			Code:       issue.CodeMissingDocstring,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "Document what the class represents",
		})
	}
	for _, fn := range facts.Functions {
		if fn.HasDocstring {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       fn.Line,
			Message:    fmt.Sprintf("Function '%s' is missing a docstring", fn.Name),
			Code:       issue.CodeMissingDocstring,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "Document the function's behavior and parameters",
		})
	}
	return issues
}

func checkPyTypeHints(rc *RuleContext) []issue.Issue {
	if !rc.Config.GetBool("python", "enforce_type_hints", true) {
		return nil
	}
	facts := rc.Python
	if facts == nil {
		return nil
	}
	var issues []issue.Issue
	for _, fn := range facts.Functions {
		if fn.UnannotatedParams == 0 && fn.HasReturnType {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       fn.Line,
			Message:    fmt.Sprintf("Function '%s' is missing type annotations", fn.Name),
			Code:       issue.CodeMissingTypeHints,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "Annotate parameters and the return type",
		})
	}
	return issues
}

func checkPyTooManyParams(rc *RuleContext) []issue.Issue {
	facts := rc.Python
	if facts == nil {
		return nil
	}
	var issues []issue.Issue
	for _, fn := range facts.Functions {
		if fn.ParamCount <= issue.MaxParams {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       fn.Line,
			Message:    fmt.Sprintf("Function '%s' has too many parameters (%d > %d)", fn.Name, fn.ParamCount, issue.MaxParams),
			Code:       issue.CodeTooManyParams,
			Severity:   issue.SeverityWarning,
			Source:     StagePractice.String(),
			Suggestion: "Group related parameters into a dataclass or dict",
		})
	}
	return issues
}

func checkPyFunctionLength(rc *RuleContext) []issue.Issue {
	facts := rc.Python
	if facts == nil {
		return nil
	}
	max := rc.Config.GetInt("python", "max_function_length", 50)
	var issues []issue.Issue
	for _, fn := range facts.Functions {
		length := fn.EndLine - fn.Line + 1
		if length <= max {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       fn.Line,
			Message:    fmt.Sprintf("Function '%s' is %d lines long (max %d)", fn.Name, length, max),
			Code:       issue.CodeLongFunction,
			Severity:   issue.SeverityWarning,
			Source:     StagePractice.String(),
			Suggestion: "Extract helpers until each function does one thing",
		})
	}
	return issues
}

var pyBroadExceptPattern = regexp.MustCompile(`^\s*except(\s*:|\s+(Exception|BaseException)\s*:)`)

func checkPyBareExcept(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		m := pyBroadExceptPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		message := "Bare except clause catches everything, including KeyboardInterrupt"
		if m[2] != "" {
			message = fmt.Sprintf("Overly broad except clause catches %s", m[2])
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     leadingWhitespace(line) + 1,
			Message:    message,
			Code:       issue.CodeBareExcept,
			Severity:   issue.SeverityWarning,
			Source:     StagePractice.String(),
			Suggestion: "Catch the specific exception types you can handle",
		})
	}
	return issues
}

func checkPyNoneComparison(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		eq := strings.Index(line, "== None")
		ne := strings.Index(line, "!= None")
		if eq < 0 && ne < 0 {
			continue
		}
		col := eq
		if col < 0 || (ne >= 0 && ne < col) {
			col = ne
		}
		replacement := strings.ReplaceAll(line, "== None", "is None")
		replacement = strings.ReplaceAll(replacement, "!= None", "is not None")
		issues = append(issues, issue.Issue{
			Line:        i + 1,
			Column:      utf8.RuneCountInString(line[:col]) + 1,
			Message:     "Comparison to None should use 'is' or 'is not'",
			Code:        issue.CodeIdentityComparison,
			Severity:    issue.SeverityWarning,
			Source:      StagePractice.String(),
			Replacement: replacement,
		})
	}
	return issues
}

func checkPyTodoComments(rc *RuleContext) []issue.Issue {
	return checkTodoComments(rc, "#")
}

// checkTodoComments flags TODO and FIXME markers in comments. marker is the
// language's line-comment prefix.
func checkTodoComments(rc *RuleContext, marker string) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		comment := strings.ToUpper(strings.TrimSpace(line[idx+len(marker):]))
		if !strings.HasPrefix(comment, "TODO") && !strings.HasPrefix(comment, "FIXME") {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:idx]) + 1,
			Message:    "TODO/FIXME comment found",
			Code:       issue.CodeTodoComment,
			Severity:   issue.SeverityInfo,
			Source:     StagePractice.String(),
			Suggestion: "File a ticket or resolve the comment",
		})
	}
	return issues
}

// =============================================================================
// Performance
// =============================================================================

var pyLoopHeaderPattern = regexp.MustCompile(`^(?:for\s+.+\s+in\s+.+|while\s+.+):\s*(?:#.*)?$`)

func isPyLoopHeader(trimmed string) bool {
	return pyLoopHeaderPattern.MatchString(trimmed)
}

func checkPyLoopAppend(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	forEachLoopBodyLine(rc.Lines, isPyLoopHeader, func(lineNo int, line string) {
		idx := strings.Index(line, ".append(")
		if idx < 0 {
			return
		}
		issues = append(issues, issue.Issue{
			Line:       lineNo,
			Column:     utf8.RuneCountInString(line[:idx]) + 2,
			Message:    "Appending inside a loop",
			Code:       issue.CodeLoopAppend,
			Severity:   issue.SeverityInfo,
			Source:     StagePerformance.String(),
			Suggestion: "Consider a list comprehension",
		})
	})
	return issues
}

// pyConcatPattern matches augmented assignment of a string-producing
// expression: a literal, an f-string, or a str() call.
var pyConcatPattern = regexp.MustCompile(`[A-Za-z_]\w*\s*\+=\s*(?:f?["']|str\()`)

func checkPyStringConcatInLoop(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	forEachLoopBodyLine(rc.Lines, isPyLoopHeader, func(lineNo int, line string) {
		loc := pyConcatPattern.FindStringIndex(line)
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
			Suggestion: "Collect parts in a list and join once",
		})
	})
	return issues
}

var pyRedundantWraps = []string{"list([", "set([", "tuple(["}

func checkPyRedundantConversion(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		if !strings.Contains(line, " for ") {
			continue
		}
		for _, wrap := range pyRedundantWraps {
			idx := strings.Index(line, wrap)
			if idx < 0 {
				continue
			}
			if idx > 0 && isWordChar(line[idx-1]) {
				continue
			}
			issues = append(issues, issue.Issue{
				Line:       i + 1,
				Column:     utf8.RuneCountInString(line[:idx]) + 1,
				Message:    fmt.Sprintf("Redundant %s around a comprehension", strings.TrimSuffix(wrap, "([")+"()"),
				Code:       issue.CodeRedundantConversion,
				Severity:   issue.SeverityInfo,
				Source:     StagePerformance.String(),
				Suggestion: "The comprehension already builds the collection",
			})
			break
		}
	}
	return issues
}

func checkPyRangeLen(rc *RuleContext) []issue.Issue {
	var issues []issue.Issue
	for i, line := range rc.Lines {
		idx := strings.Index(line, "range(len(")
		if idx < 0 {
			continue
		}
		issues = append(issues, issue.Issue{
			Line:       i + 1,
			Column:     utf8.RuneCountInString(line[:idx]) + 1,
			Message:    "Iterating over range(len(...))",
			Code:       issue.CodeRangeLen,
			Severity:   issue.SeverityInfo,
			Source:     StagePerformance.String(),
			Suggestion: "Iterate directly over the sequence, or use enumerate()",
		})
	}
	return issues
}
