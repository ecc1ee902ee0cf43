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

	"github.com/AleutianAI/codewarden/complexity"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// baseSuggestions is the static best-practices table, keyed by language.
var baseSuggestions = map[lang.Language][]string{
	lang.Python: {
		"Follow PEP 8 style guidelines for consistent formatting",
		"Add docstrings to modules, classes, and public functions",
		"Use type hints to make function contracts explicit",
		"Prefer comprehensions over building containers in loops",
		"Use context managers (with statements) for files and locks",
	},
	lang.JavaScript: {
		"Prefer const and let over var",
		"Use strict equality (=== and !==) in comparisons",
		"Handle promise rejections with .catch() or try/await",
		"Use template literals instead of string concatenation",
	},
	lang.TypeScript: {
		"Avoid the any type; prefer precise types or unknown",
		"Enable strict mode in tsconfig.json",
		"Use interfaces to describe object shapes",
		"Prefer const and let over var",
	},
}

// genericSuggestions serves languages without a dedicated table.
var genericSuggestions = []string{
	"Keep functions small and single-purpose",
	"Name variables for what they hold, not how they are used",
	"Handle error paths explicitly instead of ignoring them",
	"Resolve TODO and FIXME markers before release",
}

// SuggestImprovements returns deterministic improvement hints.
//
// Description:
//
//	Combines targeted suggestions derived from already-computed findings
//	and metrics with the static per-language best-practices table.
//	Targeted entries come first; duplicates are dropped keeping the first
//	occurrence. No I/O, no randomness: identical inputs give identical
//	output.
//
// Inputs:
//
//	code    - Source code the hints refer to
//	l       - Declared language; Unknown means detect from content
//	issues  - Findings from RunQualityChecks; may be nil
//	metrics - Metrics from AnalyzeComplexity; may be nil
//
// Outputs:
//
//	[]string - Ordered, deduplicated suggestions; empty for empty input
func (e *Enforcer) SuggestImprovements(code string, l lang.Language, issues []issue.Issue, metrics *complexity.Metrics) (suggestions []string) {
	defer guard("SuggestImprovements", func() {
		suggestions = []string{}
	})

	if strings.TrimSpace(code) == "" {
		return []string{}
	}

	resolved := e.resolve(code, l)
	var ordered []string

	ordered = append(ordered, e.issueSuggestions(issues)...)
	ordered = append(ordered, e.metricSuggestions(metrics)...)

	table, ok := baseSuggestions[resolved]
	if !ok {
		table = genericSuggestions
	}
	ordered = append(ordered, table...)

	return dedupe(ordered)
}

// issueSuggestions derives hints from the severity and kind of findings.
func (e *Enforcer) issueSuggestions(issues []issue.Issue) []string {
	var criticals, security, style int
	for _, is := range issues {
		if is.Severity == issue.SeverityCritical {
			criticals++
		}
		if strings.HasPrefix(is.Code, "S") {
			security++
		}
		if is.Source == "style" {
			style++
		}
	}

	var out []string
	if criticals > 0 {
		out = append(out, "Address the critical findings before any other cleanup")
	}
	if security > 0 {
		out = append(out, "Review the security findings; keep secrets in environment variables, not in source")
	}
	if style > 5 {
		out = append(out, "Run the formatter to clear the style findings in one pass")
	}
	return out
}

// metricSuggestions derives hints from complexity metrics.
func (e *Enforcer) metricSuggestions(metrics *complexity.Metrics) []string {
	if metrics == nil {
		return nil
	}

	var out []string
	ccLimit := e.cfg.GetInt("python", "cyclomatic_complexity_threshold", 10)
	if metrics.MaxComplexity > ccLimit {
		out = append(out, fmt.Sprintf("Refactor functions with cyclomatic complexity above %d into smaller units", ccLimit))
	}

	maxLen := e.cfg.GetInt("python", "max_function_length", 50)
	for _, fn := range metrics.Functions {
		if fn.Length > maxLen {
			out = append(out, fmt.Sprintf("Split functions longer than %d lines; '%s' is %d lines", maxLen, fn.Name, fn.Length))
			break
		}
	}

	if metrics.CommentLines == 0 && metrics.CodeLines >= 20 {
		out = append(out, "Add comments explaining the non-obvious parts")
	}
	return out
}

// dedupe drops duplicate strings, keeping first-occurrence order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
