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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codewarden/complexity"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

func TestSuggestImprovementsPythonTable(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})

	got := e.SuggestImprovements("x = 1\n", lang.Python, nil, nil)

	assert.Equal(t, baseSuggestions[lang.Python], got)
}

func TestSuggestImprovementsDeterministic(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	issues := []issue.Issue{
		{Code: issue.CodeHardcodedSecret, Severity: issue.SeverityCritical},
	}

	first := e.SuggestImprovements("x = 1\n", lang.Python, issues, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.SuggestImprovements("x = 1\n", lang.Python, issues, nil))
	}
}

func TestSuggestImprovementsCriticalsLeadTheList(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	issues := []issue.Issue{
		{Code: issue.CodeHardcodedSecret, Severity: issue.SeverityCritical},
	}

	got := e.SuggestImprovements("x = 1\n", lang.Python, issues, nil)

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "Address the critical findings before any other cleanup", got[0])
	// S-prefixed codes also trip the security hint.
	assert.Equal(t, "Review the security findings; keep secrets in environment variables, not in source", got[1])
}

func TestSuggestImprovementsStyleThreshold(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	formatterHint := "Run the formatter to clear the style findings in one pass"

	style := func(n int) []issue.Issue {
		out := make([]issue.Issue, n)
		for i := range out {
			out[i] = issue.Issue{Line: i + 1, Code: issue.CodeLineTooLong, Source: "style"}
		}
		return out
	}

	assert.NotContains(t, e.SuggestImprovements("x = 1\n", lang.Python, style(5), nil), formatterHint)
	assert.Contains(t, e.SuggestImprovements("x = 1\n", lang.Python, style(6), nil), formatterHint)
}

func TestSuggestImprovementsFromMetrics(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	metrics := &complexity.Metrics{
		CodeLines:     30,
		CommentLines:  0,
		MaxComplexity: 15,
		Functions: []complexity.FunctionMetrics{
			{Name: "big", StartLine: 1, EndLine: 80, Length: 80, Complexity: 15},
		},
	}

	got := e.SuggestImprovements("x = 1\n", lang.Python, nil, metrics)

	assert.Contains(t, got, "Refactor functions with cyclomatic complexity above 10 into smaller units")
	assert.Contains(t, got, "Split functions longer than 50 lines; 'big' is 80 lines")
	assert.Contains(t, got, "Add comments explaining the non-obvious parts")
}

func TestSuggestImprovementsMetricsUnderThresholds(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	metrics := &complexity.Metrics{
		CodeLines:     10,
		CommentLines:  2,
		MaxComplexity: 3,
		Functions: []complexity.FunctionMetrics{
			{Name: "small", Length: 8, Complexity: 3},
		},
	}

	got := e.SuggestImprovements("x = 1\n", lang.Python, nil, metrics)

	assert.Equal(t, baseSuggestions[lang.Python], got)
}

func TestSuggestImprovementsGenericForUnknown(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})

	got := e.SuggestImprovements("plain text, no recognizable language", lang.Unknown, nil, nil)

	assert.Equal(t, genericSuggestions, got)
}

func TestSuggestImprovementsJavaScriptTable(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})

	got := e.SuggestImprovements("const x = 1;\n", lang.JavaScript, nil, nil)

	assert.Equal(t, baseSuggestions[lang.JavaScript], got)
}

func TestSuggestImprovementsEmptyCode(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})

	assert.Empty(t, e.SuggestImprovements("", lang.Python, nil, nil))
	assert.Empty(t, e.SuggestImprovements("   \n\t", lang.Python, nil, nil))
}

func TestDedupe(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, dedupe(in))
	assert.Empty(t, dedupe(nil))
}
