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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
)

func TestFindCalls(t *testing.T) {
	tests := []struct {
		line string
		name string
		want []int
	}{
		{"eval(x)", "eval", []int{1}},
		{"  eval(x)", "eval", []int{3}},
		{"y = eval(x) + eval(z)", "eval", []int{5, 15}},
		{"evaluate(x)", "eval", nil},
		{"my_eval(x)", "eval", nil},
		{"eval (x)", "eval", nil},
		{"eval(eval(x))", "eval", []int{1, 6}},
		{"", "eval", nil},
		{"eval(x)", "", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findCalls(tt.line, tt.name),
			"line %q name %q", tt.line, tt.name)
	}
}

func TestCheckBannedFunctionsDefaults(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	lines := []string{
		"result = eval(expr)",
		"safe_call(expr)",
		"exec(cmd)",
	}

	issues := e.checkBannedFunctions(lines)

	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 10, issues[0].Column)
	assert.Equal(t, issue.CodeBannedFunction, issues[0].Code)
	assert.Equal(t, issue.SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[1].Line)
}

func TestCheckBannedFunctionsCustomList(t *testing.T) {
	cfg, err := config.LoadBytes([]byte("general:\n  banned_functions: \"system,os.system\"\n"))
	require.NoError(t, err)
	e := newTestEnforcer(t, cfg, &fakeExec{})

	issues := e.checkBannedFunctions([]string{"system('ls')", "eval(x)"})

	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Line)
	assert.Contains(t, issues[0].Message, "'system'")
}

func TestCheckTodoMarkers(t *testing.T) {
	e := newTestEnforcer(t, nil, &fakeExec{})
	lines := []string{
		"x = 1",
		"x = 1 # todo later",
		"# FIXME then TODO",
		"no markers here",
	}

	issues := e.checkTodoMarkers(lines)

	require.Len(t, issues, 2)

	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 9, issues[0].Column)
	assert.Equal(t, "TODO marker found", issues[0].Message)
	assert.Equal(t, issue.CodeTodoFound, issues[0].Code)
	assert.Equal(t, issue.SeverityInfo, issues[0].Severity)

	// FIXME comes before TODO on line 3, so FIXME wins; one issue per line.
	assert.Equal(t, 3, issues[1].Line)
	assert.Equal(t, 3, issues[1].Column)
	assert.Equal(t, "FIXME marker found", issues[1].Message)
}

func TestCheckFileSizeBoundary(t *testing.T) {
	cfg, err := config.LoadBytes([]byte("general:\n  max_file_size_kb: 1\n"))
	require.NoError(t, err)
	e := newTestEnforcer(t, cfg, &fakeExec{})

	assert.Empty(t, e.checkFileSize(strings.Repeat("x", 1024)))

	issues := e.checkFileSize(strings.Repeat("x", 1025))
	require.Len(t, issues, 1)
	assert.Equal(t, issue.CodeFileTooLarge, issues[0].Code)
	assert.Zero(t, issues[0].Line)
	assert.Contains(t, issues[0].Message, "1 KB")
}
