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
	"strings"
	"testing"

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

func TestCheckBracketsBalanced(t *testing.T) {
	tests := []struct {
		name string
		code string
		l    lang.Language
	}{
		{name: "python function", code: "def f(x):\n    return [x]\n", l: lang.Python},
		{name: "js function", code: "function f(x) {\n  return {x: [x]};\n}\n", l: lang.JavaScript},
		{name: "bracket in python string", code: "s = \"(unclosed\"\nprint(s)\n", l: lang.Python},
		{name: "bracket in python comment", code: "# (\nx = 1\n", l: lang.Python},
		{name: "hash in python string", code: "s = \"#(\"\nprint(s)\n", l: lang.Python},
		{name: "bracket in js line comment", code: "// (\nconst x = 1;\n", l: lang.JavaScript},
		{name: "bracket in js block comment", code: "/* ( */\nrun();\n", l: lang.JavaScript},
		{name: "bracket in template literal", code: "const s = `(${a}`;\n", l: lang.JavaScript},
		{name: "bracket in ruby comment", code: "# (\nputs 1\n", l: lang.Ruby},
		{name: "escaped quote", code: `s = "a\"(b"` + "\nprint(s)\n", l: lang.Python},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if issues := CheckBrackets(tt.code, tt.l); len(issues) != 0 {
				t.Fatalf("balanced code flagged: %v", issues)
			}
		})
	}
}

func TestCheckBracketsUnclosed(t *testing.T) {
	issues := CheckBrackets("foo(\n", lang.Python)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	is := issues[0]
	if is.Code != issue.CodeSyntaxError || is.Severity != issue.SeverityError {
		t.Errorf("got %s/%s, want %s/error", is.Code, is.Severity, issue.CodeSyntaxError)
	}
	if is.Line != 1 || is.Column != 4 {
		t.Errorf("position = %d:%d, want 1:4 (the opening paren)", is.Line, is.Column)
	}
	if is.Message != "Unclosed '('" {
		t.Errorf("message = %q", is.Message)
	}
	if is.Suggestion != "Add a matching ')'" {
		t.Errorf("suggestion = %q", is.Suggestion)
	}
}

func TestCheckBracketsUnexpectedClosing(t *testing.T) {
	issues := CheckBrackets("foo)\n", lang.Python)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if issues[0].Message != "Unexpected closing ')'" {
		t.Errorf("message = %q", issues[0].Message)
	}
	if issues[0].Line != 1 || issues[0].Column != 4 {
		t.Errorf("position = %d:%d, want 1:4", issues[0].Line, issues[0].Column)
	}
}

func TestCheckBracketsMismatch(t *testing.T) {
	issues := CheckBrackets("a = [1)\n", lang.Python)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if issues[0].Message != "Mismatched ')': expected closing ']'" {
		t.Errorf("message = %q", issues[0].Message)
	}
	if issues[0].Line != 1 || issues[0].Column != 7 {
		t.Errorf("position = %d:%d, want 1:7", issues[0].Line, issues[0].Column)
	}
}

func TestCheckBracketsUnterminatedQuoteDoesNotMask(t *testing.T) {
	// The quote on line 1 never closes; the dangling paren on line 2 must
	// still be reported.
	issues := CheckBrackets("s = 'abc\nfoo(\n", lang.Python)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if issues[0].Line != 2 || issues[0].Column != 4 {
		t.Errorf("position = %d:%d, want 2:4", issues[0].Line, issues[0].Column)
	}
}

func TestCheckBracketsMultipleSorted(t *testing.T) {
	issues := CheckBrackets("({[", lang.Python)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %v", len(issues), issues)
	}
	for i, wantCol := range []int{1, 2, 3} {
		if issues[i].Column != wantCol {
			t.Errorf("issue %d at column %d, want %d", i, issues[i].Column, wantCol)
		}
	}
}

func TestCheckBracketsCapped(t *testing.T) {
	code := strings.Repeat(")", maxBracketIssues*2)
	issues := CheckBrackets(code, lang.Python)
	if len(issues) != maxBracketIssues {
		t.Fatalf("got %d issues, want cap of %d", len(issues), maxBracketIssues)
	}
}
