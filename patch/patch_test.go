// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package patch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/codewarden/enforcer"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
	"github.com/AleutianAI/codewarden/lint"
	"github.com/AleutianAI/codewarden/pkg/toolexec"
)

// quietExec is a toolexec.Runner with no tools installed, keeping the
// validator fully offline in tests.
type quietExec struct{}

func (quietExec) LookTool(string) bool { return false }
func (quietExec) Run(context.Context, toolexec.Spec) toolexec.Result {
	return toolexec.Result{}
}

func newTestValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	enf := enforcer.New(nil, enforcer.WithTools(lint.NewRunner(quietExec{})))
	return NewValidator(enf, opts...)
}

const patchIntroduceEval = `--- a/code.py
+++ b/code.py
@@ -1,2 +1,2 @@
 def f():
-    return 1
+    return eval(x)
`

const patchNewFile = `--- /dev/null
+++ b/new.py
@@ -0,0 +1,2 @@
+x = 1
+y = 2
`

const patchDeleteFile = `--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-x = 1
-y = 2
`

const patchBreakSyntax = `--- a/code.py
+++ b/code.py
@@ -1,2 +1,2 @@
 def f():
-    return 1
+    return (
`

const patchTwoFiles = `--- a/a.py
+++ b/a.py
@@ -1,1 +1,2 @@
 x = 1
+y = 2
--- a/b.js
+++ b/b.js
@@ -1,2 +1,1 @@
 let a = 1;
-let b = 2;
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestValidateIntroducedIssuesBlock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "code.py", "def f():\n    return 1\n")
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchIntroduceEval, dir)
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Files, 1)

	file := res.Files[0]
	assert.Equal(t, "code.py", file.Path)
	assert.Equal(t, lang.Python, file.Language)
	assert.False(t, file.Created)

	// Only the eval findings are new; the docstring and type-hint
	// findings existed before the patch and are not reported.
	require.Len(t, file.Introduced, 2)
	codes := []string{file.Introduced[0].Code, file.Introduced[1].Code}
	assert.ElementsMatch(t, []string{issue.CodeBannedCall, issue.CodeBannedFunction}, codes)
}

func TestValidateUnchangedFindingsNotIntroduced(t *testing.T) {
	dir := t.TempDir()
	// The original already carries the eval call; the patch only adds a
	// harmless line, so nothing blocking is introduced.
	writeFile(t, dir, "code.py", "def f():\n    return eval(x)\n")
	patchText := `--- a/code.py
+++ b/code.py
@@ -1,2 +1,3 @@
 def f():
     return eval(x)
+VERSION = 2
`
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchText, dir)
	require.NoError(t, err)

	assert.True(t, res.Valid)
	require.Len(t, res.Files, 1)
	for _, is := range res.Files[0].Introduced {
		assert.False(t, is.Severity.Blocking(), "unexpected blocking issue %v", is)
	}
}

func TestValidateNewFile(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchNewFile, "")
	require.NoError(t, err)

	assert.True(t, res.Valid)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "new.py", res.Files[0].Path)
	assert.True(t, res.Files[0].Created)
	assert.Equal(t, lang.Python, res.Files[0].Language)

	assert.Equal(t, 1, res.Stats.FilesAffected)
	assert.Equal(t, 1, res.Stats.Hunks)
	assert.Equal(t, 2, res.Stats.LinesAdded)
	assert.Equal(t, 0, res.Stats.LinesRemoved)
}

func TestValidateDeletedFileSkipsChecks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.py", "x = 1\ny = 2\n")
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchDeleteFile, dir)
	require.NoError(t, err)

	assert.True(t, res.Valid)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Deleted)
	assert.Equal(t, "old.py", res.Files[0].Path)
	assert.Empty(t, res.Files[0].Introduced)
	assert.Equal(t, 2, res.Stats.LinesRemoved)
}

func TestValidateBrokenSyntaxRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "code.py", "def f():\n    return 1\n")
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchBreakSyntax, dir)
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, ErrorTypeSyntax, res.Errors[0].Type)
	assert.Equal(t, "code.py", res.Errors[0].File)
}

func TestValidateMalformedPatch(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), "this is not a unified diff\n", "")
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrorTypeDiffParse, res.Errors[0].Type)
	assert.Empty(t, res.Files)
}

func TestValidateEmptyPatch(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), "", "")
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Files)
	assert.Zero(t, res.Stats.FilesAffected)
}

func TestValidateSizeLimit(t *testing.T) {
	v := newTestValidator(t, WithMaxLines(3))

	res, err := v.Validate(context.Background(), strings.Repeat("x\n", 10), "")
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrorTypeSizeLimit, res.Errors[0].Type)
}

func TestValidateMultiFileStats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.js", "let a = 1;\nlet b = 2;\n")
	v := newTestValidator(t)

	res, err := v.Validate(context.Background(), patchTwoFiles, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.FilesAffected)
	assert.Equal(t, 2, res.Stats.Hunks)
	assert.Equal(t, 1, res.Stats.LinesAdded)
	assert.Equal(t, 1, res.Stats.LinesRemoved)

	require.Len(t, res.Files, 2)
	assert.Equal(t, "a.py", res.Files[0].Path)
	assert.Equal(t, "b.js", res.Files[1].Path)
	assert.Equal(t, lang.JavaScript, res.Files[1].Language)
}

// =============================================================================
// APPLY
// =============================================================================

func TestApplyModify(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "a/x.txt",
		NewName:  "b/x.txt",
		Hunks: []*diff.Hunk{{
			OrigStartLine: 1,
			Body:          []byte(" a\n-b\n+B\n c\n"),
		}},
	}

	out, err := Apply("a\nb\nc\n", fd)
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nc\n", out)
}

func TestApplyCreate(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "/dev/null",
		NewName:  "b/new.txt",
		Hunks: []*diff.Hunk{{
			OrigStartLine: 0,
			Body:          []byte("+x\n+y\n"),
		}},
	}

	out, err := Apply("", fd)
	require.NoError(t, err)
	assert.Equal(t, "x\ny", out)
}

func TestApplyDelete(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "a/old.txt",
		NewName:  "/dev/null",
	}

	out, err := Apply("anything\n", fd)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestApplyAppendAtEnd(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "a/x.txt",
		NewName:  "b/x.txt",
		Hunks: []*diff.Hunk{{
			OrigStartLine: 2,
			Body:          []byte(" b\n+c\n"),
		}},
	}

	out, err := Apply("a\nb\n", fd)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestApplyHunkBeyondEnd(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "a/x.txt",
		NewName:  "b/x.txt",
		Hunks: []*diff.Hunk{{
			OrigStartLine: 50,
			Body:          []byte("+z\n"),
		}},
	}

	_, err := Apply("a\nb\n", fd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hunk 1")
}

func TestApplyIgnoresNoNewlineMarker(t *testing.T) {
	fd := &diff.FileDiff{
		OrigName: "a/x.txt",
		NewName:  "b/x.txt",
		Hunks: []*diff.Hunk{{
			OrigStartLine: 1,
			Body:          []byte("-a\n+A\n\\ No newline at end of file\n"),
		}},
	}

	out, err := Apply("a", fd)
	require.NoError(t, err)
	assert.Equal(t, "A", out)
}

// =============================================================================
// INTRODUCED
// =============================================================================

func TestIntroducedIgnoresLineShifts(t *testing.T) {
	long := issue.Issue{
		Line: 5, Code: issue.CodeLineTooLong, Source: "style",
		Message: "Line too long (95 > 88 characters)",
	}
	shifted := long
	shifted.Line = 7
	fresh := issue.Issue{
		Line: 2, Code: issue.CodeBannedCall, Source: "security",
		Message: "Use of banned function 'eval'",
	}

	got := introduced([]issue.Issue{long}, []issue.Issue{shifted, fresh})

	require.Len(t, got, 1)
	assert.Equal(t, issue.CodeBannedCall, got[0].Code)
}

func TestIntroducedCountsDuplicates(t *testing.T) {
	is := issue.Issue{
		Line: 1, Code: issue.CodeTodoFound, Source: "general",
		Message: "TODO marker found",
	}
	second := is
	second.Line = 9

	got := introduced([]issue.Issue{is}, []issue.Issue{is, second})

	// One occurrence existed before; the second one is new.
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Line)
}

func TestIntroducedEmptyAfter(t *testing.T) {
	is := issue.Issue{Code: issue.CodeTodoFound, Source: "general", Message: "TODO marker found"}
	assert.Empty(t, introduced([]issue.Issue{is}, nil))
}
