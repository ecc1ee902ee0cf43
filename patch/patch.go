// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package patch validates unified diffs against the quality engine.
//
// A patch is parsed with go-diff, each file's hunks are applied to the
// original content, and the patched result is checked the same way plain
// input is. The interesting output is the delta: findings present in the
// patched content that the original did not have. A malformed patch is a
// validation failure, never a panic or an error return.
package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/go-diff/diff"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/codewarden/enforcer"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// DefaultMaxLines is the patch size ceiling used when no override is given.
const DefaultMaxLines = 500

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates patches against the quality engine.
//
// Thread Safety: Safe for concurrent use. The validator holds no mutable
// state between calls.
type Validator struct {
	enf      *enforcer.Enforcer
	maxLines int
}

// Option configures the Validator.
type Option func(*Validator)

// WithMaxLines overrides the patch size ceiling. Values below 1 keep the
// default.
func WithMaxLines(n int) Option {
	return func(v *Validator) {
		if n >= 1 {
			v.maxLines = n
		}
	}
}

// NewValidator builds a Validator backed by enf. A nil enforcer gets the
// default engine.
func NewValidator(enf *enforcer.Enforcer, opts ...Option) *Validator {
	v := &Validator{
		enf:      enf,
		maxLines: DefaultMaxLines,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.enf == nil {
		v.enf = enforcer.New(nil)
	}
	return v
}

// Validate checks one patch.
//
// Description:
//
//	Rejects oversized input, parses the unified diff, and processes each
//	file: the original content is loaded from root (missing files and
//	/dev/null originals count as new files), the hunks are applied, the
//	patched content is syntax-checked, and the quality findings of the
//	patched content are diffed against the original's. External tools are
//	skipped here so the result depends only on the patch and the tree.
//
// Inputs:
//
//	ctx       - Cancellation context
//	patchText - Unified diff text
//	root      - Directory originals are resolved against; "" treats every
//	            file as new
//
// Outputs:
//
//	*Result - Valid=false on size, parse, apply, or syntax failure, or
//	          when an introduced finding is error severity or worse
//	error   - Only a cancelled context; malformed patches are a Result
func (v *Validator) Validate(ctx context.Context, patchText, root string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "patch.validate",
		trace.WithAttributes(attribute.Int("patch_bytes", len(patchText))))
	defer span.End()

	result := &Result{
		ID:          uuid.NewString(),
		Valid:       true,
		ValidatedAt: time.Now().UTC(),
	}
	defer func() {
		span.SetAttributes(attribute.Bool("valid", result.Valid))
		recordValidation(result.Valid)
	}()

	if lines := strings.Count(patchText, "\n"); lines > v.maxLines {
		result.addError(Error{
			Type:    ErrorTypeSizeLimit,
			Message: fmt.Sprintf("Patch is %d lines, the limit is %d", lines, v.maxLines),
		})
		return result, nil
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(patchText)).ReadAllFiles()
	if err != nil {
		result.addError(Error{
			Type:    ErrorTypeDiffParse,
			Message: fmt.Sprintf("Invalid diff format: %v", err),
		})
		return result, nil
	}
	// go-diff treats text without file headers as trailing content and
	// reports no error; a non-empty patch that parses to nothing is still
	// malformed input.
	if len(fileDiffs) == 0 && strings.TrimSpace(patchText) != "" {
		result.addError(Error{
			Type:    ErrorTypeDiffParse,
			Message: "Invalid diff format: no file headers found",
		})
		return result, nil
	}

	result.Stats = collectStats(fileDiffs)

	for _, fd := range fileDiffs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		v.validateFile(ctx, fd, root, result)
	}

	return result, nil
}

// validateFile processes one file of the diff into result.
func (v *Validator) validateFile(ctx context.Context, fd *diff.FileDiff, root string, result *Result) {
	path := diffPath(fd)
	file := FileResult{Path: path}

	if fd.NewName == "/dev/null" {
		file.Deleted = true
		file.Language = lang.FromExtension(filepath.Ext(path))
		result.Files = append(result.Files, file)
		return
	}

	original := v.loadOriginal(fd, root, path)
	file.Created = original == ""

	patched, err := Apply(original, fd)
	if err != nil {
		result.addError(Error{
			Type:    ErrorTypeApply,
			File:    path,
			Message: fmt.Sprintf("Cannot apply diff: %v", err),
		})
		result.Files = append(result.Files, file)
		return
	}

	l := lang.Detect(patched, path)
	file.Language = l

	if syntax := v.enf.ValidateSyntax(ctx, patched, l); !syntax.Valid {
		e := Error{
			Type:    ErrorTypeSyntax,
			File:    path,
			Message: "Patched file has invalid syntax",
		}
		for _, is := range syntax.Issues {
			if is.Severity.Blocking() {
				e.Line = is.Line
				e.Message = fmt.Sprintf("Patched file has invalid syntax: %s", is.Message)
				break
			}
		}
		result.addError(e)
	}

	before := v.enf.RunQualityChecks(ctx, original, l, true)
	after := v.enf.RunQualityChecks(ctx, patched, l, true)
	file.Introduced = introduced(before, after)

	for _, is := range file.Introduced {
		if is.Severity.Blocking() {
			result.Valid = false
			break
		}
	}

	result.Files = append(result.Files, file)
}

// loadOriginal reads the pre-patch content. A /dev/null origin, an empty
// root, or a missing file all mean the patch creates the file.
func (v *Validator) loadOriginal(fd *diff.FileDiff, root, path string) string {
	if fd.OrigName == "/dev/null" || root == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return ""
	}
	return string(data)
}

// diffPath resolves the file path a diff entry refers to, preferring the
// post-patch name and stripping git's a/ b/ prefixes.
func diffPath(fd *diff.FileDiff) string {
	path := fd.NewName
	if path == "" || path == "/dev/null" {
		path = fd.OrigName
	}
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	return path
}

// collectStats tallies the patch shape across all files.
func collectStats(fileDiffs []*diff.FileDiff) Stats {
	stats := Stats{FilesAffected: len(fileDiffs)}
	for _, fd := range fileDiffs {
		stats.Hunks += len(fd.Hunks)
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					stats.LinesAdded++
				case strings.HasPrefix(line, "-"):
					stats.LinesRemoved++
				}
			}
		}
	}
	return stats
}

// introduced returns the findings in after that before does not account
// for. Matching ignores positions: an unchanged finding pushed to a new
// line by an insertion above it is not "introduced". Counts matter, so a
// second occurrence of an already-present finding is reported.
func introduced(before, after []issue.Issue) []issue.Issue {
	credit := make(map[string]int, len(before))
	for _, is := range before {
		credit[issueKey(is)]++
	}

	var out []issue.Issue
	for _, is := range after {
		k := issueKey(is)
		if credit[k] > 0 {
			credit[k]--
			continue
		}
		out = append(out, is)
	}
	return out
}

func issueKey(is issue.Issue) string {
	return is.Code + "\x1f" + is.Source + "\x1f" + is.Message
}
