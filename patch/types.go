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
	"time"

	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// ErrorType classifies a blocking validation error.
type ErrorType string

const (
	ErrorTypeSizeLimit ErrorType = "SIZE_LIMIT"
	ErrorTypeDiffParse ErrorType = "DIFF_PARSE"
	ErrorTypeApply     ErrorType = "APPLY"
	ErrorTypeSyntax    ErrorType = "SYNTAX"
)

// Error is one blocking problem found while validating a patch.
type Error struct {
	// Type is the error classification.
	Type ErrorType `json:"type"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// File is the affected file, when the error is file-scoped.
	File string `json:"file,omitempty"`

	// Line is the 1-based line in the patched file, when known.
	Line int `json:"line,omitempty"`
}

// Stats summarizes the shape of a patch.
type Stats struct {
	// FilesAffected is the number of files the patch touches.
	FilesAffected int `json:"files_affected"`

	// Hunks is the total hunk count across all files.
	Hunks int `json:"hunks"`

	// LinesAdded is the number of added lines.
	LinesAdded int `json:"lines_added"`

	// LinesRemoved is the number of removed lines.
	LinesRemoved int `json:"lines_removed"`
}

// FileResult is the per-file outcome of validation.
type FileResult struct {
	// Path is the file path with any a/ b/ diff prefix stripped.
	Path string `json:"path"`

	// Language is the language resolved for the patched content.
	Language lang.Language `json:"language"`

	// Created marks a file the patch introduces.
	Created bool `json:"created,omitempty"`

	// Deleted marks a file the patch removes.
	Deleted bool `json:"deleted,omitempty"`

	// Introduced holds the quality findings present in the patched
	// content but absent from the original.
	Introduced []issue.Issue `json:"introduced_issues,omitempty"`
}

// Result is the full outcome of validating one patch.
type Result struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`

	// Valid is false when an error was recorded or the patch introduces
	// a blocking finding.
	Valid bool `json:"valid"`

	// Errors contains the blocking problems, in discovery order.
	Errors []Error `json:"errors,omitempty"`

	// Files holds the per-file outcomes, in diff order.
	Files []FileResult `json:"files,omitempty"`

	// Stats summarizes the patch.
	Stats Stats `json:"stats"`

	// ValidatedAt is when validation ran.
	ValidatedAt time.Time `json:"validated_at"`
}

// addError records a blocking error and flips Valid.
func (r *Result) addError(e Error) {
	r.Valid = false
	r.Errors = append(r.Errors, e)
}
