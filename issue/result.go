// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package issue

import "sort"

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult aggregates issues with an overall pass/fail verdict.
//
// The invariant maintained by all constructors and mutators: Valid is false
// exactly when Issues contains at least one blocking (error or critical)
// issue.
//
// Thread Safety: Not safe for concurrent mutation.
type ValidationResult struct {
	// Valid is true when no blocking issues are present.
	Valid bool `json:"valid"`

	// Issues holds every finding, blocking or not.
	Issues []Issue `json:"issues"`
}

// NewResult builds a ValidationResult from a set of issues, deriving Valid.
func NewResult(issues []Issue) ValidationResult {
	r := ValidationResult{Valid: true}
	for _, is := range issues {
		r.Add(is)
	}
	return r
}

// Add appends an issue, flipping Valid to false permanently if it blocks.
func (r *ValidationResult) Add(is Issue) {
	r.Issues = append(r.Issues, is)
	if is.Severity.Blocking() {
		r.Valid = false
	}
}

// Merge combines another result into this one.
//
// Description:
//
//	Validity is ANDed: the merged result is valid only if both inputs
//	were valid. Issues are concatenated in order.
//
// Inputs:
//
//	other - The result to fold in
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Valid = r.Valid && other.Valid
	r.Issues = append(r.Issues, other.Issues...)
}

// ErrorCount returns the number of blocking issues.
func (r *ValidationResult) ErrorCount() int {
	count := 0
	for _, is := range r.Issues {
		if is.Severity.Blocking() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *ValidationResult) WarningCount() int {
	count := 0
	for _, is := range r.Issues {
		if is.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// MaxSeverity returns the highest severity present, or SeverityInfo when empty.
func (r *ValidationResult) MaxSeverity() Severity {
	max := SeverityInfo
	for _, is := range r.Issues {
		if is.Severity > max {
			max = is.Severity
		}
	}
	return max
}

// Sort stable-sorts the issues by (Line, Column) ascending.
// Issues without position info (Line == 0) sort first.
func (r *ValidationResult) Sort() {
	Sort(r.Issues)
}

// Sort stable-sorts issues by (Line, Column) ascending.
//
// Position-less issues (Line == 0) come first; ties keep insertion order so
// results stay deterministic across runs.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		if issues[a].Line != issues[b].Line {
			return issues[a].Line < issues[b].Line
		}
		return issues[a].Column < issues[b].Column
	})
}
