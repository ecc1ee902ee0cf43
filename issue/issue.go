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

import "strconv"

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of a code issue.
type Severity int

const (
	// SeverityInfo represents informational findings (style hints, suggestions).
	SeverityInfo Severity = iota

	// SeverityWarning represents issues that should be fixed but don't fail validation.
	SeverityWarning

	// SeverityError represents issues that fail validation.
	SeverityError

	// SeverityCritical represents severe issues (security findings) that fail validation.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Blocking reports whether this severity fails validation.
func (s Severity) Blocking() bool {
	return s >= SeverityError
}

// SeverityFromString parses a severity string.
//
// Description:
//
//	Parses common severity strings from different tools.
//	Unknown values default to SeverityWarning.
//
// Inputs:
//
//	s - Severity string (e.g., "error", "warning", "info", "critical")
//
// Outputs:
//
//	Severity - The parsed severity level
func SeverityFromString(s string) Severity {
	switch s {
	case "critical", "fatal", "high":
		return SeverityCritical
	case "error", "err":
		return SeverityError
	case "warning", "warn", "medium":
		return SeverityWarning
	case "info", "note", "style", "hint", "convention", "low":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	*s = SeverityFromString(str)
	return nil
}

// =============================================================================
// ISSUE
// =============================================================================

// Issue represents a single finding in a piece of code.
//
// Thread Safety: Immutable after creation.
type Issue struct {
	// Line is the 1-indexed line number where the issue occurs.
	// Zero means the issue is not tied to a specific line.
	Line int `json:"line,omitempty"`

	// Column is the 1-indexed column number where the issue occurs.
	// Zero means the checker did not provide column info.
	Column int `json:"column,omitempty"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Code identifies the rule that fired (e.g., "E501", "S102").
	Code string `json:"code"`

	// Severity is the severity level of the issue.
	Severity Severity `json:"severity"`

	// Source names the stage or tool that produced the issue
	// (e.g., "style", "security", "flake8").
	Source string `json:"source"`

	// Suggestion is a human-readable hint for fixing the issue, if any.
	Suggestion string `json:"suggestion,omitempty"`

	// Replacement is a full replacement for the offending line.
	// Empty when no mechanical fix exists.
	Replacement string `json:"replacement,omitempty"`
}

// Location returns a formatted location string (line:col, or "-" when unknown).
func (i *Issue) Location() string {
	if i.Line <= 0 {
		return "-"
	}
	if i.Column > 0 {
		return strconv.Itoa(i.Line) + ":" + strconv.Itoa(i.Column)
	}
	return strconv.Itoa(i.Line)
}

// Fixable reports whether the issue carries a mechanical line replacement.
func (i *Issue) Fixable() bool {
	return i.Replacement != ""
}
