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

import "testing"

func TestNewResultValidity(t *testing.T) {
	tests := []struct {
		name   string
		issues []Issue
		want   bool
	}{
		{"empty is valid", nil, true},
		{"infos only", []Issue{{Severity: SeverityInfo}}, true},
		{"warnings only", []Issue{{Severity: SeverityWarning}, {Severity: SeverityInfo}}, true},
		{"one error", []Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}, false},
		{"one critical", []Issue{{Severity: SeverityCritical}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult(tt.issues)
			if r.Valid != tt.want {
				t.Errorf("NewResult().Valid = %v, want %v", r.Valid, tt.want)
			}
		})
	}
}

func TestResultAddFlipsValidPermanently(t *testing.T) {
	r := ValidationResult{Valid: true}
	r.Add(Issue{Severity: SeverityError})
	r.Add(Issue{Severity: SeverityInfo})

	if r.Valid {
		t.Error("Valid should stay false after a blocking issue was added")
	}
	if len(r.Issues) != 2 {
		t.Errorf("len(Issues) = %d, want 2", len(r.Issues))
	}
}

func TestResultMerge(t *testing.T) {
	tests := []struct {
		name      string
		a, b      ValidationResult
		wantValid bool
		wantCount int
	}{
		{
			name:      "valid and valid",
			a:         NewResult([]Issue{{Severity: SeverityInfo}}),
			b:         NewResult(nil),
			wantValid: true,
			wantCount: 1,
		},
		{
			name:      "valid and invalid",
			a:         NewResult(nil),
			b:         NewResult([]Issue{{Severity: SeverityError}}),
			wantValid: false,
			wantCount: 1,
		},
		{
			name:      "invalid and valid",
			a:         NewResult([]Issue{{Severity: SeverityCritical}}),
			b:         NewResult([]Issue{{Severity: SeverityWarning}}),
			wantValid: false,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.a.Merge(tt.b)
			if tt.a.Valid != tt.wantValid {
				t.Errorf("merged Valid = %v, want %v", tt.a.Valid, tt.wantValid)
			}
			if len(tt.a.Issues) != tt.wantCount {
				t.Errorf("merged issue count = %d, want %d", len(tt.a.Issues), tt.wantCount)
			}
		})
	}
}

func TestSortByLineColumn(t *testing.T) {
	issues := []Issue{
		{Line: 10, Column: 2, Code: "c"},
		{Line: 3, Column: 9, Code: "a"},
		{Line: 10, Column: 1, Code: "b"},
		{Line: 0, Code: "first"},
	}

	Sort(issues)

	wantOrder := []string{"first", "a", "b", "c"}
	for i, want := range wantOrder {
		if issues[i].Code != want {
			t.Errorf("issues[%d].Code = %q, want %q", i, issues[i].Code, want)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	issues := []Issue{
		{Line: 5, Column: 1, Code: "first"},
		{Line: 5, Column: 1, Code: "second"},
	}

	Sort(issues)

	if issues[0].Code != "first" || issues[1].Code != "second" {
		t.Errorf("equal positions reordered: got %q then %q", issues[0].Code, issues[1].Code)
	}
}

func TestMaxSeverity(t *testing.T) {
	r := NewResult([]Issue{
		{Severity: SeverityInfo},
		{Severity: SeverityCritical},
		{Severity: SeverityWarning},
	})
	if got := r.MaxSeverity(); got != SeverityCritical {
		t.Errorf("MaxSeverity() = %v, want critical", got)
	}

	empty := NewResult(nil)
	if got := empty.MaxSeverity(); got != SeverityInfo {
		t.Errorf("MaxSeverity() on empty = %v, want info", got)
	}
}
