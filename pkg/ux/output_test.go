// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Success(t *testing.T) {
	result := IconSuccess.Render()
	if result == "" {
		t.Error("expected non-empty result for IconSuccess")
	}
}

func TestIcon_Render_Warning(t *testing.T) {
	result := IconWarning.Render()
	if result == "" {
		t.Error("expected non-empty result for IconWarning")
	}
}

func TestIcon_Render_Error(t *testing.T) {
	result := IconError.Render()
	if result == "" {
		t.Error("expected non-empty result for IconError")
	}
}

func TestIcon_Render_Pending(t *testing.T) {
	result := IconPending.Render()
	if result == "" {
		t.Error("expected non-empty result for IconPending")
	}
}

func TestIcon_Render_Default(t *testing.T) {
	result := IconArrow.Render()
	if result != string(IconArrow) {
		t.Errorf("expected plain arrow icon, got %q", result)
	}
}

func TestIcon_Render_ColorDisabled(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetColorEnabled(false)

	result := IconSuccess.Render()
	if result != string(IconSuccess) {
		t.Errorf("expected unstyled icon with color disabled, got %q", result)
	}
}

// =============================================================================
// SeverityIcon Tests
// =============================================================================

func TestSeverityIcon(t *testing.T) {
	tests := []struct {
		severity string
		want     Icon
	}{
		{"critical", IconError},
		{"error", IconError},
		{"warning", IconWarning},
		{"info", IconBullet},
		{"unknown", IconBullet},
		{"", IconBullet},
	}

	for _, tt := range tests {
		if got := SeverityIcon(tt.severity); got != tt.want {
			t.Errorf("SeverityIcon(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

// =============================================================================
// MutedText Tests
// =============================================================================

func TestMutedText_ColorDisabled(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetColorEnabled(false)

	if got := MutedText("(ruff)"); got != "(ruff)" {
		t.Errorf("expected text unchanged with color disabled, got %q", got)
	}
}

// =============================================================================
// RenderSeverity Tests
// =============================================================================

func TestRenderSeverity_ColorDisabled(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetColorEnabled(false)

	for _, severity := range []string{"critical", "error", "warning", "info"} {
		if got := RenderSeverity(severity); got != severity {
			t.Errorf("RenderSeverity(%q) = %q, want label unchanged", severity, got)
		}
	}
}

// =============================================================================
// Title Tests
// =============================================================================

func TestTitle_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Title("Check Results")
	})

	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestTitle_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Title("Check Results")
	})

	if output == "" {
		t.Error("expected styled output in full mode")
	}
}

// =============================================================================
// Success Tests
// =============================================================================

func TestSuccess_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Success("All checks passed")
	})

	if output != "OK: All checks passed\n" {
		t.Errorf("expected 'OK: All checks passed', got %q", output)
	}
}

func TestSuccess_MinimalMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMinimal)

	output := captureStdout(func() {
		Success("All checks passed")
	})

	if output == "" {
		t.Error("expected non-empty output in minimal mode")
	}
}

func TestSuccess_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Success("All checks passed")
	})

	if output == "" {
		t.Error("expected styled output in full mode")
	}
}

// =============================================================================
// Warning Tests
// =============================================================================

func TestWarning_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStderr(func() {
		Warning("ruff not found on PATH")
	})

	if output != "WARN: ruff not found on PATH\n" {
		t.Errorf("expected 'WARN: ruff not found on PATH', got %q", output)
	}
}

func TestWarning_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Warning("ruff not found on PATH")
	})

	if output == "" {
		t.Error("expected styled output in full mode")
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestError_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStderr(func() {
		Error("cannot read file")
	})

	if output != "ERROR: cannot read file\n" {
		t.Errorf("expected 'ERROR: cannot read file', got %q", output)
	}
}

func TestError_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Error("cannot read file")
	})

	if output == "" {
		t.Error("expected styled output in full mode")
	}
}

// =============================================================================
// Info and Muted Tests
// =============================================================================

func TestInfo_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Info("checked 3 files")
	})

	if output != "checked 3 files\n" {
		t.Errorf("expected plain text in machine mode, got %q", output)
	}
}

func TestInfo_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Info("checked 3 files")
	})

	if output == "" {
		t.Error("expected styled output in full mode")
	}
}

func TestMuted_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Muted("no external tools available")
	})

	if output != "" {
		t.Errorf("expected no output in machine mode, got %q", output)
	}
}

func TestMuted_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		Muted("no external tools available")
	})

	if output == "" {
		t.Error("expected non-empty output in full mode")
	}
}

// =============================================================================
// Box Tests
// =============================================================================

func TestBox_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		Box("Suggestions", "Add docstrings to public functions")
	})

	if output != "Suggestions: Add docstrings to public functions\n" {
		t.Errorf("expected 'title: content' in machine mode, got %q", output)
	}
}

func TestBox_ColorDisabled(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)
	SetColorEnabled(false)

	output := captureStdout(func() {
		Box("Suggestions", "Add docstrings to public functions")
	})

	if output != "Suggestions\nAdd docstrings to public functions\n" {
		t.Errorf("expected plain title and content lines, got %q", output)
	}
}

func TestBox_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)
	SetColorEnabled(true)

	output := captureStdout(func() {
		Box("Suggestions", "Add docstrings to public functions")
	})

	if !strings.Contains(output, "Suggestions") {
		t.Errorf("expected box output to contain the title, got %q", output)
	}
}

// =============================================================================
// FileStatus Tests
// =============================================================================

func TestFileStatus_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		FileStatus("src/app.py", IconSuccess, "clean")
	})

	if output != "✓\tsrc/app.py\tclean\n" {
		t.Errorf("expected tab-separated output, got %q", output)
	}
}

func TestFileStatus_MinimalMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMinimal)

	output := captureStdout(func() {
		FileStatus("src/app.py", IconSuccess, "clean")
	})

	if output == "" {
		t.Error("expected non-empty output in minimal mode")
	}
}

func TestFileStatus_FullMode_WithReason(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		FileStatus("src/app.py", IconWarning, "2 warnings")
	})

	if !strings.Contains(output, "2 warnings") {
		t.Errorf("expected reason in full mode output, got %q", output)
	}
}

func TestFileStatus_FullMode_NoReason(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		FileStatus("src/app.py", IconSuccess, "")
	})

	if output == "" {
		t.Error("expected styled output without reason in full mode")
	}
}

// =============================================================================
// IssueSummary Tests
// =============================================================================

func TestIssueSummary_MachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)

	output := captureStdout(func() {
		IssueSummary(1, 2, 3, 4)
	})

	if output != "SUMMARY: critical=1 error=2 warning=3 info=4\n" {
		t.Errorf("expected machine format summary, got %q", output)
	}
}

func TestIssueSummary_FullMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)

	output := captureStdout(func() {
		IssueSummary(0, 1, 5, 2)
	})

	if !strings.Contains(output, "warnings") {
		t.Errorf("expected styled summary output, got %q", output)
	}
}

// =============================================================================
// Styles Tests
// =============================================================================

func TestStyles_RenderNonEmpty(t *testing.T) {
	result := Styles.Title.Render("warden")
	if result == "" {
		t.Error("Title style should render text")
	}
}
