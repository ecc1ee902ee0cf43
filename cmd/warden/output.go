// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AleutianAI/codewarden/complexity"
	"github.com/AleutianAI/codewarden/issue"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Operation completed with findings/violations
	CLIExitError    = 2 // Operation failed
)

// OutputConfig controls output behavior.
type OutputConfig struct {
	JSON    bool // Output as JSON
	Compact bool // No indentation
	Quiet   bool // No output, exit code only
}

// outputConfig builds the OutputConfig from the global flags.
func outputConfig() OutputConfig {
	return OutputConfig{JSON: jsonOutput, Compact: compactOutput, Quiet: quietOutput}
}

// CommandResult wraps command output with metadata.
type CommandResult struct {
	APIVersion string      `json:"api_version"`
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// OutputJSON writes structured data as JSON to stdout.
//
// # Inputs
//
//   - data: The data to encode. Must be JSON-serializable.
//   - compact: If true, output without indentation.
//
// # Outputs
//
//   - error: Non-nil if encoding fails.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes an error in the appropriate format.
//
// # Inputs
//
//   - jsonMode: If true, output as JSON to stdout.
//   - msg: Human-readable error message.
//   - err: The underlying error.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
		result := CommandResult{
			APIVersion: "1.0",
			Timestamp:  time.Now(),
			Success:    false,
			Error:      fmt.Sprintf("%s: %v", msg, err),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	}
}

// OutputResult handles all output scenarios with proper formatting.
//
// # Inputs
//
//   - cfg: Output configuration.
//   - cmd: Command name for metadata.
//   - start: Start time for duration calculation.
//   - data: The data to output.
//   - hasFindings: Whether the operation found issues (for exit code).
//   - err: Any error that occurred.
//
// # Outputs
//
//   - int: The exit code to use.
func OutputResult(cfg OutputConfig, cmd string, start time.Time, data interface{}, hasFindings bool, err error) int {
	if cfg.Quiet {
		if err != nil {
			return CLIExitError
		}
		if hasFindings {
			return CLIExitFindings
		}
		return CLIExitSuccess
	}

	if err != nil {
		OutputError(cfg.JSON, "Command failed", err)
		return CLIExitError
	}

	if cfg.JSON {
		result := CommandResult{
			APIVersion: "1.0",
			Command:    cmd,
			Timestamp:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
			Success:    true,
			Data:       data,
		}
		if encErr := OutputJSON(result, cfg.Compact); encErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", encErr)
			return CLIExitError
		}
	}

	if hasFindings {
		return CLIExitFindings
	}
	return CLIExitSuccess
}

// FileReport holds the check outcome for a single file.
type FileReport struct {
	Path     string        `json:"path"`
	Language string        `json:"language"`
	Valid    bool          `json:"valid"`
	Issues   []issue.Issue `json:"issues"`
}

// CheckReport holds the results of a quality check run.
type CheckReport struct {
	RunID        string         `json:"run_id"`
	Files        []FileReport   `json:"files"`
	FilesScanned int            `json:"files_scanned"`
	FilesSkipped int            `json:"files_skipped"`
	IssueCounts  map[string]int `json:"issue_counts"`
	FastMode     bool           `json:"fast_mode,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// NewCheckReport creates an initialized CheckReport.
func NewCheckReport(runID string) *CheckReport {
	return &CheckReport{
		RunID:       runID,
		Files:       make([]FileReport, 0),
		IssueCounts: make(map[string]int),
		Warnings:    make([]string, 0),
	}
}

// SyntaxReport holds syntax validation output.
type SyntaxReport struct {
	Path     string        `json:"path"`
	Language string        `json:"language"`
	Valid    bool          `json:"valid"`
	Issues   []issue.Issue `json:"issues"`
}

// FixReport holds auto-fix output for one file.
type FixReport struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Fixed   string `json:"fixed,omitempty"`
}

// FmtReport holds formatting output for one file.
type FmtReport struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written,omitempty"`
}

// StatsReport holds complexity metrics for one file.
type StatsReport struct {
	Path     string             `json:"path"`
	Language string             `json:"language"`
	Metrics  complexity.Metrics `json:"metrics"`
}

// SuggestReport holds improvement suggestions for one file.
type SuggestReport struct {
	Path        string   `json:"path"`
	Language    string   `json:"language"`
	Suggestions []string `json:"suggestions"`
}

// ToolStatus describes one external tool.
type ToolStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ToolsReport holds external tool availability.
type ToolsReport struct {
	Tools []ToolStatus `json:"tools"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Analyzer  bool   `json:"analyzer"`
}

// LanguagesReport holds the supported language list.
type LanguagesReport struct {
	Languages []LanguageInfo `json:"languages"`
}
