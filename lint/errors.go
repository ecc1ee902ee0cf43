// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lint package.
var (
	// ErrUnknownTool indicates no configuration is registered for the tool.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolNotInstalled indicates the tool binary was not found in PATH.
	ErrToolNotInstalled = errors.New("tool not installed")

	// ErrToolTimeout indicates the tool exceeded its configured timeout.
	ErrToolTimeout = errors.New("tool timeout")

	// ErrToolFailed indicates the tool process failed to execute.
	ErrToolFailed = errors.New("tool execution failed")

	// ErrParseOutput indicates failure to parse the tool's output.
	ErrParseOutput = errors.New("failed to parse tool output")

	// ErrWrongKind indicates a formatter was asked to lint or vice versa.
	ErrWrongKind = errors.New("tool kind mismatch")
)

// ToolError wraps errors from a specific tool with context.
//
// Thread Safety: Immutable after creation.
type ToolError struct {
	// Tool is the name of the tool that failed (e.g., "flake8").
	Tool string

	// Language is the language being processed (e.g., "python").
	Language string

	// Err is the underlying error.
	Err error

	// Output contains any captured tool output relevant to the failure.
	Output string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s (%s): %v: %s", e.Tool, e.Language, e.Err, e.Output)
	}
	return fmt.Sprintf("%s (%s): %v", e.Tool, e.Language, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError.
func NewToolError(tool, language string, err error) *ToolError {
	return &ToolError{
		Tool:     tool,
		Language: language,
		Err:      err,
	}
}

// WithOutput returns a copy of the error with the output field set.
// Output is capped so a chatty tool cannot bloat error chains.
func (e *ToolError) WithOutput(output string) *ToolError {
	const maxOutput = 512
	if len(output) > maxOutput {
		output = output[:maxOutput] + "..."
	}
	return &ToolError{
		Tool:     e.Tool,
		Language: e.Language,
		Err:      e.Err,
		Output:   output,
	}
}
