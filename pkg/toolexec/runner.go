// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package toolexec is the process boundary for optional external tools.
//
// Everything that shells out (linters, formatters, scanners) goes through
// this package. The contract is "degrade, don't crash": a missing binary, a
// hang, a crash, or garbage output all become a Result with Success=false
// (or lenient-decoded output), never an error that could take down an
// analysis call.
//
// Thread Safety:
//
//	ExecRunner is stateless and safe for concurrent use.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a tool run when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// Spec describes a single external tool invocation.
type Spec struct {
	// Name is the executable to invoke (resolved via PATH).
	Name string

	// Args are passed verbatim.
	Args []string

	// Stdin, when non-empty, is fed to the process.
	Stdin string

	// Dir is the working directory. Empty means inherit.
	Dir string

	// Timeout is the hard per-call ceiling. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result is the outcome of one invocation.
//
// Success follows the linter convention: a non-zero exit with stdout
// present still counts as success, because linters exit non-zero whenever
// they have findings to report.
type Result struct {
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Runner abstracts tool probing and execution so the orchestrator can be
// tested without spawning processes.
type Runner interface {
	// LookTool reports whether the named executable is on PATH.
	// Callers cache the answer; LookTool itself probes every time.
	LookTool(name string) bool

	// Run executes the spec and always returns a Result, never panics.
	Run(ctx context.Context, spec Spec) Result
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner returns the real process-spawning runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// LookTool probes PATH for the executable.
func (r *ExecRunner) LookTool(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes one external tool with a hard timeout.
//
// Description:
//
//	Spawns the process, feeds optional stdin, and captures both streams.
//	A timeout kills the process and yields Success=false with a
//	descriptive stderr; a spawn failure does the same. Output is decoded
//	leniently: invalid UTF-8 bytes are replaced, never rejected.
//
// Inputs:
//
//	ctx  - Cancellation context; combined with the spec timeout
//	spec - What to run
//
// Outputs:
//
//	Result - Always returned; inspect Success and TimedOut
func (r *ExecRunner) Run(ctx context.Context, spec Spec) Result {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)

	res := Result{
		Stdout:   lenientString(stdout.Bytes()),
		Stderr:   lenientString(stderr.Bytes()),
		Duration: elapsed,
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.Stderr = fmt.Sprintf("%s timed out after %s", spec.Name, timeout)
		slog.Warn("external tool timed out",
			slog.String("tool", spec.Name),
			slog.Duration("timeout", timeout))
		return res
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			// Findings on stdout; the non-zero exit is the tool's way of
			// saying "issues found", not a failure.
			res.Success = true
			return res
		}
		if res.Stderr == "" {
			res.Stderr = err.Error()
		}
		slog.Debug("external tool failed",
			slog.String("tool", spec.Name),
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed))
		return res
	}

	res.Success = true
	return res
}

// WriteTemp writes content to a uniquely named temp file with the given
// extension and returns the path plus a cleanup func. Most external tools
// infer the language from the extension, so it must be carried over.
func WriteTemp(content, ext string) (string, func(), error) {
	f, err := os.CreateTemp("", "warden-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("toolexec: create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("toolexec: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("toolexec: close temp file: %w", err)
	}
	return path, cleanup, nil
}

// lenientString converts raw process output, replacing invalid UTF-8.
func lenientString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
