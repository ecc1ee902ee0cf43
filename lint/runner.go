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
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/pkg/toolexec"
)

// Runner executes registered external tools against in-memory code.
//
// Thread Safety: Safe for concurrent use. The underlying toolexec.Runner
// is stateless and the registry is lock-protected.
type Runner struct {
	exec toolexec.Runner
	reg  *Registry
}

// NewRunner creates a Runner. A nil exec falls back to the real
// process-spawning runner; tests inject a fake.
func NewRunner(exec toolexec.Runner) *Runner {
	if exec == nil {
		exec = toolexec.NewExecRunner()
	}
	return &Runner{exec: exec, reg: NewRegistry()}
}

// Registry exposes the tool registry for registration of custom tools.
func (r *Runner) Registry() *Registry {
	return r.reg
}

// Available probes PATH once for every registered tool.
//
// Callers snapshot the returned map rather than probing per call, so a
// tool installed mid-session is picked up on the next construction.
func (r *Runner) Available() map[string]bool {
	out := make(map[string]bool)
	for _, name := range r.reg.Names() {
		out[name] = r.exec.LookTool(name)
	}
	return out
}

// RunTool runs one linter against the given code and parses its output.
//
// Description:
//
//	Writes the code to a temp file carrying the language extension
//	(or feeds stdin for tools that support it), invokes the tool with
//	its configured arguments, and converts the output to issues via
//	the registered parser. Findings are sorted by position.
//
// Inputs:
//
//	ctx  - Cancellation context
//	name - Registered tool name (e.g., "flake8")
//	code - Source code to check
//	cfg  - Quality settings consulted for tool arguments
//
// Outputs:
//
//	[]issue.Issue - Parsed findings, sorted; empty when clean
//	error         - *ToolError wrapping a sentinel on any failure
func (r *Runner) RunTool(ctx context.Context, name, code string, cfg *config.Config) ([]issue.Issue, error) {
	tc := r.reg.Get(name)
	if tc == nil {
		return nil, NewToolError(name, "", ErrUnknownTool)
	}
	language := tc.Language.String()
	if tc.Kind != KindLinter {
		return nil, NewToolError(name, language, ErrWrongKind)
	}
	parser, ok := GetParser(name)
	if !ok {
		return nil, NewToolError(name, language, fmt.Errorf("no parser registered: %w", ErrParseOutput))
	}
	if !r.exec.LookTool(name) {
		return nil, NewToolError(name, language, ErrToolNotInstalled)
	}

	ctx, span := startToolSpan(ctx, name, language)
	defer span.End()

	spec := toolexec.Spec{
		Name:    name,
		Args:    r.buildArgs(tc, cfg),
		Timeout: tc.Timeout,
	}
	if tc.SupportsStdin {
		spec.Stdin = code
	} else {
		path, cleanup, err := toolexec.WriteTemp(code, tc.Language.PrimaryExtension())
		if err != nil {
			return nil, r.fail(ctx, span, name, err)
		}
		defer cleanup()
		spec.Args = append(spec.Args, path)
	}

	res := r.exec.Run(ctx, spec)
	if res.TimedOut {
		err := NewToolError(name, language, ErrToolTimeout).WithOutput(res.Stderr)
		return nil, r.fail(ctx, span, name, err)
	}
	if !res.Success {
		err := NewToolError(name, language, ErrToolFailed).WithOutput(strings.TrimSpace(res.Stderr))
		return nil, r.fail(ctx, span, name, err)
	}

	issues, err := parser([]byte(res.Stdout))
	if err != nil {
		terr := NewToolError(name, language, fmt.Errorf("%w: %v", ErrParseOutput, err)).WithOutput(res.Stdout)
		return nil, r.fail(ctx, span, name, terr)
	}

	for i := range issues {
		if issues[i].Source == "" {
			issues[i].Source = name
		}
	}
	issue.Sort(issues)

	setToolSpanResult(span, len(issues), true)
	recordToolRun(ctx, name, res.Duration, len(issues), true)
	return issues, nil
}

// Format runs one formatter against the given code and returns the
// formatted result.
//
// Description:
//
//	Stdin-capable formatters (black, prettier) are fed the code
//	directly and read from stdout. File-based formatters rewrite a
//	temp file in place, which is then read back. An empty result for
//	non-empty input is treated as a tool failure so callers never
//	silently lose code.
//
// Outputs:
//
//	string - Formatted code
//	error  - *ToolError wrapping a sentinel on any failure
func (r *Runner) Format(ctx context.Context, name, code string, cfg *config.Config) (string, error) {
	tc := r.reg.Get(name)
	if tc == nil {
		return "", NewToolError(name, "", ErrUnknownTool)
	}
	language := tc.Language.String()
	if tc.Kind != KindFormatter {
		return "", NewToolError(name, language, ErrWrongKind)
	}
	if !r.exec.LookTool(name) {
		return "", NewToolError(name, language, ErrToolNotInstalled)
	}
	if code == "" {
		return "", nil
	}

	ctx, span := startToolSpan(ctx, name, language)
	defer span.End()

	spec := toolexec.Spec{
		Name:    name,
		Args:    r.buildArgs(tc, cfg),
		Timeout: tc.Timeout,
	}

	var path string
	if tc.SupportsStdin {
		spec.Stdin = code
	} else {
		var cleanup func()
		var err error
		path, cleanup, err = toolexec.WriteTemp(code, tc.Language.PrimaryExtension())
		if err != nil {
			return "", r.fail(ctx, span, name, err)
		}
		defer cleanup()
		spec.Args = append(spec.Args, path)
	}

	res := r.exec.Run(ctx, spec)
	if res.TimedOut {
		err := NewToolError(name, language, ErrToolTimeout).WithOutput(res.Stderr)
		return "", r.fail(ctx, span, name, err)
	}
	if !res.Success {
		err := NewToolError(name, language, ErrToolFailed).WithOutput(strings.TrimSpace(res.Stderr))
		return "", r.fail(ctx, span, name, err)
	}

	formatted := res.Stdout
	if !tc.SupportsStdin {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", r.fail(ctx, span, name, NewToolError(name, language, err))
		}
		formatted = string(data)
	}

	if formatted == "" && strings.TrimSpace(code) != "" {
		err := NewToolError(name, language, fmt.Errorf("%w: formatter produced no output", ErrToolFailed))
		return "", r.fail(ctx, span, name, err)
	}

	setToolSpanResult(span, 0, true)
	recordToolRun(ctx, name, res.Duration, 0, true)
	return formatted, nil
}

// buildArgs combines static and config-derived arguments.
func (r *Runner) buildArgs(tc *ToolConfig, cfg *config.Config) []string {
	args := append([]string(nil), tc.Args...)
	if tc.ConfigArgs != nil && cfg != nil {
		args = append(args, tc.ConfigArgs(cfg)...)
	}
	return args
}

// fail records the error on the span and in metrics, then returns it.
func (r *Runner) fail(ctx context.Context, span trace.Span, tool string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	recordToolRun(ctx, tool, 0, 0, false)
	return err
}
