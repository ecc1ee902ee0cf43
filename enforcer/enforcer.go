// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enforcer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/codewarden/analyzer"
	"github.com/AleutianAI/codewarden/complexity"
	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
	"github.com/AleutianAI/codewarden/lint"
)

// =============================================================================
// ENFORCER
// =============================================================================

// Enforcer orchestrates analyzers, general checks, and external tools.
//
// Description:
//
//	The single long-lived object of the engine. Construction probes each
//	registered external tool once; the resulting availability map is never
//	updated afterward. Analyzers and configuration are read-only.
//
// Thread Safety: Safe for concurrent use after New returns.
type Enforcer struct {
	cfg       *config.Config
	analyzers *analyzer.Registry
	tools     *lint.Runner
	available map[string]bool
}

// Option configures the Enforcer.
type Option func(*Enforcer)

// WithTools injects a preconfigured external tool runner. Tests pair this
// with a fake process runner to avoid spawning anything.
func WithTools(tools *lint.Runner) Option {
	return func(e *Enforcer) {
		e.tools = tools
	}
}

// WithAnalyzers overrides the default analyzer registry.
func WithAnalyzers(reg *analyzer.Registry) Option {
	return func(e *Enforcer) {
		e.analyzers = reg
	}
}

// New creates an Enforcer and freezes the tool-availability snapshot.
//
// Inputs:
//
//	cfg  - Quality settings; nil uses the compiled defaults
//	opts - Optional overrides
//
// Outputs:
//
//	*Enforcer - Ready for concurrent use
func New(cfg *config.Config, opts ...Option) *Enforcer {
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Enforcer{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.analyzers == nil {
		e.analyzers = analyzer.NewRegistry(cfg)
	}
	if e.tools == nil {
		e.tools = lint.NewRunner(nil)
	}

	e.available = e.tools.Available()
	names := make([]string, 0, len(e.available))
	for name := range e.available {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if e.available[name] {
			slog.Debug("external tool available", slog.String("tool", name))
		} else {
			slog.Debug("external tool not installed", slog.String("tool", name))
		}
	}

	return e
}

// Config returns the quality settings this Enforcer was built with.
func (e *Enforcer) Config() *config.Config {
	return e.cfg
}

// ToolAvailability returns a copy of the frozen availability snapshot.
func (e *Enforcer) ToolAvailability() map[string]bool {
	out := make(map[string]bool, len(e.available))
	for name, ok := range e.available {
		out[name] = ok
	}
	return out
}

// SupportedLanguages returns the languages with a full analyzer, sorted.
func (e *Enforcer) SupportedLanguages() []lang.Language {
	return e.analyzers.Languages()
}

// DetectLanguage identifies the language of a snippet. A filename
// extension, when recognized, takes priority over content sniffing.
func (e *Enforcer) DetectLanguage(code, filename string) lang.Language {
	return lang.Detect(code, filename)
}

// resolve maps a caller-declared language to the effective one.
// Unknown means "sniff from content".
func (e *Enforcer) resolve(code string, l lang.Language) lang.Language {
	if l.Known() {
		return l
	}
	return lang.FromContent(code)
}

// =============================================================================
// SYNTAX VALIDATION
// =============================================================================

// ValidateSyntax runs only the syntax stage for the resolved language.
//
// Description:
//
//	Empty input is always valid. Languages with a full analyzer get a real
//	parse; other known languages get the bracket-balance check; an
//	unrecognized language yields a valid result carrying one informational
//	notice, because unsupported input is degraded success, not failure.
//
// Inputs:
//
//	ctx  - Cancellation context
//	code - Source code to validate
//	l    - Declared language; Unknown means detect from content
//
// Outputs:
//
//	issue.ValidationResult - Valid=false only on error or critical findings
func (e *Enforcer) ValidateSyntax(ctx context.Context, code string, l lang.Language) (result issue.ValidationResult) {
	defer guard("ValidateSyntax", func() {
		result = issue.ValidationResult{Valid: true}
	})

	if strings.TrimSpace(code) == "" {
		return issue.ValidationResult{Valid: true}
	}

	resolved := e.resolve(code, l)
	ctx, span := tracer.Start(ctx, "enforcer.validate_syntax",
		trace.WithAttributes(attribute.String("language", resolved.String())))
	defer span.End()

	a, ok := e.analyzers.Get(resolved)
	switch {
	case ok:
		result = issue.NewResult(a.CheckSyntax(ctx, code))
	case resolved.Known():
		result = issue.NewResult(analyzer.CheckBrackets(code, resolved))
	default:
		result = issue.ValidationResult{Valid: true}
		result.Add(issue.Issue{
			Message:  fmt.Sprintf("No syntax checker for language %q, validation skipped", resolved),
			Code:     issue.CodeUnsupportedLanguage,
			Severity: issue.SeverityInfo,
			Source:   "syntax",
		})
	}

	span.SetAttributes(
		attribute.Bool("valid", result.Valid),
		attribute.Int("issue_count", len(result.Issues)),
	)
	return result
}

// =============================================================================
// QUALITY CHECKS
// =============================================================================

// RunQualityChecks runs the full layered pipeline for one snippet.
//
// Description:
//
//	Unions three sources: the resolved analyzer's pipeline (when one
//	exists), the general cross-language checks (file size, banned
//	functions, TODO scan; these always run), and, unless fastMode, each
//	available and enabled external tool for the language. Every tool runs
//	independently; one broken tool never suppresses the others. The result
//	is stable-sorted by (line, column) with missing positions first.
//
// Inputs:
//
//	ctx      - Cancellation context
//	code     - Source code to check
//	l        - Declared language; Unknown means detect from content
//	fastMode - Skip external tools
//
// Outputs:
//
//	[]issue.Issue - Sorted findings; empty (never nil) when clean
func (e *Enforcer) RunQualityChecks(ctx context.Context, code string, l lang.Language, fastMode bool) (issues []issue.Issue) {
	defer guard("RunQualityChecks", func() {
		issues = []issue.Issue{}
	})

	if code == "" {
		return []issue.Issue{}
	}

	start := time.Now()
	resolved := e.resolve(code, l)
	mode := "full"
	if fastMode {
		mode = "fast"
	}

	ctx, span := tracer.Start(ctx, "enforcer.run_quality_checks",
		trace.WithAttributes(
			attribute.String("language", resolved.String()),
			attribute.String("mode", mode),
			attribute.Int("input_bytes", len(code)),
		))
	defer span.End()

	issues = []issue.Issue{}
	if a, ok := e.analyzers.Get(resolved); ok {
		issues = append(issues, a.Analyze(ctx, code)...)
	}

	issues = append(issues, e.generalChecks(code)...)

	if !fastMode {
		issues = append(issues, e.externalIssues(ctx, code, resolved)...)
	}

	issue.Sort(issues)

	span.SetAttributes(attribute.Int("issue_count", len(issues)))
	checksTotal.WithLabelValues(resolved.String(), mode).Inc()
	checkDuration.WithLabelValues(resolved.String()).Observe(time.Since(start).Seconds())
	issuesFound.WithLabelValues(resolved.String()).Add(float64(len(issues)))
	return issues
}

// externalIssues collects findings from every available, enabled linter
// for the language. Failures are logged and skipped per tool.
func (e *Enforcer) externalIssues(ctx context.Context, code string, l lang.Language) []issue.Issue {
	var out []issue.Issue
	for _, tc := range e.tools.Registry().ForLanguage(l, lint.KindLinter) {
		if !e.available[tc.Name] || !tc.Enabled(e.cfg) {
			continue
		}
		found, err := e.tools.RunTool(ctx, tc.Name, code, e.cfg)
		if err != nil {
			slog.Warn("external tool skipped",
				slog.String("tool", tc.Name),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, found...)
	}
	return out
}

// =============================================================================
// AUTO-FIX
// =============================================================================

// AutoFixIssues applies each issue's mechanical fix in list order.
//
// Description:
//
//	Threads the output of one fix into the next. Issues without a fix are
//	skipped. When no analyzer exists for the language the code is instead
//	normalized via EnforceStandards, so the call still improves something.
//
// Inputs:
//
//	ctx    - Cancellation context
//	code   - Source code to fix
//	issues - Findings to apply, in order
//	l      - Declared language; Unknown means detect from content
//
// Outputs:
//
//	string - Fixed code; the original on any internal failure
func (e *Enforcer) AutoFixIssues(ctx context.Context, code string, issues []issue.Issue, l lang.Language) (fixed string) {
	defer guard("AutoFixIssues", func() {
		fixed = code
	})

	if code == "" || len(issues) == 0 {
		return code
	}

	resolved := e.resolve(code, l)
	a, ok := e.analyzers.Get(resolved)
	if !ok {
		return e.EnforceStandards(ctx, code, resolved)
	}

	fixed = code
	applied := 0
	for _, is := range issues {
		next, changed := a.AutoFix(fixed, is)
		if !changed {
			continue
		}
		fixed = next
		applied++
	}

	if applied > 0 {
		fixesApplied.Add(float64(applied))
		slog.Debug("auto-fix applied",
			slog.String("language", resolved.String()),
			slog.Int("fixes", applied),
			slog.Int("requested", len(issues)))
	}
	return fixed
}

// =============================================================================
// COMPLEXITY
// =============================================================================

// AnalyzeComplexity computes line counts and structural metrics.
//
// Outputs:
//
//	complexity.Metrics - Zero value on internal failure, never an error
func (e *Enforcer) AnalyzeComplexity(ctx context.Context, code string, l lang.Language) (m complexity.Metrics) {
	defer guard("AnalyzeComplexity", func() {
		m = complexity.Metrics{}
	})

	resolved := e.resolve(code, l)
	ctx, span := tracer.Start(ctx, "enforcer.analyze_complexity",
		trace.WithAttributes(attribute.String("language", resolved.String())))
	defer span.End()

	m = complexity.Measure(ctx, code, resolved)
	span.SetAttributes(
		attribute.Int("total_lines", m.TotalLines),
		attribute.Int("function_count", m.FunctionCount),
	)
	return m
}
