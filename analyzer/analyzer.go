// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// =============================================================================
// STAGES
// =============================================================================

// Stage identifies one phase of the analysis pipeline.
type Stage int

const (
	StageSyntax Stage = iota
	StageStyle
	StageSecurity
	StagePractice
	StagePerformance
)

// String returns the stage name used as an issue Source.
func (s Stage) String() string {
	switch s {
	case StageSyntax:
		return "syntax"
	case StageStyle:
		return "style"
	case StageSecurity:
		return "security"
	case StagePractice:
		return "best-practice"
	case StagePerformance:
		return "performance"
	default:
		return "unknown"
	}
}

// pipelineStages is the fixed execution order after syntax.
var pipelineStages = []Stage{StageStyle, StageSecurity, StagePractice, StagePerformance}

// =============================================================================
// RULES
// =============================================================================

// RuleContext is the uniform input handed to every rule.
//
// Lines are the raw source split on newline, unmodified. Python is non-nil
// only inside the Python analyzer and only when the parse succeeded.
type RuleContext struct {
	Code   string
	Lines  []string
	Config *config.Config

	// Python carries parse facts for tree-based rules.
	Python *PythonFacts
}

// Rule is one registered check. Check must be pure: no I/O, no mutation of
// the context, deterministic for identical inputs.
type Rule struct {
	// Code is the issue code this rule emits (diagnostic aid; rules may
	// emit related codes too).
	Code string

	// Stage places the rule in the pipeline.
	Stage Stage

	// Check runs the rule.
	Check func(rc *RuleContext) []issue.Issue
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer is the per-language rule engine.
//
// Implementations are stateless across calls; the config reference they
// hold is immutable.
type Analyzer interface {
	// Language returns the primary language this analyzer serves.
	Language() lang.Language

	// Analyze runs the full pipeline and returns every finding, ordered by
	// stage and within a stage by source position. A blocking syntax
	// finding short-circuits: only syntax issues are returned.
	Analyze(ctx context.Context, code string) []issue.Issue

	// CheckSyntax runs only the syntax stage.
	CheckSyntax(ctx context.Context, code string) []issue.Issue

	// AutoFix applies one issue's mechanical fix to code. The second
	// return is false when the issue carries no applicable fix.
	AutoFix(code string, is issue.Issue) (string, bool)
}

// runPipeline executes the post-syntax stages over registered rules.
//
// The syntax issues are the short-circuit gate: any blocking one returns
// them alone. Within each stage the collected batch is stable-sorted by
// position so issues come out in source order regardless of rule order.
func runPipeline(rc *RuleContext, syntaxIssues []issue.Issue, rules []Rule) []issue.Issue {
	for _, is := range syntaxIssues {
		if is.Severity.Blocking() {
			return syntaxIssues
		}
	}

	out := make([]issue.Issue, 0, len(syntaxIssues)+8)
	out = append(out, syntaxIssues...)

	securityEnabled := rc.Config.GetBool("general", "security_scan", true)

	for _, stage := range pipelineStages {
		if stage == StageSecurity && !securityEnabled {
			continue
		}
		var batch []issue.Issue
		for _, rule := range rules {
			if rule.Stage != stage {
				continue
			}
			batch = append(batch, rule.Check(rc)...)
		}
		issue.Sort(batch)
		out = append(out, batch...)
	}
	return out
}

// splitLines splits source text for line-based rules. The trailing element
// after a final newline is kept so fixes rejoin without altering layout.
func splitLines(code string) []string {
	return strings.Split(code, "\n")
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps languages to their analyzers. Populated explicitly at
// construction; no reflective discovery.
//
// Thread Safety: Immutable after NewRegistry; safe for concurrent readers.
type Registry struct {
	byLang map[lang.Language]Analyzer
}

// NewRegistry builds the standard registry: Python gets the tree-sitter
// analyzer; JavaScript and TypeScript share the heuristic analyzer.
func NewRegistry(cfg *config.Config) *Registry {
	py := NewPythonAnalyzer(cfg)
	js := NewJavaScriptAnalyzer(cfg)
	return &Registry{
		byLang: map[lang.Language]Analyzer{
			lang.Python:     py,
			lang.JavaScript: js,
			lang.TypeScript: js,
		},
	}
}

// Get returns the analyzer for a language.
func (r *Registry) Get(l lang.Language) (Analyzer, bool) {
	a, ok := r.byLang[l]
	return a, ok
}

// Languages returns the languages with a registered analyzer, sorted.
func (r *Registry) Languages() []lang.Language {
	out := make([]lang.Language, 0, len(r.byLang))
	for l := range r.byLang {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
