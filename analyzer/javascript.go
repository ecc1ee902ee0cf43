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
	"time"

	"github.com/AleutianAI/codewarden/config"
	"github.com/AleutianAI/codewarden/issue"
	"github.com/AleutianAI/codewarden/lang"
)

// JavaScriptAnalyzer analyzes JavaScript and TypeScript sources. Both
// languages share the rule set; syntax checking is bracket balancing
// rather than a full parse.
type JavaScriptAnalyzer struct {
	cfg   *config.Config
	rules []Rule
}

var _ Analyzer = (*JavaScriptAnalyzer)(nil)

// NewJavaScriptAnalyzer builds an analyzer bound to cfg. The returned
// value is immutable and safe for concurrent use.
func NewJavaScriptAnalyzer(cfg *config.Config) *JavaScriptAnalyzer {
	return &JavaScriptAnalyzer{cfg: cfg, rules: javascriptRules()}
}

// Language reports the primary language this analyzer handles.
func (a *JavaScriptAnalyzer) Language() lang.Language { return lang.JavaScript }

// Analyze runs the full pipeline over code. Unbalanced brackets at error
// severity stop the pipeline and are returned alone.
func (a *JavaScriptAnalyzer) Analyze(ctx context.Context, code string) []issue.Issue {
	if code == "" {
		return []issue.Issue{}
	}
	ctx, span := startAnalyzeSpan(ctx, lang.JavaScript.String(), len(code))
	defer span.End()
	start := time.Now()

	syntax := CheckBrackets(code, lang.JavaScript)
	rc := &RuleContext{
		Code:   code,
		Lines:  splitLines(code),
		Config: a.cfg,
	}
	issues := runPipeline(rc, syntax, a.rules)

	recordAnalyze(ctx, span, lang.JavaScript.String(), len(issues), time.Since(start))
	return issues
}

// CheckSyntax balances brackets and string delimiters. It does not build
// a parse tree, so it misses errors a real parser would catch.
func (a *JavaScriptAnalyzer) CheckSyntax(_ context.Context, code string) []issue.Issue {
	if code == "" {
		return []issue.Issue{}
	}
	return CheckBrackets(code, lang.JavaScript)
}

// AutoFix applies the replacement text carried by a fixable issue. The
// replacement swaps one whole line; an issue without a replacement is
// left for the caller to surface.
func (a *JavaScriptAnalyzer) AutoFix(code string, is issue.Issue) (string, bool) {
	return applyReplacement(code, is)
}
