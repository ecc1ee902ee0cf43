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
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/codewarden/lang"
	"github.com/AleutianAI/codewarden/lint"
)

// EnforceStandards formats code to the configured standard.
//
// Description:
//
//	Prefers an available external formatter for the language (black for
//	Python, prettier for JavaScript and TypeScript). When none is
//	installed, enabled, or working, falls back to the built-in
//	normalization, which is idempotent. This operation never fails: any
//	internal error returns the original code unchanged.
//
// Inputs:
//
//	ctx  - Cancellation context
//	code - Source code to format
//	l    - Declared language; Unknown means detect from content
//
// Outputs:
//
//	string - Formatted code, or the input unchanged at worst
func (e *Enforcer) EnforceStandards(ctx context.Context, code string, l lang.Language) (out string) {
	defer guard("EnforceStandards", func() {
		out = code
	})

	if code == "" {
		return ""
	}

	resolved := e.resolve(code, l)
	ctx, span := tracer.Start(ctx, "enforcer.enforce_standards",
		trace.WithAttributes(attribute.String("language", resolved.String())))
	defer span.End()

	for _, tc := range e.tools.Registry().ForLanguage(resolved, lint.KindFormatter) {
		if !e.available[tc.Name] || !tc.Enabled(e.cfg) {
			continue
		}
		formatted, err := e.tools.Format(ctx, tc.Name, code, e.cfg)
		if err != nil {
			slog.Warn("formatter failed, using built-in normalization",
				slog.String("tool", tc.Name),
				slog.String("error", err.Error()))
			continue
		}
		span.SetAttributes(attribute.String("formatter", tc.Name))
		return formatted
	}

	span.SetAttributes(attribute.String("formatter", "builtin"))
	return normalize(code, resolved)
}

// normalize is the built-in formatting fallback: expand tabs to four
// spaces, strip trailing whitespace, and drop trailing statement
// terminators where the language does not want them (Python semicolons).
//
// Running it twice yields the same output as running it once.
func normalize(code string, l lang.Language) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		line = strings.TrimRight(line, " \t")
		if l == lang.Python {
			for strings.HasSuffix(line, ";") {
				line = strings.TrimRight(strings.TrimSuffix(line, ";"), " \t")
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
