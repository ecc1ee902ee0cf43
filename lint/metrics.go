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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for external tool operations.
var (
	tracer = otel.Tracer("codewarden.lint")
	meter  = otel.Meter("codewarden.lint")
)

// Metrics for external tool runs.
var (
	toolLatency metric.Float64Histogram
	toolTotal   metric.Int64Counter
	toolIssues  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		toolLatency, err = meter.Float64Histogram(
			"tool_run_duration_seconds",
			metric.WithDescription("Duration of external tool runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		toolTotal, err = meter.Int64Counter(
			"tool_runs_total",
			metric.WithDescription("Total number of external tool runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		toolIssues, err = meter.Int64Histogram(
			"tool_issues_found",
			metric.WithDescription("Number of issues reported per tool run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startToolSpan creates a span for one external tool run.
func startToolSpan(ctx context.Context, tool, language string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Runner.RunTool",
		trace.WithAttributes(
			attribute.String("tool.name", tool),
			attribute.String("tool.language", language),
		),
	)
}

// setToolSpanResult sets the result attributes on a tool span.
func setToolSpanResult(span trace.Span, issueCount int, success bool) {
	span.SetAttributes(
		attribute.Int("tool.issue_count", issueCount),
		attribute.Bool("tool.success", success),
	)
}

// recordToolRun records metrics for one external tool run.
func recordToolRun(ctx context.Context, tool string, duration time.Duration, issueCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("success", success),
	)

	toolLatency.Record(ctx, duration.Seconds(), attrs)
	toolTotal.Add(ctx, 1, attrs)

	if success {
		toolIssues.Record(ctx, int64(issueCount), metric.WithAttributes(
			attribute.String("tool", tool),
		))
	}
}
