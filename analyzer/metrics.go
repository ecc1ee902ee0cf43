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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("codewarden.analyzer")
	meter  = otel.Meter("codewarden.analyzer")

	analyzeDuration metric.Float64Histogram
	analyzeIssues   metric.Int64Counter

	metricsInit sync.Once
)

// initMetrics lazily creates instruments; errors go to the global handler
// so analysis never fails because telemetry is misconfigured.
func initMetrics() {
	metricsInit.Do(func() {
		var err error
		analyzeDuration, err = meter.Float64Histogram(
			"analyzer.duration",
			metric.WithDescription("Duration of one analyzer pipeline run"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			otel.Handle(err)
		}
		analyzeIssues, err = meter.Int64Counter(
			"analyzer.issues",
			metric.WithDescription("Issues found by analyzer pipeline runs"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// startAnalyzeSpan opens the span covering one pipeline run.
func startAnalyzeSpan(ctx context.Context, language string, sizeBytes int) (context.Context, trace.Span) {
	initMetrics()
	return tracer.Start(ctx, "analyzer.analyze",
		trace.WithAttributes(
			attribute.String("analyzer.language", language),
			attribute.Int("analyzer.input_bytes", sizeBytes),
		))
}

// recordAnalyze finalizes span attributes and emits metrics for one run.
func recordAnalyze(ctx context.Context, span trace.Span, language string, issueCount int, d time.Duration) {
	span.SetAttributes(attribute.Int("analyzer.issue_count", issueCount))

	attrs := metric.WithAttributes(attribute.String("language", language))
	if analyzeDuration != nil {
		analyzeDuration.Record(ctx, float64(d.Milliseconds()), attrs)
	}
	if analyzeIssues != nil {
		analyzeIssues.Add(ctx, int64(issueCount), attrs)
	}
}
