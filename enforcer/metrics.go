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
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

// tracer covers the enforcer's public operations.
var tracer = otel.Tracer("codewarden.enforcer")

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_quality_checks_total",
		Help: "Total RunQualityChecks calls by language and mode",
	}, []string{"language", "mode"})

	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warden_quality_check_duration_seconds",
		Help:    "Duration of RunQualityChecks calls",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"language"})

	issuesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_issues_found_total",
		Help: "Issues reported by quality checks",
	}, []string{"language"})

	fixesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_fixes_applied_total",
		Help: "Mechanical fixes applied by AutoFixIssues",
	})

	panicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_panics_recovered_total",
		Help: "Panics converted to fallback values by the totality guard",
	}, []string{"operation"})
)

// guard is deferred by every public operation. It converts a panic into
// the operation's documented fallback and accounts for it.
func guard(op string, fallback func()) {
	if r := recover(); r != nil {
		panicsRecovered.WithLabelValues(op).Inc()
		slog.Error("recovered panic in enforcer operation",
			slog.String("operation", op),
			slog.Any("panic", r))
		fallback()
	}
}
