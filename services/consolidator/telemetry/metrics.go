// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
)

// Metrics contains the pre-defined metrics of the consolidator service.
// All metrics use the "consolidator_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// ConsolidationsTotal counts consolidation runs.
	ConsolidationsTotal metric.Int64Counter

	// ConsolidationDuration records run duration in seconds.
	ConsolidationDuration metric.Float64Histogram

	// SpansInTotal counts input spans across all runs.
	SpansInTotal metric.Int64Counter

	// SpansOutTotal counts consolidated output spans.
	SpansOutTotal metric.Int64Counter

	// SpansDroppedTotal counts malformed spans dropped before merging.
	SpansDroppedTotal metric.Int64Counter

	// ConflictsTotal counts groups flagged as DISAGREEMENT.
	ConflictsTotal metric.Int64Counter

	// SemanticMergesTotal counts spans absorbed by the semantic pass.
	SemanticMergesTotal metric.Int64Counter

	// EmbedFailuresTotal counts failed embedding calls.
	EmbedFailuresTotal metric.Int64Counter
}

// NewMetrics creates the service metrics on the global meter provider.
// Call after telemetry.Init.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("aleutian.consolidator")

	m := &Metrics{}
	var err error

	if m.ConsolidationsTotal, err = meter.Int64Counter(
		"consolidator_runs_total",
		metric.WithDescription("Total consolidation runs"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create runs counter: %w", err)
	}

	if m.ConsolidationDuration, err = meter.Float64Histogram(
		"consolidator_run_duration_seconds",
		metric.WithDescription("Consolidation run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create duration histogram: %w", err)
	}

	if m.SpansInTotal, err = meter.Int64Counter(
		"consolidator_spans_in_total",
		metric.WithDescription("Input spans across all runs"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create spans_in counter: %w", err)
	}

	if m.SpansOutTotal, err = meter.Int64Counter(
		"consolidator_spans_out_total",
		metric.WithDescription("Consolidated output spans"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create spans_out counter: %w", err)
	}

	if m.SpansDroppedTotal, err = meter.Int64Counter(
		"consolidator_spans_dropped_total",
		metric.WithDescription("Malformed spans dropped before merging"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create spans_dropped counter: %w", err)
	}

	if m.ConflictsTotal, err = meter.Int64Counter(
		"consolidator_conflicts_total",
		metric.WithDescription("Groups flagged as DISAGREEMENT"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create conflicts counter: %w", err)
	}

	if m.SemanticMergesTotal, err = meter.Int64Counter(
		"consolidator_semantic_merges_total",
		metric.WithDescription("Spans absorbed by the semantic pass"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create semantic_merges counter: %w", err)
	}

	if m.EmbedFailuresTotal, err = meter.Int64Counter(
		"consolidator_embed_failures_total",
		metric.WithDescription("Failed embedding calls during the semantic pass"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: create embed_failures counter: %w", err)
	}

	return m, nil
}

// RecordRun records the metrics of one consolidation run.
func (m *Metrics) RecordRun(ctx context.Context, report datatypes.Report, outputSpans int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ConsolidationsTotal.Add(ctx, 1)
	m.ConsolidationDuration.Record(ctx, elapsed.Seconds())
	m.SpansInTotal.Add(ctx, int64(report.InputSpans))
	m.SpansOutTotal.Add(ctx, int64(outputSpans))
	m.SpansDroppedTotal.Add(ctx, int64(report.DroppedSpans))
	m.ConflictsTotal.Add(ctx, int64(report.Conflicts))
	m.SemanticMergesTotal.Add(ctx, int64(report.SemanticMerges))
	m.EmbedFailuresTotal.Add(ctx, int64(report.EmbedFailures))
}
