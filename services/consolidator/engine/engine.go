// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine implements entity consolidation: merging the span lists of
// several independent recognizer models over one document into a single
// deduplicated list.
//
// The pipeline is flatten -> interval-sweep merge -> per-group
// disagreement-or-arbitration -> optional semantic pass -> sort. Overlaps
// across models collapse into one authoritative span, conflicting category
// labels are surfaced as explicit DISAGREEMENT spans rather than silently
// resolved, and agreement across independent models raises the combined
// confidence.
//
// The engine is synchronous, performs no I/O beyond its two injected
// collaborators (weight store, embedder), and never fails: collaborator
// errors degrade to neutral defaults and malformed inputs are dropped, so
// Consolidate always returns a (possibly empty) list.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/embedding"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

var tracer = otel.Tracer("aleutian.consolidator.engine")

// Engine consolidates per-model span lists into one authoritative list.
//
// # Thread Safety
//
// Safe for concurrent use. Each Consolidate call owns its run-scoped state
// (weight cache, embedding cache); the only shared mutable state is the
// config, guarded for hot reload.
type Engine struct {
	store    weights.Store
	embedder embedding.Embedder
	logger   *slog.Logger

	mu  sync.RWMutex
	cfg Config
}

// New creates a consolidation engine.
//
// # Inputs
//
//   - store: The reliability counter store. May be nil; every weight then
//     resolves to the neutral default.
//   - embedder: The embedding backend for the semantic pass. Nil disables
//     the pass (this is the normal configuration when no embedding service
//     is deployed, not an error).
//   - cfg: Policy thresholds. Out-of-range knobs are clamped to defaults.
func New(store weights.Store, embedder embedding.Embedder, cfg Config) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
		cfg:      cfg.sanitize(),
	}
}

// Config returns the current policy thresholds.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetConfig replaces the policy thresholds. Used by config hot reload; an
// in-flight run keeps whichever values it has already read.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg.sanitize()
}

// Consolidate merges every model's spans over one document.
//
// # Description
//
// Input spans are flattened (attributing each to its producing model when
// Models is empty), validated, merged by character-range overlap, and each
// group is resolved to one output span by the disagreement resolver or the
// weighted arbiter. When an embedder is configured, a second pass merges
// nearby same-label spans whose embeddings are highly similar.
//
// # Inputs
//
//   - ctx: Context forwarded to weight lookups and embedding calls.
//   - source: The full source document. Span offsets index into it as byte
//     offsets; output texts are re-sliced from it where the offsets are in
//     range.
//   - modelSpans: Model identifier -> ordered spans from that model.
//
// # Outputs
//
//   - []datatypes.Span: Consolidated spans sorted ascending by Start.
//     Empty input yields an empty (nil) slice, not an error.
//   - datatypes.Report: Run statistics for logging and telemetry.
//
// No condition within the engine is fatal; collaborator failures degrade
// to the neutral weight or "no merge" and are logged.
func (e *Engine) Consolidate(ctx context.Context, source string, modelSpans map[string][]datatypes.Span) ([]datatypes.Span, datatypes.Report) {
	ctx, span := tracer.Start(ctx, "Engine.Consolidate")
	defer span.End()

	var report datatypes.Report

	// The weight cache lives exactly as long as this run. A fresh cache per
	// call keeps weights from leaking across documents and keeps concurrent
	// runs independent.
	cache := weights.NewRunCache(e.store)

	flat := e.flatten(modelSpans, &report)
	span.SetAttributes(
		attribute.Int("spans.input", report.InputSpans),
		attribute.Int("spans.dropped", report.DroppedSpans),
	)
	if len(flat) == 0 {
		return nil, report
	}

	groups := mergeGroups(flat)
	report.Groups = len(groups)

	result := make([]datatypes.Span, 0, len(groups))
	for _, group := range groups {
		result = append(result, e.consolidateGroup(ctx, group, source, cache, &report))
	}

	if e.embedder != nil {
		result = e.semanticPass(ctx, result, source, cache, &report)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start < result[j].Start
	})

	span.SetAttributes(
		attribute.Int("spans.output", len(result)),
		attribute.Int("spans.conflicts", report.Conflicts),
		attribute.Int("spans.semantic_merges", report.SemanticMerges),
	)
	return result, report
}

// flatten concatenates every model's spans, attributes unattributed spans
// to their producing model, and drops malformed spans. Models are visited
// in sorted order so the flattened sequence is deterministic.
func (e *Engine) flatten(modelSpans map[string][]datatypes.Span, report *datatypes.Report) []datatypes.Span {
	models := make([]string, 0, len(modelSpans))
	for model := range modelSpans {
		models = append(models, model)
	}
	sort.Strings(models)

	var flat []datatypes.Span
	for _, model := range models {
		for _, s := range modelSpans[model] {
			report.InputSpans++
			if len(s.Models) == 0 && model != "" {
				s.Models = []string{model}
			}
			if err := s.Validate(); err != nil {
				report.DroppedSpans++
				e.logger.Warn("dropping malformed span",
					"model", model,
					"label", s.Label,
					"start", s.Start,
					"end", s.End,
					"error", err.Error(),
				)
				continue
			}
			flat = append(flat, s)
		}
	}
	return flat
}

// consolidateGroup reduces one merge group to a single output span.
func (e *Engine) consolidateGroup(ctx context.Context, group []datatypes.Span, source string, cache *weights.RunCache, report *datatypes.Report) datatypes.Span {
	if len(group) == 1 {
		return normalizeSingle(group[0])
	}

	if distinctLabels(group) > 1 {
		if conflict, flagged := e.detectDisagreement(group, source); flagged {
			report.Conflicts++
			return conflict
		}
	}

	merged, boosted := e.arbitrate(ctx, group, source, cache)
	if boosted {
		report.Boosts++
	}
	return merged
}

// normalizeSingle passes a singleton group through unchanged except for
// model-set normalization, keeping single-model consolidation idempotent.
func normalizeSingle(s datatypes.Span) datatypes.Span {
	s.Models = groupModels([]datatypes.Span{s})
	return s
}
