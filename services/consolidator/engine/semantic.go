// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sort"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/embedding"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// semanticPass merges non-overlapping spans that mention the same concept
// nearby.
//
// # Description
//
// Second pass over the consolidated spans, enabled only when an Embedder is
// injected. Spans are scanned in Start order; each unprocessed anchor
// collects forward candidates that (a) start within MaxSemanticGap
// characters of the anchor's end, (b) share the anchor's label, and (c)
// have embedding cosine similarity strictly above SemanticThreshold with
// the anchor. The gap check runs before any embedding call, so distant
// spans never cost an embedding. Candidates join the first matching
// anchor's group; gap and similarity are always measured against the
// anchor, not the last member added, so chains do not extend transitively.
//
// Enlarged groups re-run disagreement/arbitration. Disagreement cannot
// trigger (labels match by construction) but arbitration and the
// multi-model boost still apply.
//
// Per-pair embedding failures are logged, counted in the report, and
// treated as "not similar"; one failure never aborts the pass.
func (e *Engine) semanticPass(ctx context.Context, spans []datatypes.Span, source string, cache *weights.RunCache, report *datatypes.Report) []datatypes.Span {
	if len(spans) < 2 {
		return spans
	}

	cfg := e.Config()

	sorted := make([]datatypes.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	vectors := newEmbedCache(e.embedder)
	processed := make([]bool, len(sorted))
	var result []datatypes.Span

	for i := range sorted {
		if processed[i] {
			continue
		}
		processed[i] = true
		anchor := sorted[i]
		group := []datatypes.Span{anchor}

		for j := i + 1; j < len(sorted); j++ {
			if processed[j] {
				continue
			}
			candidate := sorted[j]

			// Sorted by Start, so once a candidate falls outside the gap
			// every later one does too.
			if candidate.Start-anchor.End >= cfg.MaxSemanticGap {
				break
			}
			if candidate.Label != anchor.Label {
				continue
			}

			anchorVec, err := vectors.get(ctx, anchor.Text)
			if err != nil {
				report.EmbedFailures++
				e.logger.Warn("embedding failed during semantic pass, skipping pair",
					"text", anchor.Text, "error", err.Error())
				continue
			}
			candidateVec, err := vectors.get(ctx, candidate.Text)
			if err != nil {
				report.EmbedFailures++
				e.logger.Warn("embedding failed during semantic pass, skipping pair",
					"text", candidate.Text, "error", err.Error())
				continue
			}

			if embedding.CosineSimilarity(anchorVec, candidateVec) > cfg.SemanticThreshold {
				group = append(group, candidate)
				processed[j] = true
			}
		}

		if len(group) > 1 {
			report.SemanticMerges += len(group) - 1
			result = append(result, e.consolidateGroup(ctx, group, source, cache, report))
		} else {
			result = append(result, anchor)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start < result[j].Start
	})
	return result
}

// embedCache memoizes embeddings by text for the duration of one semantic
// pass, so a span that anchors several comparisons is embedded once.
// Failures are not cached; each failed pair is counted separately.
type embedCache struct {
	embedder embedding.Embedder
	vectors  map[string][]float32
}

func newEmbedCache(embedder embedding.Embedder) *embedCache {
	return &embedCache{
		embedder: embedder,
		vectors:  make(map[string][]float32),
	}
}

func (c *embedCache) get(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.vectors[text]; ok {
		return vec, nil
	}
	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.vectors[text] = vec
	return vec, nil
}
