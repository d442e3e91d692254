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

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// arbitrate selects one canonical span for a group with no declared
// conflict.
//
// # Description
//
// Every span is scored as raw score times the reliability weight of its
// primary model for its label; the highest weighted score supplies the
// canonical label, base score, and context. Spans without a recorded model
// are skipped; if none qualify, the max raw-score span wins. When more than
// one distinct model contributed to the group, the final score receives a
// saturating boost that never exceeds 1.0 and shrinks as confidence
// approaches certainty — agreement between independent recognizers is
// evidence, but not proof.
//
// # Inputs
//
//   - ctx: Context forwarded to weight lookups (the only potentially
//     blocking step).
//   - group: A non-empty merge group.
//   - source: The full source document, for re-slicing the covering text.
//   - cache: The per-run weight cache.
//
// # Outputs
//
//   - datatypes.Span: The canonical span covering the whole group.
//   - bool: True when the multi-model boost was applied.
func (e *Engine) arbitrate(ctx context.Context, group []datatypes.Span, source string, cache *weights.RunCache) (datatypes.Span, bool) {
	best := pickWeightedBest(ctx, group, cache)

	start, end := groupBounds(group)
	models := groupModels(group)

	score := best.Score
	boosted := false
	if len(models) > 1 {
		score = boost(score, e.Config().BoostFactor)
		boosted = true
	}

	return datatypes.Span{
		Text:    sliceText(source, start, end, best.Text),
		Label:   best.Label,
		Score:   score,
		Start:   start,
		End:     end,
		Models:  models,
		Context: best.Context,
	}, boosted
}

// pickWeightedBest returns the span with the highest weighted score,
// falling back to max raw score when no span has a recorded model. Strict
// comparisons keep earlier spans (sweep order) on ties.
func pickWeightedBest(ctx context.Context, group []datatypes.Span, cache *weights.RunCache) datatypes.Span {
	bestIdx := -1
	bestScore := 0.0
	for i, s := range group {
		if len(s.Models) == 0 {
			continue
		}
		weighted := s.Score * cache.Weight(ctx, s.Models[0], s.Label)
		if bestIdx == -1 || weighted > bestScore {
			bestIdx = i
			bestScore = weighted
		}
	}
	if bestIdx >= 0 {
		return group[bestIdx]
	}

	// No span carries a model at all; fall back to raw score.
	best := group[0]
	for _, s := range group[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best
}

// boost applies the saturating multi-model confidence boost.
//
// boost(s) = min(1, s + factor*(1-s)); strictly increasing for s < 1 and a
// fixed point at 1.0.
func boost(score, factor float64) float64 {
	boosted := score + factor*(1.0-score)
	if boosted > 1.0 {
		return 1.0
	}
	return boosted
}
