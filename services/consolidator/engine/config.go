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

// Config holds the policy knobs of the consolidation engine.
//
// All thresholds are comparisons with strict inequality where noted. The
// defaults come from DefaultConfig; the serve command can hot-reload them
// from the yaml config without restarting the service.
type Config struct {
	// JaccardThreshold is the token-set similarity above which (strictly)
	// two strong candidates with different labels become a DISAGREEMENT.
	// At or below the threshold the group defers to weighted arbitration.
	// Default: 0.75.
	JaccardThreshold float64 `json:"jaccard_threshold"`

	// BoostFactor controls the saturating confidence boost applied when
	// multiple independent models corroborate a merged span:
	//
	//	score = min(1, score + BoostFactor*(1-score))
	//
	// Default: 0.15.
	BoostFactor float64 `json:"boost_factor"`

	// MaxSemanticGap is the character gap (candidate.Start - current.End)
	// below which (strictly) two non-overlapping spans are considered for
	// a semantic merge. Default: 50.
	MaxSemanticGap int `json:"max_semantic_gap"`

	// SemanticThreshold is the embedding cosine similarity above which
	// (strictly) two nearby same-label spans merge. Default: 0.85.
	SemanticThreshold float64 `json:"semantic_threshold"`
}

// DefaultConfig returns the stated default thresholds.
func DefaultConfig() Config {
	return Config{
		JaccardThreshold:  0.75,
		BoostFactor:       0.15,
		MaxSemanticGap:    50,
		SemanticThreshold: 0.85,
	}
}

// sanitize clamps out-of-range knobs back to their defaults so a bad config
// reload cannot disable the engine's invariants.
func (c Config) sanitize() Config {
	def := DefaultConfig()
	if c.JaccardThreshold < 0 || c.JaccardThreshold > 1 {
		c.JaccardThreshold = def.JaccardThreshold
	}
	if c.BoostFactor < 0 || c.BoostFactor > 1 {
		c.BoostFactor = def.BoostFactor
	}
	if c.MaxSemanticGap <= 0 {
		c.MaxSemanticGap = def.MaxSemanticGap
	}
	if c.SemanticThreshold < 0 || c.SemanticThreshold > 1 {
		c.SemanticThreshold = def.SemanticThreshold
	}
	return c
}
