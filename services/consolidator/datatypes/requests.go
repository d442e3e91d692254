// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "fmt"

// ConsolidateRequest is the body of POST /v1/consolidate.
//
// ModelSpans maps a recognizer model identifier to the ordered sequence of
// spans that model produced over SourceText. Span offsets index into
// SourceText as byte offsets.
type ConsolidateRequest struct {
	SourceText string            `json:"source_text" validate:"required"`
	ModelSpans map[string][]Span `json:"model_spans" validate:"required"`
}

// Validate checks the request shape. Per-span validation happens inside the
// engine, which drops malformed spans instead of rejecting the request.
func (r ConsolidateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid consolidate request: %w", err)
	}
	return nil
}

// Report summarizes one consolidation run. It is returned alongside the
// consolidated entities and recorded in telemetry; no field is an error
// condition.
type Report struct {
	// InputSpans is the total span count across all models before filtering.
	InputSpans int `json:"input_spans"`

	// DroppedSpans counts malformed spans removed before merging.
	DroppedSpans int `json:"dropped_spans"`

	// Groups is the number of overlap-connected groups found by the sweep.
	Groups int `json:"groups"`

	// Conflicts counts groups flagged as DISAGREEMENT.
	Conflicts int `json:"conflicts"`

	// Boosts counts spans whose score received the multi-model boost.
	Boosts int `json:"boosts"`

	// SemanticMerges counts spans absorbed during the semantic pass.
	SemanticMerges int `json:"semantic_merges"`

	// EmbedFailures counts embedding calls that failed during the semantic
	// pass. Each failed pair is treated as not-similar.
	EmbedFailures int `json:"embed_failures"`
}

// ConsolidateResponse is the body returned by POST /v1/consolidate.
type ConsolidateResponse struct {
	RunID    string `json:"run_id"`
	Entities []Span `json:"entities"`
	Report   Report `json:"report"`
}

// FeedbackRequest is the body of POST /v1/weights/feedback. It records one
// reviewer judgment about a model's output for a label, feeding the counter
// store behind the reliability weights.
type FeedbackRequest struct {
	Model     string `json:"model" validate:"required"`
	Label     string `json:"label" validate:"required"`
	Confirmed bool   `json:"confirmed"`
}

// Validate checks the feedback request shape.
func (r FeedbackRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid feedback request: %w", err)
	}
	return nil
}

// WeightResponse is the body returned by GET /v1/weights/:model/:label.
type WeightResponse struct {
	Model         string  `json:"model"`
	Label         string  `json:"label"`
	Confirmations uint64  `json:"confirmations"`
	Rejections    uint64  `json:"rejections"`
	Weight        float64 `json:"weight"`
}
