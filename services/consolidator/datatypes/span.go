// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the data contracts of the consolidator service:
// the Span value type produced by recognizer models and consumed by the
// consolidation engine, plus the HTTP request/response payloads.
//
// Spans are treated as immutable values. The engine never mutates an input
// span; every merge step produces new Span values.
package datatypes

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LabelDisagreement is the label assigned to a merged span when two strong,
// lexically similar candidates carry different category labels. Downstream
// ranking treats it as an explicit conflict marker rather than a category.
const LabelDisagreement = "DISAGREEMENT"

// ErrInvalidSpan is returned when a span fails structural validation.
var ErrInvalidSpan = errors.New("invalid span")

// validate is the shared validator instance. The validator caches struct
// metadata internally and is safe for concurrent use.
var validate = validator.New()

// Span is a labeled, scored substring of a source document.
//
// # Description
//
// A Span carries the extracted text, its category label, the recognizer's
// confidence, and half-open byte offsets [Start, End) into the source
// document. Models lists the recognizers that contributed to the span; it is
// never empty after any merge step. Context is an optional free-text
// annotation carried from the representative span. Notes records conflict
// explanations when the consolidation engine flags a disagreement.
//
// # Invariants
//
//   - End > Start
//   - Score in [0, 1]
//   - Models non-empty after consolidation
//
// # Thread Safety
//
// Spans are value types and are never mutated after construction.
type Span struct {
	// Text is the extracted substring. It must be re-sliceable from
	// Start/End against the source document, though already-sliced text
	// is accepted.
	Text string `json:"text" validate:"required"`

	// Label is the free-form category tag (e.g. "Condition", "Symptom").
	Label string `json:"label" validate:"required"`

	// Score is the recognizer confidence in [0, 1].
	Score float64 `json:"score" validate:"gte=0,lte=1"`

	// Start is the inclusive byte offset into the source document.
	Start int `json:"start" validate:"gte=0"`

	// End is the exclusive byte offset. End must be greater than Start.
	End int `json:"end" validate:"gtfield=Start"`

	// Models lists the recognizer identifiers that contributed this span,
	// sorted and deduplicated after any merge step. May be empty on input;
	// the engine attributes it to the producing model during flattening.
	Models []string `json:"models,omitempty"`

	// Context is an optional annotation carried from the representative span.
	Context string `json:"context,omitempty"`

	// Notes records conflict explanations (set on DISAGREEMENT spans).
	Notes string `json:"notes,omitempty"`
}

// Validate checks the span's structural invariants.
//
// # Outputs
//
//   - error: Non-nil if the span violates a field constraint. The error
//     wraps ErrInvalidSpan so callers can detect the class with errors.Is.
func (s Span) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpan, err)
	}
	return nil
}

// Length returns the number of bytes the span covers.
func (s Span) Length() int {
	return s.End - s.Start
}

// Overlaps reports whether two half-open ranges share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}
