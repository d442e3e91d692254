// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package weights provides per-model, per-label reliability weights for the
// consolidation engine.
//
// The weight of a (model, label) pair is a Laplace-smoothed accuracy
// estimate derived from historical reviewer feedback:
//
//	weight = (confirmations + 1) / (confirmations + rejections + 2)
//
// A pair with no history resolves to 0.5, as does any store failure. The
// engine only reads counts; feedback is written through the service's
// weights admin surface.
package weights

import (
	"context"
	"errors"
)

// DefaultWeight is the neutral weight used when no history exists or a
// lookup fails. It equals the smoothed estimate of zero observations.
const DefaultWeight = 0.5

// ErrNotFound is returned by Store.GetCounts when no outcomes have been
// recorded for a (model, label) pair. Callers treat it as "no history",
// distinct from a store error, though both resolve to DefaultWeight.
var ErrNotFound = errors.New("no recorded outcomes for model/label pair")

// Counts holds the reviewer outcome tallies for one (model, label) pair.
type Counts struct {
	Confirmations uint64 `json:"confirmations"`
	Rejections    uint64 `json:"rejections"`
}

// Smoothed returns the Laplace-smoothed reliability weight for the counts.
//
// The +1/+2 smoothing keeps the weight strictly inside (0, 1) and pulls
// low-evidence pairs toward the 0.5 prior.
func Smoothed(c Counts) float64 {
	return (float64(c.Confirmations) + 1) / (float64(c.Confirmations) + float64(c.Rejections) + 2)
}

// Store is the persistent counter store behind the reliability weights.
//
// # Description
//
// Implementations persist (model, label) -> (confirmations, rejections)
// tallies. The consolidation engine only calls GetCounts; Confirm and
// Reject serve the feedback surface.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Store interface {
	// GetCounts returns the tallies for a (model, label) pair.
	// Returns ErrNotFound when the pair has no recorded outcomes.
	GetCounts(ctx context.Context, model, label string) (Counts, error)

	// Confirm increments the confirmation tally for a pair.
	Confirm(ctx context.Context, model, label string) error

	// Reject increments the rejection tally for a pair.
	Reject(ctx context.Context, model, label string) error

	// Close releases store resources.
	Close() error
}
