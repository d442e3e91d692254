// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package weights

import (
	"context"
	"errors"
	"log/slog"
)

// RunCache memoizes smoothed weights for the duration of one consolidation
// run.
//
// # Description
//
// The engine creates a fresh RunCache at the top of every Consolidate call
// and discards it at the end, so stale weights can never leak across
// documents and concurrent runs never share mutable state. This is an
// explicit cache object by design, never a package-level singleton.
//
// Lookup failures never propagate: a missing pair or a store error both
// resolve to DefaultWeight. Store errors are logged; missing history is not
// (it is the common case for new models).
//
// # Thread Safety
//
// A RunCache is owned by a single consolidation run and is NOT safe for
// concurrent use. Concurrent runs must each create their own.
type RunCache struct {
	store   Store
	logger  *slog.Logger
	weights map[weightKey]float64
}

type weightKey struct {
	model string
	label string
}

// NewRunCache creates an empty cache over the given store.
//
// A nil store is allowed; every lookup then resolves to DefaultWeight.
func NewRunCache(store Store) *RunCache {
	return &RunCache{
		store:   store,
		logger:  slog.Default(),
		weights: make(map[weightKey]float64),
	}
}

// Weight returns the smoothed reliability weight for a (model, label) pair.
//
// # Outputs
//
//   - float64: Weight in [0, 1]. DefaultWeight when no history exists, the
//     store is absent, or the lookup fails.
func (c *RunCache) Weight(ctx context.Context, model, label string) float64 {
	key := weightKey{model: model, label: label}
	if w, ok := c.weights[key]; ok {
		return w
	}

	w := c.lookup(ctx, model, label)
	c.weights[key] = w
	return w
}

// Len returns the number of memoized pairs. Used by tests.
func (c *RunCache) Len() int {
	return len(c.weights)
}

func (c *RunCache) lookup(ctx context.Context, model, label string) float64 {
	if c.store == nil {
		return DefaultWeight
	}

	counts, err := c.store.GetCounts(ctx, model, label)
	if errors.Is(err, ErrNotFound) {
		return DefaultWeight
	}
	if err != nil {
		c.logger.Warn("weight lookup failed, using default",
			"model", model,
			"label", label,
			"error", err.Error(),
		)
		return DefaultWeight
	}
	return Smoothed(counts)
}
