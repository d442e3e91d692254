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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadger(InMemoryBadgerConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err, "a persistent store without a path must fail")
}

func TestBadgerStoreUnknownPair(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCounts(context.Background(), "M1", "Drug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStoreConfirmAndReject(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Confirm(ctx, "M1", "Drug"))
	require.NoError(t, store.Confirm(ctx, "M1", "Drug"))
	require.NoError(t, store.Reject(ctx, "M1", "Drug"))

	counts, err := store.GetCounts(ctx, "M1", "Drug")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counts.Confirmations)
	assert.Equal(t, uint64(1), counts.Rejections)
	assert.InDelta(t, 3.0/5.0, Smoothed(counts), 1e-9)
}

func TestBadgerStorePairsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Confirm(ctx, "M1", "Drug"))
	require.NoError(t, store.Reject(ctx, "M1", "Condition"))
	require.NoError(t, store.Confirm(ctx, "M2", "Drug"))

	drug, err := store.GetCounts(ctx, "M1", "Drug")
	require.NoError(t, err)
	assert.Equal(t, Counts{Confirmations: 1}, drug)

	condition, err := store.GetCounts(ctx, "M1", "Condition")
	require.NoError(t, err)
	assert.Equal(t, Counts{Rejections: 1}, condition)
}

func TestBadgerStoreHonorsContextCancellation(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetCounts(ctx, "M1", "Drug")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Confirm(ctx, "M1", "Drug"), context.Canceled)
}
