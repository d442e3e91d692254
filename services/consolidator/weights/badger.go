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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces weight counters inside the Badger keyspace.
const keyPrefix = "w/"

// BadgerConfig configures the embedded counter store.
//
// BadgerDB gives low-latency local access (~100µs) without an external
// database, which fits the weight store's access pattern: tiny values,
// read-heavy, occasionally incremented by reviewer feedback.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). For testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, BadgerDB
	// logging is disabled.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns production defaults for the given directory.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryBadgerConfig returns a configuration for tests: in-memory mode,
// no sync writes.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory: true,
	}
}

// BadgerStore is a Store backed by an embedded BadgerDB instance.
//
// Thread Safety: Safe for concurrent use; BadgerDB transactions provide
// isolation for the read-modify-write increments.
type BadgerStore struct {
	db *badger.DB
}

// Ensure BadgerStore implements Store.
var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (or creates) the counter store.
//
// # Inputs
//
//   - cfg: Store configuration. Use DefaultBadgerConfig or
//     InMemoryBadgerConfig for sensible defaults.
//
// # Outputs
//
//   - *BadgerStore: The opened store. Callers must Close it.
//   - error: Non-nil if the database cannot be opened.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("weights: badger path required for persistent store")
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("weights: open badger at %q: %w", cfg.Path, err)
	}
	return &BadgerStore{db: db}, nil
}

// GetCounts returns the tallies for a (model, label) pair.
func (s *BadgerStore) GetCounts(ctx context.Context, model, label string) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}

	var counts Counts
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(counterKey(model, label))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &counts)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Counts{}, ErrNotFound
	}
	if err != nil {
		return Counts{}, fmt.Errorf("weights: get counts for %s/%s: %w", model, label, err)
	}
	return counts, nil
}

// Confirm increments the confirmation tally for a pair.
func (s *BadgerStore) Confirm(ctx context.Context, model, label string) error {
	return s.increment(ctx, model, label, func(c *Counts) { c.Confirmations++ })
}

// Reject increments the rejection tally for a pair.
func (s *BadgerStore) Reject(ctx context.Context, model, label string) error {
	return s.increment(ctx, model, label, func(c *Counts) { c.Rejections++ })
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// increment applies a read-modify-write update inside one transaction.
func (s *BadgerStore) increment(ctx context.Context, model, label string, apply func(*Counts)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := counterKey(model, label)
	err := s.db.Update(func(txn *badger.Txn) error {
		var counts Counts
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// First outcome for this pair; start from zero.
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &counts)
			}); err != nil {
				return err
			}
		}

		apply(&counts)
		encoded, err := json.Marshal(counts)
		if err != nil {
			return err
		}
		return txn.Set(key, encoded)
	})
	if err != nil {
		return fmt.Errorf("weights: increment %s/%s: %w", model, label, err)
	}
	return nil
}

func counterKey(model, label string) []byte {
	return []byte(keyPrefix + model + "/" + label)
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
