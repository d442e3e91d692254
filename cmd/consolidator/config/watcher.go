// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the config file and invokes a callback with freshly
// parsed configuration on change. Only the engine thresholds are expected
// to change at runtime; server and store settings require a restart.
//
// Thread Safety: The callback runs on the watcher goroutine.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ConsolidatorConfig)
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onChange func(ConsolidatorConfig)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onChange: onChange,
		watcher:  fw,
	}, nil
}

// Run processes file events until the context is canceled. Parse failures
// are logged and the previous configuration stays in effect.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			slog.Warn("config reload failed, keeping previous settings",
				"path", w.path, "error", err.Error())
			return
		}
		slog.Info("config reloaded", "path", w.path)
		w.onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err.Error())
		}
	}
}
