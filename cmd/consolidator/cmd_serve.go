// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianConsolidate/cmd/consolidator/config"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/telemetry"
)

// runServe starts the consolidation HTTP service.
//
// # Description
//
// Loads the yaml config (creating a default on first run), initializes
// logging and the metrics stack, wires the service, and blocks on the HTTP
// server. Unless --no-watch is set, a file watcher hot-reloads the engine
// thresholds when the config file changes; server, store, and embedding
// settings require a restart.
func runServe(cmd *cobra.Command, args []string) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			log.Fatalf("Error resolving the config path: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Error loading the config: %v", err)
	}

	logger := buildLogger(cfg.Logging)
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		log.Fatalf("Error initializing telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err.Error())
		}
	}()

	embedder, err := buildEmbedder(cfg.Embeddings)
	if err != nil {
		log.Fatalf("Error building the embedding backend: %v", err)
	}
	if embedder == nil {
		slog.Info("no embeddings provider configured, semantic pass disabled")
	}

	svc, err := consolidator.New(consolidator.Config{
		Port:            cfg.Server.Port,
		WeightsPath:     config.ExpandPath(cfg.Weights.Path),
		InMemoryWeights: cfg.Weights.InMemory,
		Embedder:        embedder,
		Engine:          cfg.Engine.ToEngine(),
		Metrics:         true,
	})
	if err != nil {
		log.Fatalf("Error creating the consolidator service: %v", err)
	}
	defer svc.Close()

	if !noWatch {
		watcher, err := config.NewWatcher(path, func(next config.ConsolidatorConfig) {
			svc.Engine().SetConfig(next.Engine.ToEngine())
			slog.Info("engine thresholds updated from config")
		})
		if err != nil {
			slog.Warn("config watcher unavailable, hot reload disabled", "error", err.Error())
		} else {
			go watcher.Run(ctx)
		}
	}

	if err := svc.Run(); err != nil {
		log.Fatalf("Consolidator service stopped: %v", err)
	}
}
