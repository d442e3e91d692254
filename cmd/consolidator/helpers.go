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
	"fmt"
	"os"

	"github.com/AleutianAI/AleutianConsolidate/cmd/consolidator/config"
	"github.com/AleutianAI/AleutianConsolidate/pkg/logging"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/embedding"
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/weights"
)

// buildLogger constructs the process logger from the logging section and
// installs it as the slog default.
func buildLogger(cfg config.LoggingConfig) *logging.Logger {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Level),
		LogDir:  cfg.Dir,
		Service: "consolidator",
		JSON:    cfg.JSON,
	})
	logger.SetAsDefault()
	return logger
}

// buildEmbedder constructs the embedding backend selected by the config.
// An empty provider returns (nil, nil): the semantic pass is disabled.
func buildEmbedder(cfg config.EmbeddingsConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("embeddings provider is openai but %s is not set", keyEnv)
		}
		return embedding.NewOpenAIEmbedder(apiKey, cfg.Model)
	case "local":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("embeddings provider is local but base_url is empty")
		}
		return embedding.NewLocalEmbedder(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q (want openai, local, or empty)", cfg.Provider)
	}
}

// openStore opens the reliability counter store described by the config.
func openStore(cfg config.WeightsConfig) (weights.Store, error) {
	storeCfg := weights.DefaultBadgerConfig(config.ExpandPath(cfg.Path))
	if cfg.InMemory {
		storeCfg = weights.InMemoryBadgerConfig()
	}
	return weights.OpenBadger(storeCfg)
}
