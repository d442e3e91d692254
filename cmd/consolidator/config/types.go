// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the consolidator's yaml configuration from
// ~/.aleutian/consolidator.yaml, creating a default file on first run, and
// watches it for engine-threshold changes.
package config

import (
	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
)

// ConsolidatorConfig is the root of the yaml configuration.
type ConsolidatorConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Weights    WeightsConfig    `yaml:"weights"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Engine     EngineConfig     `yaml:"engine"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`
}

// WeightsConfig configures the reliability counter store.
type WeightsConfig struct {
	// Path is the BadgerDB directory. Supports ~ expansion.
	Path string `yaml:"path"`

	// InMemory uses a non-persistent store. For testing.
	InMemory bool `yaml:"in_memory"`
}

// EmbeddingsConfig selects the embedding backend for the semantic pass.
type EmbeddingsConfig struct {
	// Provider is "openai", "local", or "" (semantic pass disabled).
	Provider string `yaml:"provider"`

	// Model is the embedding model name (openai provider).
	Model string `yaml:"model"`

	// BaseURL is the local embeddings service URL (local provider).
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// (openai provider). The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env"`
}

// EngineConfig mirrors the engine's policy knobs in yaml. These are the
// values the serve command hot-reloads.
type EngineConfig struct {
	JaccardThreshold  float64 `yaml:"jaccard_threshold"`
	BoostFactor       float64 `yaml:"boost_factor"`
	MaxSemanticGap    int     `yaml:"max_semantic_gap"`
	SemanticThreshold float64 `yaml:"semantic_threshold"`
}

// ToEngine converts the yaml knobs to an engine.Config.
func (c EngineConfig) ToEngine() engine.Config {
	return engine.Config{
		JaccardThreshold:  c.JaccardThreshold,
		BoostFactor:       c.BoostFactor,
		MaxSemanticGap:    c.MaxSemanticGap,
		SemanticThreshold: c.SemanticThreshold,
	}
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Dir enables file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`

	// JSON switches stderr output to JSON.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() ConsolidatorConfig {
	eng := engine.DefaultConfig()
	return ConsolidatorConfig{
		Server: ServerConfig{
			Port: 12310,
		},
		Weights: WeightsConfig{
			Path: "~/.aleutian/consolidator/weights",
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "",
			Model:     "",
			BaseURL:   "http://localhost:8000",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Engine: EngineConfig{
			JaccardThreshold:  eng.JaccardThreshold,
			BoostFactor:       eng.BoostFactor,
			MaxSemanticGap:    eng.MaxSemanticGap,
			SemanticThreshold: eng.SemanticThreshold,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
