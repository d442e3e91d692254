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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/engine"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidator.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, 12310, cfg.Server.Port)
	assert.Equal(t, "~/.aleutian/consolidator/weights", cfg.Weights.Path)
	assert.Equal(t, engine.DefaultConfig(), cfg.Engine.ToEngine())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidator.yaml")
	content := `
server:
  port: 9999
weights:
  in_memory: true
embeddings:
  provider: local
  base_url: http://localhost:8111
engine:
  jaccard_threshold: 0.8
  boost_factor: 0.1
  max_semantic_gap: 30
  semantic_threshold: 0.9
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Weights.InMemory)
	assert.Equal(t, "local", cfg.Embeddings.Provider)
	assert.Equal(t, "http://localhost:8111", cfg.Embeddings.BaseURL)
	assert.Equal(t, engine.Config{
		JaccardThreshold:  0.8,
		BoostFactor:       0.1,
		MaxSemanticGap:    30,
		SemanticThreshold: 0.9,
	}, cfg.Engine.ToEngine())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a: mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".aleutian"), ExpandPath("~/.aleutian"))
	assert.Equal(t, "/var/lib/consolidator", ExpandPath("/var/lib/consolidator"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
	assert.Equal(t, "", ExpandPath(""))
}
