// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	_, err := NewOpenAIEmbedder("", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewOpenAIEmbedderDefaultsModel(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, string(embedder.model))
}

func TestEmbedderFuncAdapter(t *testing.T) {
	fn := EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 2}, nil
	})
	var e Embedder = fn

	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
}
