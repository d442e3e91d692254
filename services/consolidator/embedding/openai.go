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
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the embedding model used when none is configured.
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

// ErrMissingAPIKey is returned when constructing an OpenAI embedder without
// an API key.
var ErrMissingAPIKey = errors.New("embedding: openai api key is required")

// OpenAIEmbedder produces embeddings through the OpenAI API.
//
// Thread Safety: Safe for concurrent use; the underlying client is
// stateless per request.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// Ensure OpenAIEmbedder implements Embedder.
var _ Embedder = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder creates an embedder against the OpenAI API.
//
// # Inputs
//
//   - apiKey: OpenAI API key. Required.
//   - model: Embedding model name. Empty selects DefaultOpenAIModel.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Embed computes a vector embedding for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: openai request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding: openai returned no vectors")
	}
	return resp.Data[0].Embedding, nil
}
