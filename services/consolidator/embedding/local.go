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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLocalTimeout is the default timeout for local embedding requests.
const DefaultLocalTimeout = 30 * time.Second

// LocalEmbedder wraps calls to a local embeddings service.
//
// # Description
//
// LocalEmbedder provides a Go interface to the Python embeddings service,
// which runs transformer models (like BGE, Qwen) to generate vector
// embeddings for text. It keeps the semantic pass fully offline when no
// cloud provider is configured.
//
// # Thread Safety
//
// LocalEmbedder is safe for concurrent use.
type LocalEmbedder struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure LocalEmbedder implements Embedder.
var _ Embedder = (*LocalEmbedder)(nil)

// embedRequest is the request body for the /embed endpoint.
type embedRequest struct {
	Texts []string `json:"texts"`
}

// embedResponse is the response from the /embed endpoint.
type embedResponse struct {
	Model   string      `json:"model"`
	Vectors [][]float32 `json:"vectors"`
	Dim     int         `json:"dim"`
}

// NewLocalEmbedder creates a client for the embeddings service at baseURL
// (e.g. "http://localhost:8000").
func NewLocalEmbedder(baseURL string) *LocalEmbedder {
	return &LocalEmbedder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultLocalTimeout,
		},
	}
}

// WithTimeout sets a custom timeout for embedding requests.
func (e *LocalEmbedder) WithTimeout(timeout time.Duration) *LocalEmbedder {
	e.httpClient.Timeout = timeout
	return e
}

// Embed computes a vector embedding for the given text.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: call embeddings service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding: service returned status %d: %s", resp.StatusCode, payload)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("embedding: decode response: %w", err)
	}
	if len(parsed.Vectors) == 0 || len(parsed.Vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding: service returned no vectors")
	}
	return parsed.Vectors[0], nil
}

// BaseURL returns the configured base URL.
func (e *LocalEmbedder) BaseURL() string {
	return e.baseURL
}
