// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package embedding provides text embedding backends for the semantic merge
// pass, plus the cosine similarity metric used to compare vectors.
//
// The engine depends only on the Embedder interface; the semantic pass is
// disabled entirely when no Embedder is injected. Two backends ship with the
// service: the OpenAI embeddings API and a local embeddings HTTP service.
package embedding

import "context"

// Embedder converts text into a dense vector representation.
//
// # Description
//
// Vector length is opaque to callers; only cosine similarity between two
// vectors from the same Embedder is meaningful. Embed may block on network
// I/O, so callers should bound it with a context deadline. A failed or
// timed-out call is treated by the engine as "not similar", never as a
// fatal error.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a plain function to the Embedder interface. Useful for
// stubbing the semantic pass in tests.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls the wrapped function.
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
