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

import "math"

// CosineSimilarity computes the cosine of the angle between two vectors.
//
// # Description
//
// Standard similarity metric for embeddings. Returns a value between -1
// (opposite) and 1 (identical). Mismatched lengths, empty vectors, and
// zero-norm vectors all return 0.0 rather than an error; the semantic pass
// treats 0.0 as "not similar".
//
// # Performance
//
// O(n) in the vector dimension. Typical: < 1µs for 768-dim vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
