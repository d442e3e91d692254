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
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"parallel vectors", []float32{1, 0}, []float32{5, 0}, 1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty vectors", nil, nil, 0.0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"45 degrees", []float32{1, 0}, []float32{1, 1}, 1.0 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIsSymmetric(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.9}
	b := []float32{0.1, 0.4, -0.6, 0.8}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("cosine similarity must be symmetric")
	}
}
