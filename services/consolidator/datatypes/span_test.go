// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanValidate(t *testing.T) {
	valid := Span{Text: "aspirin", Label: "Drug", Score: 0.9, Start: 10, End: 17}

	tests := []struct {
		name    string
		mutate  func(*Span)
		wantErr bool
	}{
		{"valid span", func(s *Span) {}, false},
		{"score zero is valid", func(s *Span) { s.Score = 0 }, false},
		{"score one is valid", func(s *Span) { s.Score = 1 }, false},
		{"empty text", func(s *Span) { s.Text = "" }, true},
		{"empty label", func(s *Span) { s.Label = "" }, true},
		{"score above one", func(s *Span) { s.Score = 1.01 }, true},
		{"negative score", func(s *Span) { s.Score = -0.1 }, true},
		{"negative start", func(s *Span) { s.Start = -1 }, true},
		{"end equals start", func(s *Span) { s.End = s.Start }, true},
		{"end before start", func(s *Span) { s.End = s.Start - 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSpan)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	base := Span{Text: "x", Label: "L", Score: 0.5, Start: 10, End: 20}

	tests := []struct {
		name  string
		other Span
		want  bool
	}{
		{"contained", Span{Start: 12, End: 18}, true},
		{"overlapping left edge", Span{Start: 5, End: 11}, true},
		{"overlapping right edge", Span{Start: 19, End: 25}, true},
		{"touching left", Span{Start: 0, End: 10}, false},
		{"touching right", Span{Start: 20, End: 30}, false},
		{"disjoint", Span{Start: 40, End: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestSpanLength(t *testing.T) {
	s := Span{Start: 10, End: 17}
	assert.Equal(t, 7, s.Length())
}

func TestSpanJSONRoundTrip(t *testing.T) {
	in := Span{
		Text:   "heart failure",
		Label:  LabelDisagreement,
		Score:  0.9,
		Start:  28,
		End:    41,
		Models: []string{"M1", "M2"},
		Notes:  `conflicting labels: "Condition" (0.90) vs "Symptom" (0.85)`,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Span
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestConsolidateRequestValidate(t *testing.T) {
	valid := ConsolidateRequest{
		SourceText: "aspirin for pain",
		ModelSpans: map[string][]Span{
			"M1": {{Text: "aspirin", Label: "Drug", Score: 0.9, Start: 0, End: 7}},
		},
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, ConsolidateRequest{ModelSpans: valid.ModelSpans}.Validate(),
		"missing source text must be rejected")
	assert.Error(t, ConsolidateRequest{SourceText: "x"}.Validate(),
		"missing model spans must be rejected")
}

func TestFeedbackRequestValidate(t *testing.T) {
	assert.NoError(t, FeedbackRequest{Model: "M1", Label: "Drug", Confirmed: true}.Validate())
	assert.Error(t, FeedbackRequest{Label: "Drug"}.Validate())
	assert.Error(t, FeedbackRequest{Model: "M1"}.Validate())
}
