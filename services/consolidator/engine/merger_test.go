// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
)

// span is a test shorthand for building valid spans.
func span(text, label string, score float64, start, end int, models ...string) datatypes.Span {
	return datatypes.Span{
		Text:   text,
		Label:  label,
		Score:  score,
		Start:  start,
		End:    end,
		Models: models,
	}
}

func TestMergeGroups(t *testing.T) {
	tests := []struct {
		name  string
		spans []datatypes.Span
		want  [][2]int // expected (start, end) bounds per group
		sizes []int    // expected span count per group
	}{
		{
			name:  "empty input",
			spans: nil,
			want:  nil,
		},
		{
			name: "single span",
			spans: []datatypes.Span{
				span("aspirin", "Drug", 0.9, 10, 17, "M1"),
			},
			want:  [][2]int{{10, 17}},
			sizes: []int{1},
		},
		{
			name: "disjoint spans stay separate",
			spans: []datatypes.Span{
				span("aspirin", "Drug", 0.9, 10, 17, "M1"),
				span("fever", "Symptom", 0.8, 30, 35, "M2"),
			},
			want:  [][2]int{{10, 17}, {30, 35}},
			sizes: []int{1, 1},
		},
		{
			name: "touching ranges do not overlap",
			spans: []datatypes.Span{
				span("high blood", "Condition", 0.9, 0, 10, "M1"),
				span("pressure", "Condition", 0.8, 10, 18, "M2"),
			},
			want:  [][2]int{{0, 10}, {10, 18}},
			sizes: []int{1, 1},
		},
		{
			name: "overlap by one byte merges",
			spans: []datatypes.Span{
				span("high blood", "Condition", 0.9, 0, 10, "M1"),
				span("blood pressure", "Condition", 0.8, 9, 18, "M2"),
			},
			want:  [][2]int{{0, 18}},
			sizes: []int{2},
		},
		{
			name: "long early span bridges short successors",
			spans: []datatypes.Span{
				span("whole phrase here", "Condition", 0.9, 0, 40, "M1"),
				span("phrase", "Condition", 0.8, 5, 12, "M2"),
				span("here", "Condition", 0.7, 30, 38, "M3"),
			},
			want:  [][2]int{{0, 40}},
			sizes: []int{3},
		},
		{
			name: "running max end carries the group forward",
			spans: []datatypes.Span{
				span("a", "X", 0.9, 0, 5, "M1"),
				span("b", "X", 0.8, 2, 30, "M2"),
				span("c", "X", 0.7, 20, 25, "M3"),
				span("d", "X", 0.6, 40, 50, "M1"),
			},
			want:  [][2]int{{0, 30}, {40, 50}},
			sizes: []int{3, 1},
		},
		{
			name: "unsorted input is handled",
			spans: []datatypes.Span{
				span("late", "X", 0.9, 40, 50, "M1"),
				span("early", "X", 0.8, 0, 10, "M2"),
				span("overlap", "X", 0.7, 5, 12, "M3"),
			},
			want:  [][2]int{{0, 12}, {40, 50}},
			sizes: []int{2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := mergeGroups(tt.spans)
			if len(groups) != len(tt.want) {
				t.Fatalf("got %d groups, want %d", len(groups), len(tt.want))
			}
			for i, group := range groups {
				start, end := groupBounds(group)
				if start != tt.want[i][0] || end != tt.want[i][1] {
					t.Errorf("group %d bounds = (%d, %d), want (%d, %d)",
						i, start, end, tt.want[i][0], tt.want[i][1])
				}
				if len(group) != tt.sizes[i] {
					t.Errorf("group %d size = %d, want %d", i, len(group), tt.sizes[i])
				}
			}
		})
	}
}

func TestMergeGroupsDoesNotMutateInput(t *testing.T) {
	spans := []datatypes.Span{
		span("late", "X", 0.9, 40, 50, "M1"),
		span("early", "X", 0.8, 0, 10, "M2"),
	}
	original := make([]datatypes.Span, len(spans))
	copy(original, spans)

	mergeGroups(spans)

	if !reflect.DeepEqual(spans, original) {
		t.Error("mergeGroups reordered the caller's slice")
	}
}

func TestGroupModels(t *testing.T) {
	group := []datatypes.Span{
		span("a", "X", 0.9, 0, 5, "M2", "M1"),
		span("b", "X", 0.8, 2, 7, "M1"),
		span("c", "X", 0.7, 3, 8), // no models
	}
	got := groupModels(group)
	want := []string{"M1", "M2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groupModels = %v, want %v", got, want)
	}
}

func TestSliceText(t *testing.T) {
	source := "patient has severe hypertension today"

	tests := []struct {
		name     string
		start    int
		end      int
		fallback string
		want     string
	}{
		{"in range", 19, 31, "fb", "hypertension"},
		{"whole document", 0, len(source), "fb", source},
		{"end past source", 19, 100, "fb", "fb"},
		{"negative start", -1, 5, "fb", "fb"},
		{"inverted range", 10, 5, "fb", "fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sliceText(source, tt.start, tt.end, tt.fallback); got != tt.want {
				t.Errorf("sliceText = %q, want %q", got, tt.want)
			}
		})
	}
}
