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
	"sort"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
)

// mergeGroups partitions spans into overlap-connected groups.
//
// # Description
//
// Two spans land in the same group iff they are connected by a chain of
// character-range overlaps. Spans are sorted ascending by Start (ties by
// End, stably, for determinism) and swept left to right: a span joins the
// current group when its Start lies before the running maximum End of the
// group. The running maximum matters — a long early span can bridge spans
// that its shorter successors do not reach.
//
// # Outputs
//
//   - [][]datatypes.Span: Groups in ascending Start order. Nil for empty
//     input; a single span yields one singleton group.
//
// # Performance
//
// O(n log n), dominated by the sort.
func mergeGroups(spans []datatypes.Span) [][]datatypes.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]datatypes.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var groups [][]datatypes.Span
	current := []datatypes.Span{sorted[0]}
	groupEnd := sorted[0].End

	for _, s := range sorted[1:] {
		if s.Start < groupEnd {
			current = append(current, s)
			if s.End > groupEnd {
				groupEnd = s.End
			}
			continue
		}
		groups = append(groups, current)
		current = []datatypes.Span{s}
		groupEnd = s.End
	}
	groups = append(groups, current)

	return groups
}

// groupBounds returns the covering range [min Start, max End) of a group.
func groupBounds(group []datatypes.Span) (start, end int) {
	start, end = group[0].Start, group[0].End
	for _, s := range group[1:] {
		if s.Start < start {
			start = s.Start
		}
		if s.End > end {
			end = s.End
		}
	}
	return start, end
}

// groupModels returns the sorted, deduplicated model identifiers across a
// group.
func groupModels(group []datatypes.Span) []string {
	seen := make(map[string]bool)
	var models []string
	for _, s := range group {
		for _, m := range s.Models {
			if m != "" && !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	sort.Strings(models)
	return models
}

// sliceText re-slices the covering text from the source document. When the
// offsets fall outside the provided source (callers may send pre-sliced
// text with original offsets), the fallback text is kept instead.
func sliceText(source string, start, end int, fallback string) string {
	if start >= 0 && end > start && end <= len(source) {
		return source[start:end]
	}
	return fallback
}
