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
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianConsolidate/services/consolidator/datatypes"
)

// detectDisagreement decides whether a multi-label group is a true label
// conflict.
//
// # Description
//
// Takes the two highest-score spans of the group (ties broken
// deterministically by sweep order) and compares their texts with token-set
// Jaccard similarity. High similarity with different labels means two
// models read the same words and categorized them differently — that
// conflict is surfaced explicitly rather than silently arbitrated. Low
// similarity means boundary ambiguity, not a label conflict, and the group
// defers to weighted arbitration.
//
// # Inputs
//
//   - group: A merge group with more than one span and more than one
//     distinct label.
//   - source: The full source document, for re-slicing the covering text.
//
// # Outputs
//
//   - datatypes.Span: The DISAGREEMENT span. Only valid when flagged.
//   - bool: True when the conflict is declared (similarity strictly above
//     the Jaccard threshold).
func (e *Engine) detectDisagreement(group []datatypes.Span, source string) (datatypes.Span, bool) {
	first, second := topTwoByScore(group)
	if first.Label == second.Label {
		// The two strongest candidates agree; minority labels lose in
		// arbitration rather than poisoning the group with a conflict.
		return datatypes.Span{}, false
	}

	similarity := jaccard(tokenSet(first.Text), tokenSet(second.Text))
	if similarity <= e.Config().JaccardThreshold {
		return datatypes.Span{}, false
	}

	start, end := groupBounds(group)
	score := first.Score
	if second.Score > score {
		score = second.Score
	}

	return datatypes.Span{
		Text:   sliceText(source, start, end, first.Text),
		Label:  datatypes.LabelDisagreement,
		Score:  score,
		Start:  start,
		End:    end,
		Models: groupModels(group),
		Notes: fmt.Sprintf("conflicting labels: %q (%.2f) vs %q (%.2f)",
			first.Label, first.Score, second.Label, second.Score),
	}, true
}

// topTwoByScore returns the two highest-score spans of a group. Strict
// comparisons keep earlier spans (sweep order) on ties.
func topTwoByScore(group []datatypes.Span) (datatypes.Span, datatypes.Span) {
	first, second := 0, -1
	for i := 1; i < len(group); i++ {
		switch {
		case group[i].Score > group[first].Score:
			second = first
			first = i
		case second == -1 || group[i].Score > group[second].Score:
			second = i
		}
	}
	return group[first], group[second]
}

// tokenSet lowercases and whitespace-tokenizes text into a term set.
func tokenSet(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		terms[tok] = true
	}
	return terms
}

// jaccard computes |A∩B| / |A∪B| over two term sets. Returns 0.0 when
// either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for term := range a {
		if b[term] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// distinctLabels counts the distinct labels within a group.
func distinctLabels(group []datatypes.Span) int {
	seen := make(map[string]bool, len(group))
	for _, s := range group {
		seen[s.Label] = true
	}
	return len(seen)
}
