package alerts

import "sort"

// Merge deduplicates candidate alerts: same-type overlapping spans collapse
// into one alert carrying the higher severity and the union of the spans.
// The result is ordered by start time ascending, ties by severity descending.
// Rule detection stays independent; this reduction is the only place where
// candidates interact.
func Merge(candidates []Alert) []Alert {
	byType := make(map[Type][]Alert)
	for _, candidate := range candidates {
		byType[candidate.Type] = append(byType[candidate.Type], candidate)
	}

	merged := make([]Alert, 0, len(candidates))
	for _, group := range byType {
		merged = append(merged, mergeGroup(group)...)
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].StartsAt.Equal(merged[j].StartsAt) {
			return merged[i].StartsAt.Before(merged[j].StartsAt)
		}
		if merged[i].Severity != merged[j].Severity {
			return merged[i].Severity > merged[j].Severity
		}
		return merged[i].Type < merged[j].Type
	})
	return merged
}

// mergeGroup merges overlapping spans within a single alert type
func mergeGroup(group []Alert) []Alert {
	sort.Slice(group, func(i, j int) bool {
		if !group[i].StartsAt.Equal(group[j].StartsAt) {
			return group[i].StartsAt.Before(group[j].StartsAt)
		}
		return group[i].Severity > group[j].Severity
	})

	out := make([]Alert, 0, len(group))
	for _, candidate := range group {
		if len(out) == 0 {
			out = append(out, candidate)
			continue
		}

		last := &out[len(out)-1]
		if !candidate.StartsAt.Before(last.EndsAt) {
			out = append(out, candidate)
			continue
		}

		// Overlap: union the span, keep the higher severity's message
		if candidate.EndsAt.After(last.EndsAt) {
			last.EndsAt = candidate.EndsAt
		}
		if candidate.Severity > last.Severity {
			last.Severity = candidate.Severity
			last.Message = candidate.Message
		}
	}
	return out
}
