package stats

import (
	"sort"

	"github.com/verte-zerg/pathdrag/internal/model"
)

// TopPatternsByAttempts returns the n most played patterns.
func TopPatternsByAttempts(aggs []model.PatternAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.PatternAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Attempts == sorted[j].Attempts {
			return sorted[i].Pattern < sorted[j].Pattern
		}
		return sorted[i].Attempts > sorted[j].Attempts
	})
	n = min(n, len(sorted))
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.Pattern)
	}
	return out
}
