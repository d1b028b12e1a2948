package stats

import (
	"context"
	"sort"

	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/patterns"
	"github.com/verte-zerg/pathdrag/internal/store"
)

// Weak-focus defaults.
const (
	WeakWindow = 50
	WeakTop    = 3
	WeakFactor = 3.0
)

// SelectWeakPatterns selects the lowest win-rate patterns from aggregates.
// Patterns without attempts are not considered.
func SelectWeakPatterns(aggs []model.PatternAggregate, top int) map[string]struct{} {
	weak := map[string]struct{}{}
	candidates := make([]model.PatternAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Attempts > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weak
	}
	sort.Slice(candidates, func(i, j int) bool {
		wi, pi, _ := PatternMetrics(candidates[i])
		wj, pj, _ := PatternMetrics(candidates[j])
		if wi != wj {
			return wi < wj
		}
		if pi != pj {
			return pi < pj
		}
		return candidates[i].Pattern < candidates[j].Pattern
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, agg := range candidates[:top] {
		weak[agg.Pattern] = struct{}{}
	}
	return weak
}

// WeakSelector builds a weighted selector that favors the patterns with the
// lowest win rate over the last WeakWindow attempts. ok is false when there
// is no history yet; the returned selector is then uniform.
func WeakSelector(ctx context.Context, st *store.Store, seed int64) (sel patterns.Selector, ok bool, err error) {
	report, err := BuildReport(ctx, st, model.StatsConfig{CurveWindow: WeakWindow})
	if err != nil {
		return nil, false, err
	}
	weak := SelectWeakPatterns(report.PatternAggsRecent, WeakTop)
	if len(weak) == 0 {
		return patterns.NewWeighted(seed, nil), false, nil
	}
	return patterns.NewWeighted(seed, patterns.FocusWeights(weak, WeakFactor)), true, nil
}
