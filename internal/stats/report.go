package stats

import (
	"context"

	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts          []model.AttemptAggregate
	WindowAttemptIDs  []int64
	PatternAggsAll    []model.PatternAggregate
	PatternAggsRecent []model.PatternAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}

	allIDs := attemptIDs(attempts)
	windowIDs := lastAttemptIDs(attempts, cfg.CurveWindow)
	aggsAll, err := st.PatternAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsRecent, err := st.PatternAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:          attempts,
		WindowAttemptIDs:  windowIDs,
		PatternAggsAll:    aggsAll,
		PatternAggsRecent: aggsRecent,
	}, nil
}

func attemptIDs(attempts []model.AttemptAggregate) []int64 {
	ids := make([]int64, len(attempts))
	for i, a := range attempts {
		ids[i] = a.AttemptID
	}
	return ids
}

func lastAttemptIDs(attempts []model.AttemptAggregate, window int) []int64 {
	if window <= 0 || len(attempts) <= window {
		return attemptIDs(attempts)
	}
	return attemptIDs(attempts[len(attempts)-window:])
}
