// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/pathdrag/internal/model"
)

const sparkChars = " .:-=+*#%@"

// AttemptMetrics computes the win rate and mean best progress over attempts.
func AttemptMetrics(attempts []model.AttemptAggregate) (winRate, meanProgress float64) {
	if len(attempts) == 0 {
		return 0, 0
	}
	wins := 0
	var progress float64
	for _, a := range attempts {
		if a.Outcome == model.OutcomeWon {
			wins++
		}
		progress += a.BestProgress
	}
	n := float64(len(attempts))
	return float64(wins) / n, progress / n
}

// PatternMetrics computes win rate, mean best progress and mean duration for
// a pattern aggregate.
func PatternMetrics(agg model.PatternAggregate) (winRate, meanProgress float64, meanDuration time.Duration) {
	if agg.Attempts <= 0 {
		return 0, 0, 0
	}
	n := float64(agg.Attempts)
	winRate = float64(agg.Wins) / n
	meanProgress = agg.BestProgressSum / n
	meanDuration = time.Duration(agg.DurationSumMs/int64(agg.Attempts)) * time.Millisecond
	return winRate, meanProgress, meanDuration
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate, now time.Time) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	winRate, meanProgress := AttemptMetrics(attempts)
	wins, losses := 0, 0
	var fastest int64
	for _, a := range attempts {
		switch a.Outcome {
		case model.OutcomeWon:
			wins++
			if fastest == 0 || a.DurationMs < fastest {
				fastest = a.DurationMs
			}
		case model.OutcomeLost:
			losses++
		}
	}
	last := attempts[len(attempts)-1]
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d (%d won, %d lost)", len(attempts), wins, losses),
		fmt.Sprintf("Win rate: %.1f%%", winRate*100),
		fmt.Sprintf("Avg best progress: %.1f%%", meanProgress*100),
	}
	if fastest > 0 {
		lines = append(lines, fmt.Sprintf("Fastest win: %s", formatDuration(fastest)))
	}
	lines = append(lines, fmt.Sprintf("Last played: %s", humanize.RelTime(last.EndedAt, now, "ago", "from now")), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderPatternTable prints per-pattern aggregates, hardest first.
func RenderPatternTable(w io.Writer, aggs []model.PatternAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No pattern stats found.")
		return err
	}
	rows := sortedPatternRows(aggs)
	if _, err := fmt.Fprintln(w, "Per-Pattern"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(PatternTableHeaders(), rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PatternTableHeaders returns the column headers of the pattern table.
func PatternTableHeaders() []string {
	return []string{"Pattern", "Attempts", "Win Rate", "Avg Progress", "Avg Time"}
}

// PatternTableRows returns table cells for pattern aggregates, hardest first.
func PatternTableRows(aggs []model.PatternAggregate) [][]string {
	return sortedPatternRows(aggs)
}

func sortedPatternRows(aggs []model.PatternAggregate) [][]string {
	sorted := make([]model.PatternAggregate, len(aggs))
	copy(sorted, aggs)
	// Sort by lowest win rate.
	sort.Slice(sorted, func(i, j int) bool {
		wi, _, _ := PatternMetrics(sorted[i])
		wj, _, _ := PatternMetrics(sorted[j])
		if wi == wj {
			return sorted[i].Pattern < sorted[j].Pattern
		}
		return wi < wj
	})
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		winRate, progress, dur := PatternMetrics(agg)
		rows = append(rows, []string{
			agg.Pattern,
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%.1f%%", winRate*100),
			fmt.Sprintf("%.1f%%", progress*100),
			formatDuration(dur.Milliseconds()),
		})
	}
	return rows
}

func formatDuration(ms int64) string {
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}
