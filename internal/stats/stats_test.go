package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pathdrag/internal/model"
)

func TestAttemptMetrics(t *testing.T) {
	attempts := []model.AttemptAggregate{
		{Outcome: model.OutcomeWon, BestProgress: 1},
		{Outcome: model.OutcomeLost, BestProgress: 0.5},
		{Outcome: model.OutcomeAbandoned, BestProgress: 0.3},
		{Outcome: model.OutcomeWon, BestProgress: 1},
	}
	winRate, progress := AttemptMetrics(attempts)
	if winRate != 0.5 {
		t.Fatalf("expected win rate 0.5, got %f", winRate)
	}
	if math.Abs(progress-0.7) > 1e-9 {
		t.Fatalf("expected mean progress 0.7, got %f", progress)
	}
	if w, p := AttemptMetrics(nil); w != 0 || p != 0 {
		t.Fatalf("expected zero metrics for no attempts")
	}
}

func TestPatternMetrics(t *testing.T) {
	winRate, progress, dur := PatternMetrics(model.PatternAggregate{
		Attempts: 4, Wins: 1, BestProgressSum: 2, DurationSumMs: 8000,
	})
	if winRate != 0.25 || progress != 0.5 || dur != 2*time.Second {
		t.Fatalf("unexpected metrics: %f %f %v", winRate, progress, dur)
	}
	if w, p, d := PatternMetrics(model.PatternAggregate{}); w != 0 || p != 0 || d != 0 {
		t.Fatalf("expected zero metrics for empty aggregate")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 2}, 1)
	if same[0] != 1 || same[1] != 2 {
		t.Fatalf("expected copy for window 1: %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7, 9, 11}, 3)
	want := []float64{2, 6, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	if len(Downsample([]float64{1, 2}, 10)) != 2 {
		t.Fatalf("expected short series to pass through")
	}
}

func TestRenderSummary(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	attempts := []model.AttemptAggregate{
		{Outcome: model.OutcomeLost, BestProgress: 0.5, DurationMs: 4000, EndedAt: now.Add(-time.Hour)},
		{Outcome: model.OutcomeWon, BestProgress: 1, DurationMs: 12500, EndedAt: now.Add(-3 * time.Minute)},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, attempts, now); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Attempts: 2 (1 won, 1 lost)", "Win rate: 50.0%", "Avg best progress: 75.0%", "Fastest win: 12.5s", "Last played: 3 minutes ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil, now); err != nil || !strings.Contains(buf.String(), "No attempts found.") {
		t.Fatalf("expected empty summary message, got %q", buf.String())
	}
}

func TestRenderPatternTableSortsHardestFirst(t *testing.T) {
	aggs := []model.PatternAggregate{
		{Pattern: "zigzag", Attempts: 2, Wins: 2, BestProgressSum: 2, DurationSumMs: 10000},
		{Pattern: "canyon", Attempts: 4, Wins: 1, BestProgressSum: 2.6, DurationSumMs: 20000},
	}
	var buf bytes.Buffer
	if err := RenderPatternTable(&buf, aggs); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "canyon") || !strings.HasPrefix(lines[3], "zigzag") {
		t.Fatalf("unexpected row order:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "25.0%") || !strings.Contains(lines[2], "65.0%") || !strings.Contains(lines[2], "5.0s") {
		t.Fatalf("unexpected canyon row: %q", lines[2])
	}
}

func TestRenderCurves(t *testing.T) {
	attempts := []model.AttemptAggregate{
		{Outcome: model.OutcomeLost, BestProgress: 0.2},
		{Outcome: model.OutcomeLost, BestProgress: 0.6},
		{Outcome: model.OutcomeWon, BestProgress: 1},
	}
	var buf bytes.Buffer
	if err := RenderCurves(&buf, attempts, 1, 40); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Progress  ") || !strings.Contains(out, "Win rate  ") {
		t.Fatalf("missing curve labels:\n%s", out)
	}
	if !strings.Contains(out, "  @\n") {
		t.Fatalf("expected win-rate sparkline ending in a peak:\n%s", out)
	}
}
