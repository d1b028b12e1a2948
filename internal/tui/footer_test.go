package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/patterns"
)

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t)
	m.hasLast = true
	m.lastOutcome = model.OutcomeWon
	m.lastProgress = 1
	m.allWins = 3
	m.allAttempts = 4

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"serpentine 1/12", "Progress 0%", idleHint, "Last won · 100%", "All-time 3/4 won · 75.0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterTruncates(t *testing.T) {
	m := newTestModel(t)
	m.width = 20
	out := m.renderFooter()
	if strings.Contains(out, "All-time") || !strings.Contains(out, "…") {
		t.Fatalf("expected truncated footer, got %q", out)
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := model.Config{
		Pattern:     "serpentine",
		Width:       900,
		Height:      360,
		StrokeWidth: 18,
		Tolerance:   16,
	}
	m, err := NewModel(cfg, nil, patterns.Fixed(0))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
