package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pathdrag.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	outcomes := []model.Outcome{model.OutcomeLost, model.OutcomeWon, model.OutcomeWon}
	for i, outcome := range outcomes {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		_, err := st.InsertAttempt(context.Background(), model.Attempt{
			StartedAt:    start,
			EndedAt:      start.Add(4 * time.Second),
			Pattern:      "arches",
			Width:        900,
			Height:       360,
			StrokeWidth:  18,
			Tolerance:    16,
			Outcome:      outcome,
			BestProgress: 1,
			DurationMs:   4000,
		})
		if err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}
	return st
}

func TestViewRendersOverview(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"Overview", "Attempts", "66.7%", "4.0s", "Learning Curves"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if got := strings.Count(view, "\n"); got != 29 {
		t.Fatalf("expected 30 lines, got %d", got+1)
	}
}

func TestRecentTabListsPatterns(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 2})
	out := renderRecent(m.report, m.cfg.CurveWindow)
	if !strings.Contains(out, "Last 2 attempts") || !strings.Contains(out, "arches") {
		t.Fatalf("unexpected recent tab:\n%s", out)
	}
}

func TestApplyFilter(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{CurveWindow: 10})
	m.filterInputs[0].SetValue("nope")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for unknown pattern")
	}
	m.filterInputs[0].SetValue(" Arches ")
	m.filterInputs[1].SetValue("2024-02-30")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for invalid date")
	}
	m.filterInputs[1].SetValue("")
	m.filterInputs[2].SetValue("5")
	m.filterInputs[3].SetValue("0")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for zero window")
	}
	m.filterInputs[3].SetValue("3")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if m.cfg.Pattern != "arches" || m.cfg.Last != 5 || m.cfg.CurveWindow != 3 || m.cfg.Since != nil {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{in: 1, next: 5, prev: 1},
		{in: 5, next: 10, prev: 1},
		{in: 7, next: 10, prev: 5},
		{in: 20, next: 25, prev: 15},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
