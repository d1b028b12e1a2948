// Package tui provides the Bubble Tea game host.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pathdrag/internal/drag"
	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/logging"
	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/patterns"
	statsPkg "github.com/verte-zerg/pathdrag/internal/stats"
	"github.com/verte-zerg/pathdrag/internal/store"
	"github.com/verte-zerg/pathdrag/internal/track"
)

const (
	idleHint = "Drag the handle from ● to ■ without leaving the path"
	lostMsg  = "Left the path. Press r to try a new one"
	wonMsg   = "Finished! Press n for the next pattern"
)

// Model implements the Bubble Tea game UI.
type Model struct {
	config   model.Config
	store    *store.Store
	selector patterns.Selector
	env      track.Envelope
	router   *drag.Router
	session  *drag.Session
	now      func() time.Time

	keys keyMap
	help help.Model

	patternIndex int
	canvas       canvas

	width  int
	height int

	lastOutcome  model.Outcome
	lastProgress float64
	hasLast      bool

	allAttempts int
	allWins     int
}

var (
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5062FF"))
	trailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C89FF"))
	corridorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2A2F6C"))
	startStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	finishStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	draggingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	wonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	lostStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a game model. st may be nil, in which case attempts are
// not persisted.
func NewModel(cfg model.Config, st *store.Store, sel patterns.Selector) (*Model, error) {
	env, err := track.NewEnvelope(cfg.StrokeWidth, cfg.Tolerance)
	if err != nil {
		return nil, err
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = drag.DefaultThreshold
	}
	if sel == nil {
		sel = patterns.NewUniform()
	}
	var idx int
	if cfg.Pattern != "" {
		i, ok := patterns.Lookup(cfg.Pattern)
		if !ok {
			return nil, fmt.Errorf("unknown pattern %q", cfg.Pattern)
		}
		idx = i
	} else {
		idx = sel.Next(patterns.Count())
	}
	path, err := patterns.Build(idx, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	m := &Model{
		config:       cfg,
		store:        st,
		selector:     sel,
		env:          env,
		router:       &drag.Router{},
		now:          time.Now,
		keys:         defaultKeyMap(),
		help:         help.New(),
		patternIndex: idx,
	}
	session, err := drag.New(path, env,
		drag.WithThreshold(cfg.Threshold),
		drag.WithEventSource(m.router),
		drag.WithObserver(m.onTransition),
		drag.WithClock(func() time.Time { return m.now() }),
	)
	if err != nil {
		return nil, err
	}
	m.session = session
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuildCanvas()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.abandon()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.loadPattern(m.selector.Next(patterns.Count()))
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.loadPattern((m.patternIndex + 1) % patterns.Count())
			return m, nil
		default:
			return m, nil
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.BlurMsg:
		m.router.Cancel()
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	footer := m.renderFooter()
	helpLine := m.help.View(m.keys)
	if m.height < 3 || m.canvas.empty() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, footer)
	}
	body := m.canvas.render(m.session.Snapshot())
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpRow := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footerLine + "\n" + helpRow
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p, ok := m.toView(msg.X, msg.Y)
	if !ok {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.session.State() != drag.Idle {
			return
		}
		if !m.nearHandle(p) {
			return
		}
		m.session.PointerDown()
	case tea.MouseActionMotion:
		m.router.Move(p)
	case tea.MouseActionRelease:
		m.router.Up()
	}
}

// toView maps a terminal cell to view box coordinates. Cells below the canvas
// map past the bottom edge rather than being clamped.
func (m *Model) toView(x, y int) (geom.Point, bool) {
	if m.canvas.empty() || x < 0 || y < 0 {
		return geom.Point{}, false
	}
	return m.canvas.cellCenter(x, y), true
}

// nearHandle reports whether p is close enough to the handle to grab it,
// allowing one cell of slack for the coarse grid.
func (m *Model) nearHandle(p geom.Point) bool {
	cellW, cellH := m.canvas.cellSize()
	reach := m.env.Limit() + math.Max(cellW, cellH)
	return p.Distance(m.session.Snapshot().Pos) <= reach
}

func (m *Model) rebuildCanvas() {
	rows := m.height - 2
	if m.width <= 0 || rows <= 0 {
		m.canvas = canvas{}
		return
	}
	m.canvas = newCanvas(m.width, rows, m.config.Width, m.config.Height, m.session.Path(), m.env)
}

func (m *Model) loadPattern(idx int) {
	path, err := patterns.Build(idx, m.config.Width, m.config.Height)
	if err != nil {
		logErrf("failed to build pattern: %v\n", err)
		return
	}
	m.abandon()
	if err := m.session.Reset(path); err != nil {
		logErrf("failed to reset session: %v\n", err)
		return
	}
	m.patternIndex = idx
	m.rebuildCanvas()
	logging.Logger().Info("pattern chosen", "pattern", m.patternName(), "index", idx)
}

// abandon records an attempt that was started but never finished.
func (m *Model) abandon() {
	snap := m.session.Snapshot()
	if !snap.Started || snap.State.Terminal() {
		return
	}
	m.recordAttempt(model.OutcomeAbandoned, snap)
}

func (m *Model) onTransition(tr drag.Transition) {
	switch tr.To {
	case drag.Won:
		m.recordAttempt(model.OutcomeWon, tr.Snapshot)
	case drag.Lost:
		m.recordAttempt(model.OutcomeLost, tr.Snapshot)
	}
}

func (m *Model) recordAttempt(outcome model.Outcome, snap drag.Snapshot) {
	endedAt := snap.EndedAt
	if endedAt.IsZero() {
		endedAt = m.now()
	}
	attempt := model.Attempt{
		StartedAt:    snap.StartedAt,
		EndedAt:      endedAt,
		Pattern:      m.patternName(),
		Width:        m.config.Width,
		Height:       m.config.Height,
		StrokeWidth:  m.env.StrokeWidth,
		Tolerance:    m.env.Tolerance,
		Outcome:      outcome,
		BestProgress: snap.BestProgress,
		Samples:      snap.Samples,
		DurationMs:   endedAt.Sub(snap.StartedAt).Milliseconds(),
	}
	if outcome == model.OutcomeWon {
		attempt.BestProgress = 1
	}

	m.lastOutcome = outcome
	m.lastProgress = attempt.BestProgress
	m.hasLast = true
	m.allAttempts++
	if outcome == model.OutcomeWon {
		m.allWins++
	}

	if m.store == nil {
		return
	}
	ctx := context.Background()
	id, err := m.store.InsertAttempt(ctx, attempt)
	if err != nil {
		logging.Logger().Warn("attempt not saved", "pattern", attempt.Pattern, "error", err)
		logErrf("failed to save attempt: %v\n", err)
		return
	}
	logging.Logger().Info("attempt recorded",
		"id", id, "pattern", attempt.Pattern, "outcome", string(outcome),
		"best_progress", attempt.BestProgress, "duration_ms", attempt.DurationMs)
	if m.config.Selector == "weak" {
		m.refreshWeakSelector()
	}
}

func (m *Model) refreshWeakSelector() {
	sel, ok, err := statsPkg.WeakSelector(context.Background(), m.store, m.config.Seed)
	if err != nil {
		logErrf("failed to load weak patterns: %v\n", err)
		return
	}
	if ok {
		m.selector = sel
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	attempts, err := m.store.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	last := attempts[len(attempts)-1]
	m.lastOutcome = last.Outcome
	m.lastProgress = last.BestProgress
	m.hasLast = true
	m.allAttempts = len(attempts)
	for _, a := range attempts {
		if a.Outcome == model.OutcomeWon {
			m.allWins++
		}
	}
}

func (m *Model) patternName() string {
	return patterns.Catalog()[m.patternIndex].Name
}

func (m *Model) statusMessage(snap drag.Snapshot) string {
	switch snap.State {
	case drag.Won:
		return wonMsg
	case drag.Lost:
		return lostMsg
	case drag.Idle:
		if !snap.Started {
			return idleHint
		}
		return "Grab the handle to continue"
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	snap := m.session.Snapshot()
	progress := int(math.Floor(snap.BestProgress * 100))
	if snap.Won {
		progress = 100
	}
	segments := []string{
		fmt.Sprintf("%s %d/%d", m.patternName(), m.patternIndex+1, patterns.Count()),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if msg := m.statusMessage(snap); msg != "" {
		segments = append(segments, msg)
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %s · %.0f%%", m.lastOutcome, m.lastProgress*100))
	}
	winRate := 0.0
	if m.allAttempts > 0 {
		winRate = float64(m.allWins) / float64(m.allAttempts)
	}
	segments = append(segments, fmt.Sprintf("All-time %d/%d won · %.1f%%", m.allWins, m.allAttempts, winRate*100))
	footer := strings.Join(segments, "  ")
	if m.width > 0 {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer)
}

func handleStyle(state drag.State) lipgloss.Style {
	switch state {
	case drag.Dragging:
		return draggingStyle
	case drag.Won:
		return wonStyle
	case drag.Lost:
		return lostStyle
	default:
		return idleStyle
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
