// Package drag implements the interaction state machine for dragging a handle
// along a path: idle, dragging, and the terminal won and lost states.
//
// A Session is driven by pointer events applied strictly in arrival order.
// It is not safe for concurrent use; hosts deliver one event at a time.
package drag

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/logging"
	"github.com/verte-zerg/pathdrag/internal/track"
)

// DefaultThreshold is the progress ratio above which a drag counts as complete.
// It sits below 1 to absorb sampling error near the end point.
const DefaultThreshold = 0.995

const (
	minThreshold = 0.98
	maxThreshold = 1.0
)

// ErrNilPath is returned when a session is created or reset without a path.
var ErrNilPath = errors.New("path is nil")

// State is the lifecycle state of a Session.
type State int

const (
	Idle State = iota
	Dragging
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no pointer input can leave s.
func (s State) Terminal() bool {
	return s == Won || s == Lost
}

// Snapshot is an immutable copy of session state for hosts.
type Snapshot struct {
	State        State
	Pos          geom.Point
	Dragging     bool
	Started      bool
	Won          bool
	Lost         bool
	BestProgress float64
	Last         track.Sample
	HasSample    bool
	Samples      int
	StartedAt    time.Time
	EndedAt      time.Time
}

// Transition describes a state change.
type Transition struct {
	From     State
	To       State
	Snapshot Snapshot
}

// Session tracks one attempt at following a path.
type Session struct {
	tracker   track.Tracker
	threshold float64
	source    EventSource
	observer  func(Transition)
	now       func() time.Time

	state        State
	pos          geom.Point
	started      bool
	bestProgress float64
	last         track.Sample
	hasSample    bool
	samples      int
	startedAt    time.Time
	endedAt      time.Time

	unsubscribe func()
}

// Option configures a Session.
type Option func(*Session)

// WithThreshold sets the completion threshold. It must lie in [0.98, 1.0).
func WithThreshold(v float64) Option {
	return func(s *Session) { s.threshold = v }
}

// WithEventSource sets where the session subscribes for move, up and cancel
// events while dragging.
func WithEventSource(src EventSource) Option {
	return func(s *Session) { s.source = src }
}

// WithObserver registers fn to be called after every state change.
func WithObserver(fn func(Transition)) Option {
	return func(s *Session) { s.observer = fn }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session on path with the pointer at the path's first point.
func New(path *geom.Path, env track.Envelope, opts ...Option) (*Session, error) {
	if path == nil {
		return nil, ErrNilPath
	}
	s := &Session{
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.threshold < minThreshold || s.threshold >= maxThreshold {
		return nil, fmt.Errorf("completion threshold must be in [%.2f, %.1f), got %v", minThreshold, maxThreshold, s.threshold)
	}
	if s.source == nil {
		s.source = nopSource{}
	}
	s.init(track.NewTracker(path, env))
	return s, nil
}

func (s *Session) init(tr track.Tracker) {
	s.tracker = tr
	s.state = Idle
	s.pos = tr.Path().Start()
	s.started = false
	s.bestProgress = 0
	s.last = track.Sample{}
	s.hasSample = false
	s.samples = 0
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
}

// Path returns the path being followed.
func (s *Session) Path() *geom.Path {
	return s.tracker.Path()
}

// Envelope returns the tolerance envelope.
func (s *Session) Envelope() track.Envelope {
	return s.tracker.Envelope()
}

// Threshold returns the completion threshold.
func (s *Session) Threshold() float64 {
	return s.threshold
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:        s.state,
		Pos:          s.pos,
		Dragging:     s.state == Dragging,
		Started:      s.started,
		Won:          s.state == Won,
		Lost:         s.state == Lost,
		BestProgress: s.bestProgress,
		Last:         s.last,
		HasSample:    s.hasSample,
		Samples:      s.samples,
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
	}
}

// PointerDown starts dragging from Idle. It is ignored in any other state.
func (s *Session) PointerDown() Snapshot {
	if s.state != Idle {
		return s.Snapshot()
	}
	if !s.started {
		s.started = true
		s.startedAt = s.now()
	}
	s.unsubscribe = s.source.Subscribe(Handlers{
		Move:   func(p geom.Point) { s.PointerMove(p) },
		Up:     func() { s.PointerUp() },
		Cancel: func() { s.PointerCancel() },
	})
	s.transition(Dragging)
	return s.Snapshot()
}

// PointerMove applies one pointer sample. Only samples received while
// dragging have any effect. A sample outside the envelope loses the attempt
// before completion is considered.
func (s *Session) PointerMove(p geom.Point) Snapshot {
	if s.state != Dragging {
		return s.Snapshot()
	}
	s.pos = p
	sample := s.tracker.Evaluate(p)
	s.last = sample
	s.hasSample = true
	s.samples++
	logging.Logger().Debug("pointer sample",
		"x", p.X, "y", p.Y,
		"ratio", sample.Ratio, "distance", sample.Distance,
		"within", sample.WithinTolerance)

	if !sample.WithinTolerance {
		s.finish(Lost)
		return s.Snapshot()
	}
	if sample.Ratio > s.bestProgress {
		s.bestProgress = sample.Ratio
	}
	if sample.Ratio > s.threshold {
		s.finish(Won)
	}
	return s.Snapshot()
}

// PointerUp stops dragging without a result. Best progress is kept.
func (s *Session) PointerUp() Snapshot {
	return s.release()
}

// PointerCancel behaves like PointerUp.
func (s *Session) PointerCancel() Snapshot {
	return s.release()
}

// Reset discards the current attempt and starts a fresh one on path.
func (s *Session) Reset(path *geom.Path) error {
	if path == nil {
		return ErrNilPath
	}
	s.leaveDragging()
	s.init(track.NewTracker(path, s.tracker.Envelope()))
	logging.Logger().Debug("session reset", "points", path.Len(), "length", path.Length())
	return nil
}

func (s *Session) release() Snapshot {
	if s.state != Dragging {
		return s.Snapshot()
	}
	s.leaveDragging()
	s.transition(Idle)
	return s.Snapshot()
}

func (s *Session) finish(to State) {
	s.leaveDragging()
	s.endedAt = s.now()
	s.transition(to)
}

// leaveDragging drops the event subscription. Every exit from Dragging goes
// through here.
func (s *Session) leaveDragging() {
	if s.unsubscribe == nil {
		return
	}
	unsub := s.unsubscribe
	s.unsubscribe = nil
	unsub()
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	logging.Logger().Debug("drag transition",
		"from", from.String(), "to", to.String(),
		"best_progress", s.bestProgress)
	if s.observer != nil {
		s.observer(Transition{From: from, To: to, Snapshot: s.Snapshot()})
	}
}
