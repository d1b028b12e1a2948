package drag

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/track"
)

type countingSource struct {
	router       Router
	subscribed   int
	unsubscribed int
}

func (c *countingSource) Subscribe(h Handlers) func() {
	c.subscribed++
	unsub := c.router.Subscribe(h)
	return func() {
		c.unsubscribed++
		unsub()
	}
}

func newTestSession(t *testing.T, path *geom.Path, opts ...Option) *Session {
	t.Helper()
	s, err := New(path, track.Envelope{StrokeWidth: 2, Tolerance: 1}, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func lShape() *geom.Path {
	return geom.MustPath(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
}

func TestNewSessionInitialState(t *testing.T) {
	s := newTestSession(t, lShape())
	snap := s.Snapshot()
	if snap.State != Idle || snap.Dragging || snap.Started || snap.Won || snap.Lost {
		t.Fatalf("unexpected initial flags: %+v", snap)
	}
	if snap.BestProgress != 0 {
		t.Fatalf("expected best progress 0, got %f", snap.BestProgress)
	}
	if snap.Pos != geom.Pt(0, 0) {
		t.Fatalf("expected pointer at path start, got %v", snap.Pos)
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := New(nil, track.Envelope{}); !errors.Is(err, ErrNilPath) {
		t.Fatalf("expected ErrNilPath, got %v", err)
	}
	for _, th := range []float64{0.5, 0.979, 1.0, 1.2} {
		if _, err := New(lShape(), track.Envelope{}, WithThreshold(th)); err == nil {
			t.Fatalf("expected threshold %v to be rejected", th)
		}
	}
	if _, err := New(lShape(), track.Envelope{}, WithThreshold(0.98)); err != nil {
		t.Fatalf("expected threshold 0.98 to be accepted: %v", err)
	}
}

func TestMoveIgnoredWhileIdle(t *testing.T) {
	s := newTestSession(t, lShape())
	snap := s.PointerMove(geom.Pt(10, 5))
	if snap.State != Idle || snap.BestProgress != 0 || snap.HasSample {
		t.Fatalf("expected idle move to be ignored: %+v", snap)
	}
}

func TestDragWithinToleranceUpdatesProgress(t *testing.T) {
	s := newTestSession(t, lShape())
	s.PointerDown()
	snap := s.PointerMove(geom.Pt(10, 0))
	if snap.State != Dragging || !snap.Started {
		t.Fatalf("expected dragging: %+v", snap)
	}
	if !snap.Last.WithinTolerance || snap.Last.Distance != 0 {
		t.Fatalf("unexpected sample: %+v", snap.Last)
	}
	if snap.BestProgress != 0.5 {
		t.Fatalf("expected best progress 0.5, got %f", snap.BestProgress)
	}
	snap = s.PointerMove(geom.Pt(10, 5))
	if snap.BestProgress != 0.75 {
		t.Fatalf("expected best progress 0.75, got %f", snap.BestProgress)
	}
}

func TestLeavingEnvelopeLoses(t *testing.T) {
	s := newTestSession(t, lShape())
	s.PointerDown()
	s.PointerMove(geom.Pt(10, 0))
	snap := s.PointerMove(geom.Pt(14, 0))
	if snap.State != Lost || !snap.Lost || snap.Dragging {
		t.Fatalf("expected lost: %+v", snap)
	}
	if snap.Last.WithinTolerance {
		t.Fatalf("expected out-of-tolerance sample")
	}
	if snap.BestProgress != 0.5 {
		t.Fatalf("expected best progress kept at 0.5, got %f", snap.BestProgress)
	}
}

func TestReachingEndWins(t *testing.T) {
	s := newTestSession(t, geom.MustPath(geom.Pt(0, 0), geom.Pt(10, 10)))
	s.PointerDown()
	snap := s.PointerMove(geom.Pt(10, 10))
	if snap.State != Won || !snap.Won || snap.Dragging {
		t.Fatalf("expected won: %+v", snap)
	}
	if snap.BestProgress < DefaultThreshold {
		t.Fatalf("expected best progress near 1, got %f", snap.BestProgress)
	}
}

func TestToleranceCheckedBeforeCompletion(t *testing.T) {
	s := newTestSession(t, geom.MustPath(geom.Pt(0, 0), geom.Pt(10, 0)))
	s.PointerDown()
	// Projects onto the end point but lies 5 units off the path.
	snap := s.PointerMove(geom.Pt(13, 4))
	if snap.State != Lost {
		t.Fatalf("expected lost, got %s", snap.State)
	}
	if snap.BestProgress != 0 {
		t.Fatalf("out-of-envelope sample must not be credited, got %f", snap.BestProgress)
	}
}

func TestBestProgressNeverDecreases(t *testing.T) {
	s := newTestSession(t, lShape())
	s.PointerDown()
	prev := 0.0
	for _, p := range []geom.Point{
		geom.Pt(2, 0), geom.Pt(8, 1), geom.Pt(4, 0), geom.Pt(10, 3), geom.Pt(10, 1), geom.Pt(1, 0), geom.Pt(10, 6),
	} {
		snap := s.PointerMove(p)
		if snap.State != Dragging {
			t.Fatalf("expected to stay dragging at %v: %s", p, snap.State)
		}
		if snap.BestProgress < prev {
			t.Fatalf("best progress decreased from %f to %f", prev, snap.BestProgress)
		}
		prev = snap.BestProgress
	}
	if prev != 0.8 {
		t.Fatalf("expected best progress 0.8, got %f", prev)
	}
}

func TestTerminalStatesIgnoreInput(t *testing.T) {
	for _, tc := range []struct {
		name  string
		final geom.Point
		want  State
	}{
		{"lost", geom.Pt(14, 0), Lost},
		{"won", geom.Pt(10, 10), Won},
	} {
		s := newTestSession(t, lShape())
		s.PointerDown()
		s.PointerMove(geom.Pt(10, 0))
		before := s.PointerMove(tc.final)
		if before.State != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, before.State)
		}
		s.PointerMove(geom.Pt(10, 10))
		s.PointerMove(geom.Pt(50, 50))
		s.PointerUp()
		s.PointerCancel()
		after := s.PointerDown()
		if after.State != before.State || after.Won != before.Won || after.Lost != before.Lost || after.BestProgress != before.BestProgress {
			t.Fatalf("%s: terminal state changed: %+v -> %+v", tc.name, before, after)
		}
	}
}

func TestPointerUpReturnsToIdleAndResumes(t *testing.T) {
	s := newTestSession(t, lShape())
	s.PointerDown()
	s.PointerMove(geom.Pt(10, 0))
	snap := s.PointerUp()
	if snap.State != Idle || snap.Dragging || !snap.Started {
		t.Fatalf("expected idle after up: %+v", snap)
	}
	if snap.BestProgress != 0.5 {
		t.Fatalf("expected progress retained, got %f", snap.BestProgress)
	}
	s.PointerMove(geom.Pt(10, 8))
	if s.Snapshot().BestProgress != 0.5 {
		t.Fatalf("move while idle must not change progress")
	}
	s.PointerDown()
	snap = s.PointerMove(geom.Pt(10, 8))
	if snap.State != Dragging || snap.BestProgress != 0.9 {
		t.Fatalf("expected resumed drag at 0.9: %+v", snap)
	}
	if s.PointerCancel().State != Idle {
		t.Fatalf("expected idle after cancel")
	}
}

func TestResetReinitializes(t *testing.T) {
	s := newTestSession(t, lShape())
	s.PointerDown()
	s.PointerMove(geom.Pt(14, 0))
	next := geom.MustPath(geom.Pt(5, 5), geom.Pt(20, 5))
	if err := s.Reset(next); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Idle || snap.Started || snap.Won || snap.Lost || snap.BestProgress != 0 || snap.Samples != 0 {
		t.Fatalf("expected fresh session: %+v", snap)
	}
	if snap.Pos != geom.Pt(5, 5) || s.Path() != next {
		t.Fatalf("expected session on new path")
	}
	if err := s.Reset(nil); !errors.Is(err, ErrNilPath) {
		t.Fatalf("expected ErrNilPath, got %v", err)
	}
}

func TestDegeneratePathNeverDivides(t *testing.T) {
	s := newTestSession(t, geom.MustPath(geom.Pt(5, 5), geom.Pt(5, 5)))
	s.PointerDown()
	snap := s.PointerMove(geom.Pt(6, 5))
	if snap.Last.Ratio != 0 || snap.Last.Distance != 1 {
		t.Fatalf("unexpected sample: %+v", snap.Last)
	}
	if snap.State != Dragging {
		t.Fatalf("expected dragging, got %s", snap.State)
	}
}

func TestSubscriptionScopedToDragging(t *testing.T) {
	src := &countingSource{}
	s := newTestSession(t, lShape(), WithEventSource(src))

	s.PointerDown()
	if src.subscribed != 1 || !src.router.Active() {
		t.Fatalf("expected one active subscription")
	}
	// Events flow through the source.
	src.router.Move(geom.Pt(10, 0))
	if s.Snapshot().BestProgress != 0.5 {
		t.Fatalf("expected routed move to update progress")
	}
	src.router.Up()
	if src.unsubscribed != 1 || src.router.Active() {
		t.Fatalf("expected unsubscribe on pointer up")
	}
	if src.router.Move(geom.Pt(10, 5)) {
		t.Fatalf("expected no subscriber after up")
	}

	s.PointerDown()
	src.router.Move(geom.Pt(14, 0))
	if s.State() != Lost || src.unsubscribed != 2 {
		t.Fatalf("expected unsubscribe on loss, got state %s unsub %d", s.State(), src.unsubscribed)
	}

	if err := s.Reset(lShape()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	s.PointerDown()
	if err := s.Reset(lShape()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if src.subscribed != 3 || src.unsubscribed != 3 || src.router.Active() {
		t.Fatalf("expected reset to unsubscribe: sub %d unsub %d", src.subscribed, src.unsubscribed)
	}
}

func TestObserverSeesTransitions(t *testing.T) {
	var got []Transition
	clock := time.Unix(100, 0)
	s := newTestSession(t, geom.MustPath(geom.Pt(0, 0), geom.Pt(10, 0)),
		WithObserver(func(tr Transition) { got = append(got, tr) }),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
	s.PointerDown()
	s.PointerUp()
	s.PointerDown()
	s.PointerMove(geom.Pt(10, 0))

	want := [][2]State{{Idle, Dragging}, {Dragging, Idle}, {Idle, Dragging}, {Dragging, Won}}
	if len(got) != len(want) {
		t.Fatalf("expected %d transitions, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].From != w[0] || got[i].To != w[1] {
			t.Fatalf("transition %d: expected %s->%s, got %s->%s", i, w[0], w[1], got[i].From, got[i].To)
		}
	}
	last := got[len(got)-1].Snapshot
	if last.EndedAt.Sub(last.StartedAt) != time.Second {
		t.Fatalf("unexpected timestamps: %v .. %v", last.StartedAt, last.EndedAt)
	}
	if last.Samples != 1 {
		t.Fatalf("expected 1 sample, got %d", last.Samples)
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Lost.String() != "lost" || State(9).String() != "State(9)" {
		t.Fatalf("unexpected state names")
	}
	if Idle.Terminal() || Dragging.Terminal() || !Won.Terminal() || !Lost.Terminal() {
		t.Fatalf("unexpected terminal classification")
	}
}
