package drag

import "github.com/verte-zerg/pathdrag/internal/geom"

// Handlers receive pointer events delivered by an EventSource.
type Handlers struct {
	Move   func(geom.Point)
	Up     func()
	Cancel func()
}

// EventSource delivers move, up and cancel events to subscribed handlers.
// A session subscribes when it starts dragging and calls the returned
// function exactly once when it stops.
type EventSource interface {
	Subscribe(h Handlers) (unsubscribe func())
}

type nopSource struct{}

func (nopSource) Subscribe(Handlers) func() { return func() {} }

// Router is an EventSource that forwards pointer events to at most one
// subscriber. Events arriving with no subscriber are dropped.
type Router struct {
	current *Handlers
	gen     int
}

// Subscribe implements EventSource. A new subscription replaces the old one.
func (r *Router) Subscribe(h Handlers) func() {
	r.gen++
	gen := r.gen
	r.current = &h
	return func() {
		if r.gen == gen {
			r.current = nil
		}
	}
}

// Active reports whether a subscriber is attached.
func (r *Router) Active() bool {
	return r.current != nil
}

// Move forwards a move event. It reports whether a subscriber received it.
func (r *Router) Move(p geom.Point) bool {
	if r.current == nil || r.current.Move == nil {
		return false
	}
	r.current.Move(p)
	return true
}

// Up forwards a pointer-up event.
func (r *Router) Up() bool {
	if r.current == nil || r.current.Up == nil {
		return false
	}
	r.current.Up()
	return true
}

// Cancel forwards a pointer-cancel event.
func (r *Router) Cancel() bool {
	if r.current == nil || r.current.Cancel == nil {
		return false
	}
	r.current.Cancel()
	return true
}
