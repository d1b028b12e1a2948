// Package track turns pointer positions into progress along a path and checks
// them against a tolerance envelope.
package track

import (
	"fmt"
	"math"

	"github.com/verte-zerg/pathdrag/internal/geom"
)

// Envelope is the allowed deviation around a path: half the stroke width plus
// extra slack.
type Envelope struct {
	StrokeWidth float64
	Tolerance   float64
}

// NewEnvelope validates stroke width and tolerance.
func NewEnvelope(strokeWidth, tolerance float64) (Envelope, error) {
	if !validScalar(strokeWidth) {
		return Envelope{}, fmt.Errorf("stroke width must be a finite value >= 0, got %v", strokeWidth)
	}
	if !validScalar(tolerance) {
		return Envelope{}, fmt.Errorf("tolerance must be a finite value >= 0, got %v", tolerance)
	}
	return Envelope{StrokeWidth: strokeWidth, Tolerance: tolerance}, nil
}

// Limit returns the maximum distance from the path that still counts as on it.
func (e Envelope) Limit() float64 {
	return e.StrokeWidth/2 + e.Tolerance
}

// Sample is the evaluation of one pointer position.
type Sample struct {
	Ratio           float64
	Distance        float64
	WithinTolerance bool
}

// Evaluate projects point onto path and checks the distance against env.
func Evaluate(point geom.Point, path *geom.Path, env Envelope) Sample {
	ratio, dist := geom.ProgressOnPolyline(point, path)
	return Sample{
		Ratio:           ratio,
		Distance:        dist,
		WithinTolerance: dist <= env.Limit(),
	}
}

// Tracker binds a path to its envelope.
type Tracker struct {
	path *geom.Path
	env  Envelope
}

// NewTracker returns a Tracker for path and env.
func NewTracker(path *geom.Path, env Envelope) Tracker {
	return Tracker{path: path, env: env}
}

// Path returns the tracked path.
func (t Tracker) Path() *geom.Path {
	return t.path
}

// Envelope returns the tolerance envelope.
func (t Tracker) Envelope() Envelope {
	return t.env
}

// Evaluate evaluates point against the tracked path.
func (t Tracker) Evaluate(point geom.Point) Sample {
	return Evaluate(point, t.path, t.env)
}

func validScalar(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
