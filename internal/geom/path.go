package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPath is returned when a path cannot be constructed from its points.
var ErrInvalidPath = errors.New("invalid path")

// Path is an immutable polyline of at least two points.
type Path struct {
	points []Point
	cum    []float64
}

// Projection describes the closest point of a path to a query point.
type Projection struct {
	Segment  int
	T        float64
	Point    Point
	Distance float64
	Ratio    float64
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// NewPath validates and copies points into a Path. Consecutive duplicates are
// allowed and form zero-length segments.
func NewPath(points []Point) (*Path, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidPath, len(points))
	}
	pts := make([]Point, len(points))
	cum := make([]float64, len(points))
	for i, p := range points {
		if !p.finite() {
			return nil, fmt.Errorf("%w: point %d is not finite", ErrInvalidPath, i)
		}
		pts[i] = p
		if i > 0 {
			cum[i] = cum[i-1] + p.Distance(pts[i-1])
		}
	}
	return &Path{points: pts, cum: cum}, nil
}

// MustPath is like NewPath but panics on invalid input.
func MustPath(points ...Point) *Path {
	p, err := NewPath(points)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of points.
func (p *Path) Len() int {
	return len(p.points)
}

// Segments returns the number of segments.
func (p *Path) Segments() int {
	return len(p.points) - 1
}

// Points returns a copy of the path's points.
func (p *Path) Points() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// Start returns the first point.
func (p *Path) Start() Point {
	return p.points[0]
}

// End returns the last point.
func (p *Path) End() Point {
	return p.points[len(p.points)-1]
}

// Length returns the total arc length.
func (p *Path) Length() float64 {
	return p.cum[len(p.cum)-1]
}

// CumulativeLength returns the arc length from the start to point i.
func (p *Path) CumulativeLength(i int) float64 {
	return p.cum[i]
}

// Bounds returns the bounding box of the path's points.
func (p *Path) Bounds() Rect {
	r := Rect{Min: p.points[0], Max: p.points[0]}
	for _, pt := range p.points[1:] {
		r.Min.X = math.Min(r.Min.X, pt.X)
		r.Min.Y = math.Min(r.Min.Y, pt.Y)
		r.Max.X = math.Max(r.Max.X, pt.X)
		r.Max.Y = math.Max(r.Max.Y, pt.Y)
	}
	return r
}

// Closest projects q onto the path. Segments are scanned in order and only a
// strictly smaller distance replaces the current best, so the earliest
// segment wins ties.
func (p *Path) Closest(q Point) Projection {
	best := Projection{Distance: math.Inf(1)}
	for i := 1; i < len(p.points); i++ {
		d, t := PointToSegmentDistance(q, p.points[i-1], p.points[i])
		if d < best.Distance {
			best = Projection{Segment: i - 1, T: t, Distance: d}
		}
	}
	a, b := p.points[best.Segment], p.points[best.Segment+1]
	best.Point = a.Lerp(b, best.T)
	total := p.Length()
	if total > 0 {
		segLen := p.cum[best.Segment+1] - p.cum[best.Segment]
		best.Ratio = math.Min(1, (p.cum[best.Segment]+best.T*segLen)/total)
	}
	return best
}

// ProgressOnPolyline returns the arc-length ratio of q's projection onto path
// and the distance from q to that projection. A zero-length path yields ratio 0.
func ProgressOnPolyline(q Point, path *Path) (ratio, distance float64) {
	proj := path.Closest(q)
	return proj.Ratio, proj.Distance
}

// PointAt returns the point at the given arc-length ratio, clamped to [0,1].
func (p *Path) PointAt(ratio float64) Point {
	total := p.Length()
	if total == 0 || ratio <= 0 {
		return p.points[0]
	}
	if ratio >= 1 {
		return p.End()
	}
	target := ratio * total
	for i := 1; i < len(p.cum); i++ {
		if p.cum[i] < target {
			continue
		}
		segLen := p.cum[i] - p.cum[i-1]
		if segLen == 0 {
			return p.points[i]
		}
		return p.points[i-1].Lerp(p.points[i], (target-p.cum[i-1])/segLen)
	}
	return p.End()
}
