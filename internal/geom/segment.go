package geom

import "math"

// degenerateLenSq stands in for the squared length of a zero-length segment.
const degenerateLenSq = 1e-9

// PointToSegmentDistance returns the distance from p to the segment [a,b] and
// the clamped parameter t of the closest point (t=0 at a, t=1 at b).
// A zero-length segment degrades to point-to-point distance with t=0.
func PointToSegmentDistance(p, a, b Point) (distance, t float64) {
	v := b.Sub(a)
	w := p.Sub(a)
	lenSq := v.LengthSquared()
	if lenSq == 0 {
		lenSq = degenerateLenSq
	}
	t = w.Dot(v) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := a.Add(v.Mul(t))
	return p.Distance(proj), t
}
