// Package patterns provides the catalog of path shapes offered by the game.
package patterns

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/pathdrag/internal/geom"
)

// margin keeps the start and finish markers away from the canvas edge.
const margin = 40

// Generator builds a polyline scaled to a w×h authoring space.
type Generator func(w, h float64) []geom.Point

// Entry is a named pattern.
type Entry struct {
	Name     string
	Generate Generator
}

var catalog = []Entry{
	{"serpentine", serpentine},
	{"zigzag", zigzag},
	{"smooth-s", smoothS},
	{"arches", arches},
	{"tall-wave", tallWave},
	{"gentle-wave", gentleWave},
	{"steps", steps},
	{"diagonal-s", diagonalS},
	{"tight-turns", tightTurns},
	{"sawtooth", sawtooth},
	{"low-wave", lowWave},
	{"canyon", canyon},
}

// Catalog returns the patterns in display order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Count returns the number of patterns.
func Count() int {
	return len(catalog)
}

// Names returns the pattern names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the index of the named pattern.
func Lookup(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, e := range catalog {
		if e.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Build generates pattern index at the given size and validates it.
func Build(index int, w, h float64) (*geom.Path, error) {
	if index < 0 || index >= len(catalog) {
		return nil, fmt.Errorf("pattern index %d out of range [0, %d)", index, len(catalog))
	}
	if w <= 2*margin || h <= 0 {
		return nil, fmt.Errorf("canvas %gx%g too small for patterns", w, h)
	}
	path, err := geom.NewPath(catalog[index].Generate(w, h))
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern %s: %w", catalog[index].Name, err)
	}
	return path, nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func serpentine(w, h float64) []geom.Point {
	return []geom.Point{
		{X: margin, Y: h / 2},
		{X: w * 0.20, Y: h * 0.20},
		{X: w * 0.35, Y: h * 0.70},
		{X: w * 0.50, Y: h * 0.30},
		{X: w * 0.65, Y: h * 0.80},
		{X: w * 0.80, Y: h * 0.35},
		{X: w - margin, Y: h / 2},
	}
}

// alternating spreads cols+1 points evenly between the margins, swapping
// between two heights.
func alternating(w, h float64, cols int, even, odd float64) []geom.Point {
	pts := make([]geom.Point, 0, cols+1)
	for i := 0; i <= cols; i++ {
		y := h * odd
		if i%2 == 0 {
			y = h * even
		}
		pts = append(pts, geom.Point{X: lerp(margin, w-margin, float64(i)/float64(cols)), Y: y})
	}
	return pts
}

func zigzag(w, h float64) []geom.Point {
	return alternating(w, h, 6, 0.25, 0.75)
}

func sawtooth(w, h float64) []geom.Point {
	return alternating(w, h, 7, 0.30, 0.70)
}

// scaled places interior points at fractional coordinates, with the first and
// last pinned to the margins.
func scaled(w, h, startY, endY float64, interior ...[2]float64) []geom.Point {
	pts := make([]geom.Point, 0, len(interior)+2)
	pts = append(pts, geom.Point{X: margin, Y: h * startY})
	for _, f := range interior {
		pts = append(pts, geom.Point{X: w * f[0], Y: h * f[1]})
	}
	return append(pts, geom.Point{X: w - margin, Y: h * endY})
}

func smoothS(w, h float64) []geom.Point {
	return scaled(w, h, 0.65, 0.35, [2]float64{0.20, 0.80}, [2]float64{0.40, 0.30}, [2]float64{0.60, 0.70}, [2]float64{0.80, 0.20})
}

func arches(w, h float64) []geom.Point {
	return scaled(w, h, 0.65, 0.45, [2]float64{0.18, 0.35}, [2]float64{0.36, 0.65}, [2]float64{0.54, 0.35}, [2]float64{0.72, 0.65})
}

func tallWave(w, h float64) []geom.Point {
	return scaled(w, h, 0.50, 0.45, [2]float64{0.18, 0.15}, [2]float64{0.36, 0.85}, [2]float64{0.54, 0.20}, [2]float64{0.72, 0.80})
}

func gentleWave(w, h float64) []geom.Point {
	return scaled(w, h, 0.55, 0.50, [2]float64{0.20, 0.45}, [2]float64{0.40, 0.65}, [2]float64{0.60, 0.35}, [2]float64{0.80, 0.55})
}

func steps(w, h float64) []geom.Point {
	return scaled(w, h, 0.75, 0.25,
		[2]float64{0.25, 0.75}, [2]float64{0.25, 0.55},
		[2]float64{0.50, 0.55}, [2]float64{0.50, 0.35},
		[2]float64{0.75, 0.35}, [2]float64{0.75, 0.25},
	)
}

func diagonalS(w, h float64) []geom.Point {
	return scaled(w, h, 0.25, 0.45, [2]float64{0.30, 0.75}, [2]float64{0.55, 0.20}, [2]float64{0.80, 0.70})
}

func tightTurns(w, h float64) []geom.Point {
	return scaled(w, h, 0.60, 0.55,
		[2]float64{0.22, 0.40}, [2]float64{0.35, 0.70}, [2]float64{0.48, 0.30},
		[2]float64{0.63, 0.65}, [2]float64{0.78, 0.35},
	)
}

func lowWave(w, h float64) []geom.Point {
	return scaled(w, h, 0.55, 0.50, [2]float64{0.20, 0.60}, [2]float64{0.40, 0.50}, [2]float64{0.60, 0.65}, [2]float64{0.80, 0.45})
}

func canyon(w, h float64) []geom.Point {
	return scaled(w, h, 0.50, 0.40, [2]float64{0.22, 0.30}, [2]float64{0.38, 0.55}, [2]float64{0.55, 0.35}, [2]float64{0.72, 0.60})
}
