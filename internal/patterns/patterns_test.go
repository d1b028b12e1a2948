package patterns

import (
	"testing"

	"github.com/verte-zerg/pathdrag/internal/geom"
)

func TestCatalogBuildsValidPaths(t *testing.T) {
	if Count() != 12 {
		t.Fatalf("expected 12 patterns, got %d", Count())
	}
	for i, e := range Catalog() {
		path, err := Build(i, 900, 360)
		if err != nil {
			t.Fatalf("build %s: %v", e.Name, err)
		}
		if path.Start().X != margin || path.End().X != 900-margin {
			t.Fatalf("%s: expected endpoints on margins, got %v .. %v", e.Name, path.Start(), path.End())
		}
		b := path.Bounds()
		if b.Min.X < 0 || b.Max.X > 900 || b.Min.Y < 0 || b.Max.Y > 360 {
			t.Fatalf("%s: path leaves canvas: %+v", e.Name, b)
		}
		if path.Length() <= 0 {
			t.Fatalf("%s: expected positive length", e.Name)
		}
	}
}

func TestSerpentineMatchesLayout(t *testing.T) {
	want := []geom.Point{
		{X: 40, Y: 180}, {X: 180, Y: 72}, {X: 315, Y: 252}, {X: 450, Y: 108},
		{X: 585, Y: 288}, {X: 720, Y: 126}, {X: 860, Y: 180},
	}
	got := serpentine(900, 360)
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if d := got[i].Distance(want[i]); d > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestZigzagAlternates(t *testing.T) {
	pts := zigzag(900, 360)
	if len(pts) != 7 {
		t.Fatalf("expected 7 points, got %d", len(pts))
	}
	for i, p := range pts {
		want := 90.0
		if i%2 == 1 {
			want = 270
		}
		if p.Y != want {
			t.Fatalf("point %d: expected y=%f, got %f", i, want, p.Y)
		}
	}
}

func TestLookup(t *testing.T) {
	idx, ok := Lookup(" Canyon ")
	if !ok || idx != 11 {
		t.Fatalf("expected canyon at 11, got %d %v", idx, ok)
	}
	if _, ok := Lookup("spiral"); ok {
		t.Fatalf("expected unknown pattern")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	if _, err := Build(-1, 900, 360); err == nil {
		t.Fatalf("expected error for negative index")
	}
	if _, err := Build(Count(), 900, 360); err == nil {
		t.Fatalf("expected error for index out of range")
	}
	if _, err := Build(0, 60, 360); err == nil {
		t.Fatalf("expected error for tiny canvas")
	}
}

func TestSelectors(t *testing.T) {
	seq := NewSequential(10)
	got := []int{seq.Next(12), seq.Next(12), seq.Next(12)}
	if got[0] != 10 || got[1] != 11 || got[2] != 0 {
		t.Fatalf("unexpected sequence: %v", got)
	}
	if Fixed(3).Next(12) != 3 || Fixed(20).Next(12) != 0 {
		t.Fatalf("unexpected fixed selection")
	}
	a, b := NewUniformSeed(42), NewUniformSeed(42)
	for i := 0; i < 20; i++ {
		x, y := a.Next(12), b.Next(12)
		if x != y {
			t.Fatalf("seeded selectors diverged at %d", i)
		}
		if x < 0 || x >= 12 {
			t.Fatalf("index out of range: %d", x)
		}
	}
	if _, err := NewSelector("shuffle", 0, 0); err == nil {
		t.Fatalf("expected unknown selector error")
	}
	if s, err := NewSelector("sequential", 0, 2); err != nil || s.Next(12) != 2 {
		t.Fatalf("expected sequential selector starting at 2")
	}
}

func TestWeightedSelector(t *testing.T) {
	weights := FocusWeights(map[string]struct{}{"canyon": {}}, 1000)
	if weights[11] != 1001 || weights[0] != 1 {
		t.Fatalf("unexpected weights: %v", weights)
	}
	w := NewWeighted(7, weights)
	hits := 0
	for i := 0; i < 200; i++ {
		if w.Next(Count()) == 11 {
			hits++
		}
	}
	if hits < 150 {
		t.Fatalf("expected canyon to dominate selection, got %d/200", hits)
	}
	only := NewWeighted(7, []float64{0, 0, 5})
	for i := 0; i < 20; i++ {
		if got := only.Next(3); got != 2 {
			t.Fatalf("expected index 2, got %d", got)
		}
	}
	if got := NewWeighted(7, []float64{1}).Next(12); got < 0 || got >= 12 {
		t.Fatalf("expected uniform fallback in range, got %d", got)
	}
}
