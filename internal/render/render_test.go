package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/track"
)

func TestPNGWritesScaledImage(t *testing.T) {
	path := geom.MustPath(geom.Pt(40, 100), geom.Pt(200, 40), geom.Pt(360, 100))
	env := track.Envelope{StrokeWidth: 18, Tolerance: 16}
	handle := path.PointAt(0.5)

	var buf bytes.Buffer
	err := PNG(&buf, path, env, Options{Width: 400, Height: 150, Scale: 0.5, Handle: &handle, HandleState: "lost"})
	if err != nil {
		t.Fatalf("render png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 75 {
		t.Fatalf("unexpected image size %dx%d", b.Dx(), b.Dy())
	}
}

func TestDrawRejectsBadInput(t *testing.T) {
	env := track.Envelope{StrokeWidth: 2}
	if _, err := Draw(nil, env, Options{Width: 10, Height: 10}); err == nil {
		t.Fatalf("expected error for nil path")
	}
	path := geom.MustPath(geom.Pt(0, 0), geom.Pt(1, 1))
	if _, err := Draw(path, env, Options{Width: 0, Height: 10}); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestHandleColor(t *testing.T) {
	if handleColor("won") != wonHex || handleColor("lost") != lostHex || handleColor("idle") != handleHex {
		t.Fatalf("unexpected handle colors")
	}
}
