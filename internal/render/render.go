// Package render draws patterns to raster images.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/track"
)

// Palette colors, matching the terminal game.
const (
	backgroundHex = "#1e1b4b"
	corridorHex   = "#2a2f6c99"
	pathHex       = "#5062ff"
	startHex      = "#22c55e"
	finishHex     = "#eab308"
	handleHex     = "#7c89ff"
	wonHex        = "#22c55e"
	lostHex       = "#ef4444"
)

const (
	startRadius  = 10
	finishHalf   = 14
	finishRadius = 6
	handleRadius = 12
)

// Options controls image output.
type Options struct {
	// Width and Height are the authoring-space size of the image.
	Width, Height float64
	// Scale multiplies the output pixel size. Zero means 1.
	Scale float64
	// Handle, when set, draws the drag handle at that position.
	Handle *geom.Point
	// HandleState colors the handle: "won", "lost" or anything else.
	HandleState string
}

// Draw renders path with its tolerance corridor into a new gg context. The
// caller owns the returned context and must Close it.
func Draw(path *geom.Path, env track.Envelope, opts Options) (*gg.Context, error) {
	if path == nil {
		return nil, fmt.Errorf("path is nil")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %gx%g", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(opts.Width * scale))
	h := int(math.Ceil(opts.Height * scale))

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Hex(backgroundHex))
	dc.Scale(scale, scale)

	round := gg.DefaultStroke().WithCap(gg.LineCapRound).WithJoin(gg.LineJoinRound)

	dc.SetHexColor(corridorHex)
	dc.SetStroke(round.WithWidth(env.StrokeWidth + 2*env.Tolerance))
	tracePolyline(dc, path)
	if err := dc.Stroke(); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("failed to stroke corridor: %w", err)
	}

	dc.SetHexColor(pathHex)
	dc.SetStroke(round.WithWidth(env.StrokeWidth))
	tracePolyline(dc, path)
	if err := dc.Stroke(); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("failed to stroke path: %w", err)
	}

	start, end := path.Start(), path.End()
	dc.SetHexColor(startHex)
	dc.DrawCircle(start.X, start.Y, startRadius)
	if err := dc.Fill(); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("failed to draw start marker: %w", err)
	}
	dc.SetHexColor(finishHex)
	dc.DrawRoundedRectangle(end.X-finishHalf, end.Y-finishHalf, 2*finishHalf, 2*finishHalf, finishRadius)
	if err := dc.Fill(); err != nil {
		_ = dc.Close()
		return nil, fmt.Errorf("failed to draw finish marker: %w", err)
	}

	if opts.Handle != nil {
		dc.SetHexColor(handleColor(opts.HandleState))
		dc.DrawCircle(opts.Handle.X, opts.Handle.Y, handleRadius)
		if err := dc.Fill(); err != nil {
			_ = dc.Close()
			return nil, fmt.Errorf("failed to draw handle: %w", err)
		}
	}
	return dc, nil
}

// PNG renders path and writes it to w as PNG.
func PNG(w io.Writer, path *geom.Path, env track.Envelope, opts Options) error {
	dc, err := Draw(path, env, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dc.Close(); cerr != nil {
			// Best-effort context close.
			_ = cerr
		}
	}()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func tracePolyline(dc *gg.Context, path *geom.Path) {
	for i, p := range path.Points() {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
}

func handleColor(state string) string {
	switch state {
	case "won":
		return wonHex
	case "lost":
		return lostHex
	default:
		return handleHex
	}
}
