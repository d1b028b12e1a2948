package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pathdrag/internal/drag"
	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/patterns"
	"github.com/verte-zerg/pathdrag/internal/render"
	"github.com/verte-zerg/pathdrag/internal/track"
)

const exportMargin = 40

// shapeFlags selects a path and envelope for the non-interactive commands.
type shapeFlags struct {
	pattern     string
	points      string
	width       float64
	height      float64
	strokeWidth float64
	tolerance   float64
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pattern, "pattern", patterns.Catalog()[0].Name, "catalog pattern")
	cmd.Flags().StringVar(&f.points, "points", "", `custom polyline "x,y x,y ..." (overrides --pattern)`)
	cmd.Flags().Float64Var(&f.width, "width", defaultWidth, "view box width")
	cmd.Flags().Float64Var(&f.height, "height", defaultHeight, "view box height")
	cmd.Flags().Float64Var(&f.strokeWidth, "stroke-width", defaultStrokeWidth, "path stroke width")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", defaultTolerance, "allowed distance beyond the stroke edge")
}

func (f *shapeFlags) build() (*geom.Path, track.Envelope, error) {
	env, err := track.NewEnvelope(f.strokeWidth, f.tolerance)
	if err != nil {
		return nil, track.Envelope{}, err
	}
	if strings.TrimSpace(f.points) != "" {
		pts, err := parsePoints(f.points)
		if err != nil {
			return nil, track.Envelope{}, err
		}
		path, err := geom.NewPath(pts)
		if err != nil {
			return nil, track.Envelope{}, fmt.Errorf("--points: %w", err)
		}
		return path, env, nil
	}
	idx, ok := patterns.Lookup(f.pattern)
	if !ok {
		return nil, track.Envelope{}, fmt.Errorf("--pattern must be one of: %s", strings.Join(patterns.Names(), ", "))
	}
	path, err := patterns.Build(idx, f.width, f.height)
	if err != nil {
		return nil, track.Envelope{}, err
	}
	return path, env, nil
}

// parsePoints parses whitespace separated "x,y" pairs.
func parsePoints(s string) ([]geom.Point, error) {
	fields := strings.Fields(s)
	pts := make([]geom.Point, 0, len(fields))
	for _, field := range fields {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q (expected x,y)", field)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", field, err)
		}
		pts = append(pts, geom.Pt(x, y))
	}
	return pts, nil
}

func newPatternsCmd() *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List built-in patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, e := range patterns.Catalog() {
				path, err := patterns.Build(i, width, height)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%2d  %-12s %3d points  length %7.1f\n", i+1, e.Name, path.Len(), path.Length()); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&width, "width", defaultWidth, "view box width")
	cmd.Flags().Float64Var(&height, "height", defaultHeight, "view box height")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var shape shapeFlags
	cmd := &cobra.Command{
		Use:   "eval X Y",
		Short: "Evaluate a point against a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid X: %w", err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid Y: %w", err)
			}
			path, env, err := shape.build()
			if err != nil {
				return err
			}
			p := geom.Pt(x, y)
			sample := track.Evaluate(p, path, env)
			proj := path.Closest(p)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ratio=%.4f distance=%.4f within=%t segment=%d limit=%.4f\n",
				sample.Ratio, sample.Distance, sample.WithinTolerance, proj.Segment, env.Limit())
			return err
		},
	}
	shape.register(cmd)
	return cmd
}

func newTraceCmd() *cobra.Command {
	var shape shapeFlags
	var threshold float64
	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Replay pointer events (down, move X Y, up, cancel) against a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, env, err := shape.build()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open trace: %w", err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil {
						logErrf("failed to close trace: %v\n", cerr)
					}
				}()
				in = f
			}
			router := &drag.Router{}
			session, err := drag.New(path, env, drag.WithThreshold(threshold), drag.WithEventSource(router))
			if err != nil {
				return err
			}
			return runTrace(cmd.OutOrStdout(), in, session, router)
		},
	}
	shape.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", drag.DefaultThreshold, "progress needed to win [0.98, 1)")
	return cmd
}

type traceEvent struct {
	kind string
	pos  geom.Point
}

// parseTraceLine parses one trace line. ok is false for blank and comment
// lines.
func parseTraceLine(line string) (ev traceEvent, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return traceEvent{}, false, nil
	}
	kind := strings.ToLower(fields[0])
	switch kind {
	case "down", "up", "cancel":
		if len(fields) != 1 {
			return traceEvent{}, false, fmt.Errorf("%s takes no arguments", kind)
		}
		return traceEvent{kind: kind}, true, nil
	case "move":
		if len(fields) != 3 {
			return traceEvent{}, false, fmt.Errorf("move needs X and Y")
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return traceEvent{}, false, fmt.Errorf("invalid X: %w", err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return traceEvent{}, false, fmt.Errorf("invalid Y: %w", err)
		}
		return traceEvent{kind: kind, pos: geom.Pt(x, y)}, true, nil
	default:
		return traceEvent{}, false, fmt.Errorf("unknown event %q", fields[0])
	}
}

// runTrace applies events from r in order. Pointer down goes straight to the
// session; move, up and cancel go through router, so they only reach the
// session while it is dragging.
func runTrace(w io.Writer, r io.Reader, session *drag.Session, router *drag.Router) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ev, ok, err := parseTraceLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			continue
		}
		switch ev.kind {
		case "down":
			session.PointerDown()
		case "move":
			router.Move(ev.pos)
		case "up":
			router.Up()
		case "cancel":
			router.Cancel()
		}
		snap := session.Snapshot()
		if _, err := fmt.Fprintf(w, "%d %-6s state=%s ratio=%.4f distance=%.4f best=%.4f\n",
			lineNo, ev.kind, snap.State, snap.Last.Ratio, snap.Last.Distance, snap.BestProgress); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	snap := session.Snapshot()
	_, err := fmt.Fprintf(w, "result: %s best=%.4f samples=%d\n", snap.State, snap.BestProgress, snap.Samples)
	return err
}

func newExportCmd() *cobra.Command {
	var shape shapeFlags
	var out string
	var scale, handle float64
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a path to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fmt.Errorf("--out must not be empty")
			}
			if scale <= 0 {
				return fmt.Errorf("--scale must be > 0")
			}
			path, env, err := shape.build()
			if err != nil {
				return err
			}
			opts := render.Options{Width: shape.width, Height: shape.height, Scale: scale}
			if shape.points != "" {
				// Grow the image so custom points are never clipped.
				b := path.Bounds()
				opts.Width = max(opts.Width, b.Max.X+exportMargin)
				opts.Height = max(opts.Height, b.Max.Y+exportMargin)
			}
			if cmd.Flags().Changed("handle") {
				if handle < 0 || handle > 1 {
					return fmt.Errorf("--handle must be between 0 and 1")
				}
				p := path.PointAt(handle)
				opts.Handle = &p
			}
			if out == "-" {
				return render.PNG(cmd.OutOrStdout(), path, env, opts)
			}
			return writePNG(out, func(w io.Writer) error {
				return render.PNG(w, path, env, opts)
			})
		},
	}
	shape.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", `output file ("-" for stdout)`)
	cmd.Flags().Float64Var(&scale, "scale", 1, "pixel scale factor")
	cmd.Flags().Float64Var(&handle, "handle", 0, "draw the handle at this progress ratio")
	return cmd
}

func writePNG(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
