package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pathdrag/internal/drag"
	"github.com/verte-zerg/pathdrag/internal/geom"
	"github.com/verte-zerg/pathdrag/internal/track"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellCorridor
	cellPath
)

const (
	pathGlyph     = '█'
	corridorGlyph = '░'
	startGlyph    = '●'
	finishGlyph   = '■'
	handleGlyph   = '◉'
)

type styledRune struct {
	s     string
	width int
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)}
}

// canvas maps the path's authoring space onto a grid of terminal cells.
// Axes are scaled independently so the whole view box fills the body.
type canvas struct {
	cols  int
	rows  int
	viewW float64
	viewH float64
	path  *geom.Path

	kinds  []cellKind
	ratios []float64
}

func newCanvas(cols, rows int, viewW, viewH float64, path *geom.Path, env track.Envelope) canvas {
	c := canvas{cols: cols, rows: rows, viewW: viewW, viewH: viewH, path: path}
	if cols <= 0 || rows <= 0 || path == nil {
		return c
	}
	cellW, cellH := c.cellSize()
	// A cell is drawn as path when the stroke covers its center, or when the
	// cell is coarser than the stroke and the path crosses it.
	pathReach := math.Max(env.StrokeWidth/2, math.Max(cellW, cellH)/2)
	corridorReach := math.Max(env.Limit(), pathReach)

	c.kinds = make([]cellKind, cols*rows)
	c.ratios = make([]float64, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			ratio, dist := geom.ProgressOnPolyline(c.cellCenter(col, row), path)
			c.ratios[i] = ratio
			switch {
			case dist <= pathReach:
				c.kinds[i] = cellPath
			case dist <= corridorReach:
				c.kinds[i] = cellCorridor
			}
		}
	}
	return c
}

func (c canvas) empty() bool {
	return c.cols <= 0 || c.rows <= 0
}

func (c canvas) cellSize() (w, h float64) {
	if c.empty() {
		return 0, 0
	}
	return c.viewW / float64(c.cols), c.viewH / float64(c.rows)
}

// cellCenter returns the view box point at the center of a cell.
func (c canvas) cellCenter(col, row int) geom.Point {
	w, h := c.cellSize()
	return geom.Pt((float64(col)+0.5)*w, (float64(row)+0.5)*h)
}

// toCell returns the cell containing p. ok is false when p lies outside the
// view box.
func (c canvas) toCell(p geom.Point) (col, row int, ok bool) {
	if c.empty() || p.X < 0 || p.Y < 0 || p.X >= c.viewW || p.Y >= c.viewH {
		return 0, 0, false
	}
	col = int(p.X / c.viewW * float64(c.cols))
	row = int(p.Y / c.viewH * float64(c.rows))
	return min(col, c.cols-1), min(row, c.rows-1), true
}

// render draws the canvas with markers and the handle for snap.
func (c canvas) render(snap drag.Snapshot) string {
	if c.empty() || len(c.kinds) == 0 {
		return ""
	}
	grid := make([]styledRune, len(c.kinds))
	blank := styledRune{s: " ", width: 1}
	for i, kind := range c.kinds {
		switch kind {
		case cellPath:
			style := pathStyle
			if c.ratios[i] <= snap.BestProgress {
				style = trailStyle
			}
			grid[i] = newStyledRune(pathGlyph, style)
		case cellCorridor:
			grid[i] = newStyledRune(corridorGlyph, corridorStyle)
		default:
			grid[i] = blank
		}
	}
	c.place(grid, c.path.Start(), newStyledRune(startGlyph, startStyle))
	c.place(grid, c.path.End(), newStyledRune(finishGlyph, finishStyle))
	c.place(grid, snap.Pos, newStyledRune(handleGlyph, handleStyle(snap.State)))

	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderStyledRunes(grid[row*c.cols : (row+1)*c.cols]))
	}
	return b.String()
}

func (c canvas) place(grid []styledRune, p geom.Point, r styledRune) {
	col, row, ok := c.toCell(p)
	if !ok {
		return
	}
	grid[row*c.cols+col] = r
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}
