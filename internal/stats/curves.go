package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/pathdrag/internal/model"
)

const (
	terminalWidthBackup = 80
	curveLabelWidth     = 10
	minCurveWidth       = 10
)

// RenderCurves prints best-progress and win-rate learning curves as
// sparklines fitted to totalWidth. A totalWidth of 0 uses the terminal width.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth int) error {
	if len(attempts) == 0 {
		return nil
	}
	progress := make([]float64, len(attempts))
	wins := make([]float64, len(attempts))
	for i, a := range attempts {
		progress[i] = a.BestProgress * 100
		if a.Outcome == model.OutcomeWon {
			wins[i] = 100
		}
	}
	progress = Downsample(MovingAverage(progress, window), CurveWidthFor(totalWidth))
	wins = Downsample(MovingAverage(wins, window), CurveWidthFor(totalWidth))

	lines := []string{
		"Learning Curves",
		fmt.Sprintf("%-*s%s", curveLabelWidth, "Progress", Sparkline(progress)),
		fmt.Sprintf("%-*s%s", curveLabelWidth, "Win rate", Sparkline(wins)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CurveWidthFor returns the sparkline width that fits next to the labels.
func CurveWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	return max(minCurveWidth, totalWidth-curveLabelWidth)
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// TerminalWidth returns the width of stdout or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
