package monitor

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/banshee-data/sightline/internal/vision/bench"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	// MaxChartIterations caps how many per-iteration lines a tick chart
	// draws; the smoothed mean always covers every iteration.
	MaxChartIterations = 10
	// SmoothingWindow is the chunk size of the smoothed mean line.
	SmoothingWindow = 10
)

// ErrNoSamples is returned when a run has nothing to chart.
var ErrNoSamples = errors.New("run has no samples")

// iterationColors spreads n distinct hues around the colour wheel.
func iterationColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	// Rainbow needs at least two colours.
	cols := palette.Rainbow(n+1, palette.Red, palette.Magenta, 0.7, 0.85, 1).Colors()
	return cols[:n]
}

// WriteTickChart plots per-tick wall time of run: one thin line per
// iteration (up to MaxChartIterations) and a thick black chunked average of
// the mean across all iterations.
func WriteTickChart(run *bench.Run, path string) error {
	if run == nil || len(run.Samples) == 0 {
		return ErrNoSamples
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s / %s (%d agents, %d targets)",
		run.Scenario.Name, run.Method, run.Scenario.Agents, run.Scenario.Targets)
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = "Tick time (ms)"
	p.Legend.Top = true

	series := bench.TickSeries(run.Samples)
	shown := series
	if len(shown) > MaxChartIterations {
		shown = shown[:MaxChartIterations]
	}
	colors := iterationColors(len(shown))
	for i, s := range shown {
		if len(s) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s))
		for j, v := range s {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("iteration %d line: %w", i, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("iter %d", i), line)
	}

	xs, ys := bench.ChunkedAverage(bench.OverallMeanSeries(series), SmoothingWindow)
	if len(xs) > 0 {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = float64(xs[i])
			pts[i].Y = ys[i]
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("mean line: %w", err)
		}
		line.Color = color.Black
		line.Width = vg.Points(3)
		scatter.Color = color.Black
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("mean (window %d)", SmoothingWindow), line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save tick chart: %w", err)
	}
	return nil
}
