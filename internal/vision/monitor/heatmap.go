package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// depthGridXYZ adapts a depth grid to plotter.GridXYZ. Plot rows run
// bottom-up while grid rows run top-down, so rows are flipped.
type depthGridXYZ struct {
	g *l2depth.Grid
}

func (d depthGridXYZ) Dims() (c, r int) { return d.g.Width, d.g.Height }
func (d depthGridXYZ) Z(c, r int) float64 {
	return float64(d.g.At(c, d.g.Height-1-r))
}
func (d depthGridXYZ) X(c int) float64 { return float64(c) }
func (d depthGridXYZ) Y(r int) float64 { return float64(r) }

// Min and Max pin the colour scale to the normalized depth range so grids
// from different passes are comparable.
func (d depthGridXYZ) Min() float64 { return float64(l2depth.NearDepth) }
func (d depthGridXYZ) Max() float64 { return float64(l2depth.FarDepth) }

// WriteDepthHeatmap renders g as a PNG heatmap at path. Near cells are red
// and far cells white. The grid must be at least 2×2.
func WriteDepthHeatmap(g *l2depth.Grid, title, path string) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Width < 2 || g.Height < 2 {
		return fmt.Errorf("heatmap needs at least 2x2 cells, got %dx%d", g.Width, g.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row (from bottom)"

	p.Add(plotter.NewHeatMap(depthGridXYZ{g}, palette.Heat(64, 1)))

	aspect := float64(g.Height) / float64(g.Width)
	w := 8 * vg.Inch
	if err := p.Save(w, vg.Length(aspect)*w+vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
