package l2depth

import (
	"errors"
	"fmt"
	"math"
)

// Normalized depth bounds: 0 is the near clip plane, 1 the far clip plane.
const (
	NearDepth float32 = 0
	FarDepth  float32 = 1
)

var (
	// ErrGridSizeMismatch reports environment and target grids of different
	// dimensions. It is a caller bug; a pass that sees it must abort.
	ErrGridSizeMismatch = errors.New("depth grid size mismatch")
	// ErrInvalidGrid reports a grid whose dimensions or backing slice are unusable.
	ErrInvalidGrid = errors.New("invalid depth grid")
)

// PixelCoord addresses one grid cell; 0 <= X < Width, 0 <= Y < Height.
type PixelCoord struct {
	X, Y int
}

// Grid is a Width×Height row-major array of normalized depth values.
// Row 0 is the top row of the image.
type Grid struct {
	Width  int
	Height int
	Depth  []float32 // len = Width * Height
}

// NewGrid allocates a grid with every cell at NearDepth.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Depth: make([]float32, width*height)}
}

// NewFilledGrid allocates a grid with every cell set to v.
func NewFilledGrid(width, height int, v float32) *Grid {
	g := NewGrid(width, height)
	g.Fill(v)
	return g
}

// NewFarGrid returns a grid at maximum depth everywhere, i.e. an empty scene.
// It stands in for the environment grid when a caller supplies only a target grid.
func NewFarGrid(width, height int) *Grid {
	return NewFilledGrid(width, height, FarDepth)
}

// Idx returns the flat index for (x, y). No bounds checking.
func (g *Grid) Idx(x, y int) int {
	return y*g.Width + x
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the depth at (x, y). It panics if (x, y) is out of bounds.
func (g *Grid) At(x, y int) float32 {
	return g.Depth[g.Idx(x, y)]
}

// Set writes the depth at (x, y). It panics if (x, y) is out of bounds.
func (g *Grid) Set(x, y int, d float32) {
	g.Depth[g.Idx(x, y)] = d
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float32) {
	for i := range g.Depth {
		g.Depth[i] = v
	}
}

// FillRect sets every cell of the half-open rectangle [x0,x1)×[y0,y1) to v,
// clipped to the grid.
func (g *Grid) FillRect(x0, y0, x1, y1 int, v float32) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, g.Width), min(y1, g.Height)
	for y := y0; y < y1; y++ {
		row := g.Depth[y*g.Width : (y+1)*g.Width]
		for x := x0; x < x1; x++ {
			row[x] = v
		}
	}
}

// Resize changes the grid dimensions, reusing the backing array when it is
// large enough. Contents are unspecified afterwards.
func (g *Grid) Resize(width, height int) {
	n := width * height
	if cap(g.Depth) < n {
		g.Depth = make([]float32, n)
	}
	g.Depth = g.Depth[:n]
	g.Width, g.Height = width, height
}

// Validate checks the grid is non-empty and its backing slice matches its size.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	if len(g.Depth) != g.Width*g.Height {
		return fmt.Errorf("%w: %d cells for %dx%d", ErrInvalidGrid, len(g.Depth), g.Width, g.Height)
	}
	return nil
}

// SameSize reports whether g and o have identical dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// CheckSameSize validates both grids of a pass and enforces the shared-size
// precondition. The returned error wraps ErrGridSizeMismatch or ErrInvalidGrid.
func CheckSameSize(env, targets *Grid) error {
	if err := env.Validate(); err != nil {
		return fmt.Errorf("environment grid: %w", err)
	}
	if err := targets.Validate(); err != nil {
		return fmt.Errorf("target grid: %w", err)
	}
	if !env.SameSize(targets) {
		return fmt.Errorf("%w: environment %dx%d, targets %dx%d",
			ErrGridSizeMismatch, env.Width, env.Height, targets.Width, targets.Height)
	}
	return nil
}

// ScaledDims returns round(width*scale) × round(height*scale), never below 1×1.
func ScaledDims(width, height int, scale float64) (int, int) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	return max(w, 1), max(h, 1)
}

// Viewport returns the normalized viewport coordinates of the centre of
// pixel (x, y). Viewport (0, 0) is bottom-left, so rows are flipped.
func (g *Grid) Viewport(x, y int) (u, v float64) {
	u = (float64(x) + 0.5) / float64(g.Width)
	v = 1 - (float64(y)+0.5)/float64(g.Height)
	return u, v
}
