package l4detect

import (
	"math"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
	"gonum.org/v1/gonum/spatial/r3"
)

// testView looks down +Z from the origin with a camera whose aspect matches
// a w×h grid.
func testView(w, h int) l1pose.View {
	return l1pose.View{
		Pose: l1pose.NewPose(r3.Vec{}, r3.Vec{Z: 1}, l1pose.WorldUp),
		Camera: l1pose.Camera{
			FieldOfViewDegrees: 90,
			Aspect:             float64(w) / float64(h),
			Near:               0.3,
			Far:                50,
		},
	}
}

// pixelLOS answers line-of-sight queries by projecting the ray back onto a
// w×h grid and looking up the surface painted on that pixel.
type pixelLOS struct {
	view     l1pose.View
	w, h     int
	surfaces map[l2depth.PixelCoord]l3targets.SurfaceID

	queries []losQuery
}

type losQuery struct {
	Pixel       l2depth.PixelCoord
	MaxDistance float64
	Layers      l3targets.LayerMask
}

func newPixelLOS(view l1pose.View, w, h int) *pixelLOS {
	return &pixelLOS{view: view, w: w, h: h, surfaces: make(map[l2depth.PixelCoord]l3targets.SurfaceID)}
}

// paint assigns surface s to every pixel of g whose depth is not far.
func (p *pixelLOS) paint(g *l2depth.Grid, s l3targets.SurfaceID, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.At(x, y) < l2depth.FarDepth {
				p.surfaces[l2depth.PixelCoord{X: x, Y: y}] = s
			}
		}
	}
}

func (p *pixelLOS) pixel(dir r3.Vec) l2depth.PixelCoord {
	f := r3.Dot(dir, p.view.Forward)
	tanY := math.Tan(p.view.Camera.HalfFieldOfView())
	sx := r3.Dot(dir, p.view.Right()) / f / (tanY * p.view.Camera.Aspect)
	sy := r3.Dot(dir, p.view.Up) / f / tanY
	u := (sx + 1) / 2
	v := (sy + 1) / 2
	return l2depth.PixelCoord{
		X: int(math.Floor(u * float64(p.w))),
		Y: int(math.Floor((1 - v) * float64(p.h))),
	}
}

func (p *pixelLOS) Query(origin, dir r3.Vec, maxDistance float64, layers l3targets.LayerMask) (Hit, bool) {
	px := p.pixel(dir)
	p.queries = append(p.queries, losQuery{Pixel: px, MaxDistance: maxDistance, Layers: layers})
	s, ok := p.surfaces[px]
	if !ok {
		return Hit{}, false
	}
	return Hit{Surface: s, Distance: 5}, true
}

// layerRenderer copies a fixed grid per layer mask into dst.
type layerRenderer struct {
	grids map[l3targets.LayerMask]*l2depth.Grid
	err   error
	calls []l3targets.LayerMask
}

func (r *layerRenderer) RenderDepth(_ l1pose.View, layers l3targets.LayerMask, dst *l2depth.Grid) error {
	r.calls = append(r.calls, layers)
	if r.err != nil {
		return r.err
	}
	src, ok := r.grids[layers]
	if !ok {
		dst.Fill(l2depth.FarDepth)
		return nil
	}
	copy(dst.Depth, src.Depth)
	return nil
}

// ahead returns a target 5m in front of the test view.
func ahead(id l3targets.TargetID, surfaces ...l3targets.SurfaceID) l3targets.Target {
	return l3targets.Target{ID: id, Position: r3.Vec{Z: 5}, Surfaces: surfaces}
}

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.GridWidth = w
	cfg.GridHeight = h
	return cfg
}
