package l1pose

import (
	"math"

	"github.com/banshee-data/sightline/internal/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a symmetric perspective projection.
type Camera struct {
	FieldOfViewDegrees float64 // vertical field of view
	Aspect             float64 // width / height
	Near               float64
	Far                float64
}

// CameraFromTuning builds a Camera from the tuning config. The aspect ratio
// comes from the configured screen size.
func CameraFromTuning(cfg *config.TuningConfig) Camera {
	return Camera{
		FieldOfViewDegrees: cfg.GetFieldOfViewDegrees(),
		Aspect:             float64(cfg.GetScreenWidth()) / float64(cfg.GetScreenHeight()),
		Near:               cfg.GetNearClip(),
		Far:                cfg.GetFarClip(),
	}
}

// HalfFieldOfView returns half the vertical field of view in radians.
func (c Camera) HalfFieldOfView() float64 {
	return c.FieldOfViewDegrees * 0.5 * math.Pi / 180
}

// ConeHalfAngle returns the half-angle of the narrowest cone around the view
// axis that contains the whole frustum, i.e. the angle to a frustum corner.
func (c Camera) ConeHalfAngle() float64 {
	tanY := math.Tan(c.HalfFieldOfView())
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return math.Atan(tanY * math.Sqrt(1+aspect*aspect))
}

// DistanceToDepth maps a view-axis distance to normalized depth in [0, 1].
func (c Camera) DistanceToDepth(z float64) float64 {
	d := (z - c.Near) / (c.Far - c.Near)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// DepthToDistance is the inverse of DistanceToDepth. It estimates the
// view-axis distance only; the slant range to an off-axis pixel is longer.
func (c Camera) DepthToDistance(d float64) float64 {
	return c.Near + d*(c.Far-c.Near)
}

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

// View is one observer's pose together with its camera.
type View struct {
	Pose
	Camera Camera
}

// ViewportPointToRay returns the ray through normalized viewport coordinates
// (u, v), where (0, 0) is the bottom-left corner and (1, 1) the top-right.
// The ray starts at the eye position.
func (v View) ViewportPointToRay(u, vp float64) Ray {
	tanY := math.Tan(v.Camera.HalfFieldOfView())
	aspect := v.Camera.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	sx := (2*u - 1) * tanY * aspect
	sy := (2*vp - 1) * tanY
	dir := r3.Add(v.Forward, r3.Add(r3.Scale(sx, v.Right()), r3.Scale(sy, v.Up)))
	return Ray{Origin: v.Position, Direction: r3.Unit(dir)}
}

// ViewDepth returns the distance of p along the view axis.
func (v View) ViewDepth(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, v.Position), v.Forward)
}
