package scene

import (
	"math"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"gonum.org/v1/gonum/spatial/r3"
)

// Shape is a closed convex solid a ray can enter and leave.
type Shape interface {
	// Intersect returns the entry and exit distances along ray. tNear may
	// be negative when the ray starts inside the shape.
	Intersect(ray l1pose.Ray) (tNear, tFar float64, ok bool)
}

// Sphere is a ball of radius Radius around Center.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// Intersect implements Shape.
func (s Sphere) Intersect(ray l1pose.Ray) (float64, float64, bool) {
	oc := r3.Sub(ray.Origin, s.Center)
	b := r3.Dot(oc, ray.Direction)
	c := r3.Dot(oc, oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t0, t1 := -b-sq, -b+sq
	if t1 < 0 {
		return 0, 0, false
	}
	return t0, t1, true
}

// Box is an axis-aligned box.
type Box r3.Box

// NewBox returns the box spanning the two corners in any order.
func NewBox(a, b r3.Vec) Box {
	return Box(r3.NewBox(a.X, a.Y, a.Z, b.X, b.Y, b.Z))
}

// Intersect implements Shape using the slab method.
func (bx Box) Intersect(ray l1pose.Ray) (float64, float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	o := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{bx.Min.X, bx.Min.Y, bx.Min.Z}
	hi := [3]float64{bx.Max.X, bx.Max.Y, bx.Max.Z}
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
	}
	if tMax < tMin || tMax < 0 {
		return 0, 0, false
	}
	return tMin, tMax, true
}
