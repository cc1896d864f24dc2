package l1pose

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WorldUp is the default up vector. The world is Y-up.
var WorldUp = r3.Vec{X: 0, Y: 1, Z: 0}

// Pose is an observer's eye position with an orthonormal basis.
// Right is derived as Up × Forward, so with Forward=+Z and Up=+Y, Right=+X.
type Pose struct {
	Position r3.Vec
	Forward  r3.Vec
	Up       r3.Vec
}

// NewPose builds a Pose from a position, a facing direction and an up hint.
// The basis is re-orthonormalized; if up is parallel to forward a fallback
// axis is used so the result is always well formed.
func NewPose(position, forward, up r3.Vec) Pose {
	f := r3.Unit(forward)
	if math.IsNaN(f.X) {
		f = r3.Vec{Z: 1}
	}
	right := r3.Cross(up, f)
	if r3.Norm2(right) < 1e-12 {
		alt := r3.Vec{Z: 1}
		if math.Abs(f.Z) > 0.9 {
			alt = r3.Vec{X: 1}
		}
		right = r3.Cross(alt, f)
	}
	right = r3.Unit(right)
	return Pose{
		Position: position,
		Forward:  f,
		Up:       r3.Cross(f, right),
	}
}

// LookAt returns a Pose at position facing target, using WorldUp as the hint.
func LookAt(position, target r3.Vec) Pose {
	return NewPose(position, r3.Sub(target, position), WorldUp)
}

// Right returns the unit right vector of the pose.
func (p Pose) Right() r3.Vec {
	return r3.Cross(p.Up, p.Forward)
}

// AngleBetween returns the opening angle between a and b in radians.
// A zero-length argument yields 0.
func AngleBetween(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)
	// Clamp rounding noise so Acos never sees |c| > 1.
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
