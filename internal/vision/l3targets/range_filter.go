package l3targets

import (
	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"gonum.org/v1/gonum/spatial/r3"
)

// RangeLimits bound the plausible-visibility test.
type RangeLimits struct {
	MaxDistance  float64 // straight-line metres
	MaxHalfAngle float64 // radians from the observer forward vector
}

// LimitsForCamera derives range limits from a camera: the far clip plane and
// the half-angle of the cone enclosing the frustum.
func LimitsForCamera(c l1pose.Camera) RangeLimits {
	return RangeLimits{MaxDistance: c.Far, MaxHalfAngle: c.ConeHalfAngle()}
}

// FilterInRange appends to dst every target whose distance from the observer
// is <= MaxDistance and whose bearing off the observer forward vector is
// <= MaxHalfAngle, and returns the extended slice. It does not test
// occlusion and never mutates targets.
//
// The bearing is measured between pose.Forward and (target - eye). A target
// at the eye position has no bearing and is kept.
func FilterInRange(pose l1pose.Pose, targets []Target, lim RangeLimits, dst []Candidate) []Candidate {
	for i := range targets {
		t := &targets[i]
		toTarget := r3.Sub(t.Position, pose.Position)
		dist := r3.Norm(toTarget)
		if dist > lim.MaxDistance {
			continue
		}
		angle := l1pose.AngleBetween(pose.Forward, toTarget)
		if angle > lim.MaxHalfAngle {
			continue
		}
		dst = append(dst, Candidate{Target: t, Distance: dist, Angle: angle})
	}
	return dst
}
