package l4detect

import (
	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
	"gonum.org/v1/gonum/spatial/r3"
)

// DepthRenderer produces a normalized depth grid of the surfaces in layers as
// seen from view. dst is already sized; the renderer must write every cell
// and use l2depth.FarDepth where nothing is visible.
type DepthRenderer interface {
	RenderDepth(view l1pose.View, layers l3targets.LayerMask, dst *l2depth.Grid) error
}

// Hit is the nearest surface found by a line-of-sight query.
type Hit struct {
	Surface  l3targets.SurfaceID
	Distance float64
}

// LineOfSight casts a ray against real geometry. direction is a unit vector;
// only surfaces in layers within maxDistance are considered.
type LineOfSight interface {
	Query(origin, direction r3.Vec, maxDistance float64, layers l3targets.LayerMask) (Hit, bool)
}

// Query is everything one pass needs. It is passed explicitly to every
// invocation; a pass reads it and never mutates it.
type Query struct {
	Observer string
	View     l1pose.View
	Roster   l3targets.Roster
	LOS      LineOfSight

	// Renderer is required by Detect only.
	Renderer DepthRenderer
	// Owners is consulted when a hit surface is not listed on any candidate.
	Owners l3targets.OwnerResolver
	// Limits overrides the camera-derived range limits when non-nil.
	Limits *l3targets.RangeLimits
}

func (q *Query) limits() l3targets.RangeLimits {
	if q.Limits != nil {
		return *q.Limits
	}
	return l3targets.LimitsForCamera(q.View.Camera)
}
