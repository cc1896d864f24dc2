package l4detect

import (
	"errors"

	"github.com/banshee-data/sightline/internal/vision/l3targets"
)

// RaycastDetector is the single-ray alternative to Detector: after the range
// filter it casts one ray along the observer's forward vector. It only sees
// a target standing on the view axis, and serves as the cheap baseline the
// depth-grid pass is measured against.
type RaycastDetector struct {
	// Layers are the layers the forward ray collides with. Environment
	// surfaces in Layers block the ray.
	Layers l3targets.LayerMask

	candidates []l3targets.Candidate
	last       PassStats
}

// NewRaycastDetector returns a RaycastDetector that collides with both
// environment and target layers.
func NewRaycastDetector() *RaycastDetector {
	return &RaycastDetector{Layers: l3targets.LayerEnvironment | l3targets.LayerTargets}
}

// LastStats returns the statistics of the most recent pass.
func (r *RaycastDetector) LastStats() PassStats { return r.last }

// Detect runs one single-ray pass. The ray is bounded by the range limit
// distance. A hit counts when its owner is an in-range candidate whose
// bearing is strictly inside half the vertical field of view.
func (r *RaycastDetector) Detect(q Query) (*Result, error) {
	if q.LOS == nil {
		return nil, errors.New("query has no line-of-sight provider")
	}
	res := newResult(q.Observer)
	defer func() { r.last = res.Stats }()

	r.candidates = r.candidates[:0]
	if q.Roster != nil {
		r.candidates = rangeFilter(&q, r.candidates)
	}
	res.Stats.Candidates = len(r.candidates)
	if len(r.candidates) == 0 {
		return res, nil
	}

	lim := q.limits()
	res.Stats.ConfirmationQueries++
	hit, ok := q.LOS.Query(q.View.Position, q.View.Forward, lim.MaxDistance, r.Layers)
	if !ok {
		res.Stats.Misses++
		return res, nil
	}
	cand := r.match(hit.Surface, q.Owners)
	if cand == nil {
		res.Stats.UnownedHits++
		return res, nil
	}
	res.Stats.ConfirmedHits++
	if cand.Angle < q.View.Camera.HalfFieldOfView() {
		res.add(cand.ID)
	}
	return res, nil
}

func (r *RaycastDetector) match(surface l3targets.SurfaceID, owners l3targets.OwnerResolver) *l3targets.Candidate {
	for i := range r.candidates {
		if r.candidates[i].Owns(surface) {
			return &r.candidates[i]
		}
	}
	if owners == nil {
		return nil
	}
	id, ok := owners.OwnerOf(surface)
	if !ok {
		return nil
	}
	for i := range r.candidates {
		if r.candidates[i].ID == id {
			return &r.candidates[i]
		}
	}
	return nil
}
