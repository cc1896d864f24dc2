package l4detect

import (
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
)

func rangeFilter(q *Query, dst []l3targets.Candidate) []l3targets.Candidate {
	return l3targets.FilterInRange(q.View.Pose, q.Roster.Targets(), q.limits(), dst)
}

// resolver confirms anomalies against real geometry.
type resolver struct {
	q    *Query
	cfg  *Config
	s    *passScratch
	grid *l2depth.Grid
	res  *Result
}

// confirm casts through the centre of pixel (x, y). The query is bounded by
// the distance implied by the pixel's depth times ConfirmationRangeFactor.
// A miss or a hit on a surface no in-range candidate owns detects nothing.
func (r *resolver) confirm(x, y int) {
	u, v := r.grid.Viewport(x, y)
	ray := r.q.View.ViewportPointToRay(u, v)
	depth := float64(r.grid.At(x, y))
	maxDist := r.q.View.Camera.DepthToDistance(depth) * r.cfg.ConfirmationRangeFactor

	r.res.Stats.ConfirmationQueries++
	hit, ok := r.q.LOS.Query(ray.Origin, ray.Direction, maxDist, r.cfg.TargetLayers)
	if !ok {
		r.res.Stats.Misses++
		return
	}
	cand, ok := r.owner(hit.Surface)
	if !ok {
		r.res.Stats.UnownedHits++
		return
	}
	r.res.Stats.ConfirmedHits++
	if r.res.add(cand.ID) {
		monitoring.Debugf(r.cfg.Debug, "[l4detect] observer %s: target %s detected at pixel (%d,%d) distance %.2f",
			r.q.Observer, cand.ID, x, y, hit.Distance)
	}
}

// owner finds the in-range candidate owning surface. Surfaces listed on a
// candidate are matched first; otherwise the query's OwnerResolver is asked
// and its answer is accepted only if that target is in range.
func (r *resolver) owner(surface l3targets.SurfaceID) (*l3targets.Candidate, bool) {
	if i, ok := r.s.bySurface[surface]; ok {
		return &r.s.candidates[i], true
	}
	if r.q.Owners == nil {
		return nil, false
	}
	id, ok := r.q.Owners.OwnerOf(surface)
	if !ok {
		return nil, false
	}
	i, ok := r.s.byID[id]
	if !ok {
		return nil, false
	}
	return &r.s.candidates[i], true
}
