package l3targets

import "gonum.org/v1/gonum/spatial/r3"

// TargetID identifies a tracked entity.
type TargetID string

// SurfaceID identifies one collidable surface. A target owns one or more.
type SurfaceID uint32

// LayerMask selects which surfaces a render or query considers.
type LayerMask uint32

const (
	// LayerEnvironment holds static occluders.
	LayerEnvironment LayerMask = 1 << iota
	// LayerTargets holds tracked entities.
	LayerTargets

	LayerNone LayerMask = 0
	LayerAll  LayerMask = ^LayerMask(0)
)

// Has reports whether m includes any layer in o.
func (m LayerMask) Has(o LayerMask) bool {
	return m&o != 0
}

// Target is one roster entry: an identity, its world position and the
// surfaces it owns.
type Target struct {
	ID       TargetID
	Position r3.Vec
	Surfaces []SurfaceID
}

// Owns reports whether s is one of the target's surfaces.
func (t *Target) Owns(s SurfaceID) bool {
	for _, own := range t.Surfaces {
		if own == s {
			return true
		}
	}
	return false
}

// Candidate is a target that passed the range filter, with its distance and
// bearing from the observer.
type Candidate struct {
	*Target
	Distance float64
	Angle    float64 // radians between observer forward and direction to target
}

// Roster exposes the full set of active targets. Implementations return a
// snapshot the caller must not mutate.
type Roster interface {
	Targets() []Target
}

// OwnerResolver maps a surface back to the target that owns it.
type OwnerResolver interface {
	OwnerOf(SurfaceID) (TargetID, bool)
}

// StaticRoster is a fixed slice of targets.
type StaticRoster []Target

// Targets implements Roster.
func (r StaticRoster) Targets() []Target { return r }

// SurfaceIndex is an OwnerResolver built from a target list.
type SurfaceIndex map[SurfaceID]TargetID

// NewSurfaceIndex indexes every surface of every target. When two targets
// claim the same surface the first one wins.
func NewSurfaceIndex(targets []Target) SurfaceIndex {
	idx := make(SurfaceIndex)
	for i := range targets {
		for _, s := range targets[i].Surfaces {
			if _, ok := idx[s]; !ok {
				idx[s] = targets[i].ID
			}
		}
	}
	return idx
}

// OwnerOf implements OwnerResolver.
func (idx SurfaceIndex) OwnerOf(s SurfaceID) (TargetID, bool) {
	id, ok := idx[s]
	return id, ok
}
