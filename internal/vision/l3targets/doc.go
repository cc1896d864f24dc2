// Package l3targets owns Layer 3 (Targets) of the vision data model.
//
// Responsibilities: target identity, surface ownership, render/query layer
// masks, and the cheap distance + field-of-view range filter that narrows
// the roster before any pixel work.
// Key types: Target, TargetID, SurfaceID, LayerMask, Candidate.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4+.
package l3targets
