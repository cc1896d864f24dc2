// Package l2depth owns Layer 2 (Depth) of the vision data model.
//
// Responsibilities: the row-major normalized depth grid shared by the
// renderer and the detection core, grid sizing, and the size precondition
// between the environment and target grids of one pass.
// Key types: Grid, PixelCoord.
//
// Dependency rule: L2 may depend on L1, but never on L3+.
package l2depth
