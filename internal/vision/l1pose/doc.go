// Package l1pose owns Layer 1 (Pose) of the vision data model.
//
// Responsibilities: observer position and orientation, the perspective
// camera model, conversion between normalized depth and view distance, and
// viewport-to-ray synthesis for confirmation queries.
// Key types: Pose, Camera, View, Ray.
//
// Dependency rule: L1 has no inward dependencies on higher layers.
package l1pose
