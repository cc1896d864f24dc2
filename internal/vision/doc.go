// Package vision is the root of the depth-buffer visibility subsystem.
//
// The subsystem answers one question per query: which tracked targets can a
// single observer see right now. It does so by differencing an
// occluders-only depth grid against a targets-only depth grid, confirming
// each anomaly with one line-of-sight query, and suppressing the rest of the
// anomaly's silhouette with a scanline flood fill.
//
// Layers, leaves first:
//
//	l1pose     observer pose, camera model, viewport rays
//	l2depth    depth grids
//	l3targets  target roster, surface ownership, range filter
//	l4detect   differencer, flood fill, confirmation, detection pass
//	l5schedule round-robin observer scheduling
//
// Dependency rule: a layer may import lower layers only. The scene, bench,
// monitor and storage packages sit outside the stack and may import any
// layer; no layer imports them.
package vision
