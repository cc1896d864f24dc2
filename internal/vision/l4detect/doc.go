// Package l4detect owns Layer 4 (Detection) of the vision data model.
//
// Responsibilities: one visibility pass per observer query. The pass
// range-filters the roster, obtains an environment grid and a target grid,
// walks them in row-major order looking for pixels where a target surface is
// nearer than the environment, confirms each anomaly with one line-of-sight
// query, and suppresses the anomaly's whole silhouette with a scanline flood
// fill so the same blob is never confirmed twice.
// Key types: Detector, Query, Result, PassStats, RaycastDetector.
//
// Pass lifecycle is Idle -> Scanning -> Done. A pass runs to completion,
// owns (and resets) its scratch buffers, and leaves nothing behind but the
// returned Result.
//
// Dependency rule: L4 may depend on L1-L3, but never on L5.
package l4detect
