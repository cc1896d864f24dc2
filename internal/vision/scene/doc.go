// Package scene provides software reference collaborators for the detection
// pass: a scene of spheres and axis-aligned boxes that renders normalized
// depth grids on the CPU and answers nearest-hit line-of-sight queries.
//
// Every query is a brute-force loop over all surfaces. Tests, benchmarks
// and the visbench CLI use it; a real integration supplies its own renderer
// and physics query.
//
// Dependency rule: scene may import the vision layers; no layer imports scene.
package scene
