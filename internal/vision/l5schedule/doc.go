// Package l5schedule owns Layer 5 (Scheduling) of the vision data model.
//
// Responsibilities: spreading detection passes for many observers across
// ticks. Each Tick runs passes for the next N registered observers in
// round-robin order, so the per-tick cost is bounded by N rather than by the
// observer count.
// Key types: RoundRobin, Pass, ViewFunc.
//
// Dependency rule: L5 may depend on L1-L4.
package l5schedule
