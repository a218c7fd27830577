// Package covertree builds and queries a cover tree: a hierarchical,
// distance-based spatial index over a fixed point set (§2-§4 of the
// specification this module implements).
//
// Build constructs a Tree from a pointstore.Store with a parallel,
// top-down algorithm that maintains the covering and separation
// invariants at every scale. Once built, a Tree is immutable and
// shareable across any number of reader goroutines: KNN, RoutingKNN,
// Path, and KnownPath all navigate the same arena.Arena without locks.
//
// A Tree is also the entry point for the two drift-detection
// subsystems: KLDivDirichlet returns a tracker.Tracker bound to this
// tree, and KLDivDirichletBaseline runs the Monte-Carlo baseline
// simulator (package baseline) over synthetic streams drawn from the
// tree's own training distribution.
package covertree
