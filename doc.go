// Package goko is the core indexing and drift-detection engine behind a
// library for approximate nearest-neighbor search and streaming
// distribution-shift monitoring over high-dimensional point sets.
//
// 🚀 What is goko?
//
//	A cover-tree index over a fixed point set, plus a family of online
//	Bayesian trackers that compare a stream of query points against the
//	tree's empirical distribution to detect drift or adversarial test-set
//	replay:
//
//	  • Point store:  immutable, indexed float vectors + injectable metric
//	  • Node arena:   flat, address-keyed storage for the built tree
//	  • Cover tree:   parallel top-down builder + k-NN/routing/path queries
//	  • Tracker:      sliding-window Dirichlet-categorical KL divergence
//	  • Baseline:     Monte-Carlo floor for normalizing live tracker output
//
// Under the hood, everything is organized under seven subpackages:
//
//	pointstore/ — packed float vectors, RAM or memory-mapped, metric evaluation
//	arena/      — node storage, address → node_id lookup, layer iteration
//	covertree/  — the builder, the query surface, and the Tree type gluing both
//	tracker/    — per-stream Dirichlet-categorical drift tracker
//	baseline/   — synthetic Monte-Carlo baseline generator
//	labels/     — optional per-point tabular label summaries
//	config/     — key/value configuration document loading
//
// The tree is immutable once built: there is no dynamic insertion or
// deletion, no exact furthest-neighbor query, and no learned metric beyond
// an injected callable satisfying the triangle inequality.
//
//	go get github.com/elastic/goko
package goko
