// Package arena owns every node of a built cover tree: a flat, indexable
// container plus two lookup indices, by_address (scale, point) -> node_id
// and by_layer scale -> set of node_id (§4.B).
//
// Per §9's design note, node_id is a dense int32 assigned at build time
// rather than a hash-map key, so the tracker and query engine can use flat
// arrays instead of address-keyed maps wherever a hot path allows it.
// Children and the self-child are stored as addresses, not pointers, so
// nodes remain position-independent and the arena can be grown by batched,
// lock-protected appends from parallel builder tasks.
//
// After the build phase finishes, Finalize freezes the arena: Root,
// TopScale, BottomScale, and Layer become stable, and every further
// operation is a lock-free read, safe from any number of goroutines.
package arena
