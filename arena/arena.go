package arena

import "sort"

// Append commits a batch of nodes to the arena, returning the NodeID
// assigned to each (same order as the input slice). Safe to call
// concurrently from multiple builder tasks: the whole batch is committed
// under a single lock acquisition, so a parallel builder should batch an
// entire subtree's nodes into one Append call rather than appending node
// by node (§5: "writes go to a per-task node buffer that is committed to
// the arena under a single append lock").
//
// Nodes within a batch are sorted by Address before assignment so that the
// resulting by_address/by_layer contents never depend on goroutine
// scheduling order, only on the input batches themselves (§4.C
// "Determinism").
func (a *Arena) Append(batch []Node) ([]NodeID, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	sorted := make([]Node, len(batch))
	copy(sorted, batch)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Addr.Scale != sorted[j].Addr.Scale {
			return sorted[i].Addr.Scale < sorted[j].Addr.Scale
		}
		return sorted[i].Addr.Point < sorted[j].Addr.Point
	})

	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make(map[Address]NodeID, len(sorted))
	for _, n := range sorted {
		id := NodeID(len(a.nodes))
		a.nodes = append(a.nodes, n)
		a.byAddress[n.Addr] = id
		a.byLayer[n.Addr.Scale] = append(a.byLayer[n.Addr.Scale], id)
		ids[n.Addr] = id
	}

	// Return assigned ids in the caller's original (unsorted) order.
	out := make([]NodeID, len(batch))
	for i, n := range batch {
		out[i] = ids[n.Addr]
	}

	return out, nil
}

// Get returns the node with the given NodeID.
func (a *Arena) Get(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil, false
	}

	return &a.nodes[id], true
}

// ByAddress resolves an Address to its NodeID.
func (a *Arena) ByAddress(addr Address) (NodeID, bool) {
	id, ok := a.byAddress[addr]

	return id, ok
}

// Node resolves an Address directly to its Node, or ErrAddressNotFound.
func (a *Arena) Node(addr Address) (*Node, error) {
	id, ok := a.byAddress[addr]
	if !ok {
		return nil, ErrAddressNotFound
	}

	return &a.nodes[id], nil
}

// Len returns the number of nodes committed so far.
func (a *Arena) Len() int { return len(a.nodes) }

// Finalize marks the build phase complete and records the root address and
// the top/bottom scale indices. It must be called exactly once, after every
// Append has returned, before the arena is shared across query/tracker
// goroutines.
func (a *Arena) Finalize(root Address) error {
	rootID, ok := a.byAddress[root]
	if !ok {
		return ErrAddressNotFound
	}

	top := root.Scale
	bottom := root.Scale
	for scale := range a.byLayer {
		if scale > top {
			top = scale
		}
		if scale < bottom {
			bottom = scale
		}
	}

	a.rootID = rootID
	a.topScale = top
	a.bottomScale = bottom
	a.finalized = true

	return nil
}

// Root returns the root node's ID. Requires Finalize to have run.
func (a *Arena) Root() (NodeID, error) {
	if !a.finalized {
		return 0, ErrNotFinalized
	}
	if len(a.nodes) == 0 {
		return 0, ErrEmptyArena
	}

	return a.rootID, nil
}

// TopScale returns the coarsest scale index present in the tree.
func (a *Arena) TopScale() (int32, error) {
	if !a.finalized {
		return 0, ErrNotFinalized
	}

	return a.topScale, nil
}

// BottomScale returns the finest scale index present in the tree.
func (a *Arena) BottomScale() (int32, error) {
	if !a.finalized {
		return 0, ErrNotFinalized
	}

	return a.bottomScale, nil
}

// Layer returns every NodeID at the given scale index. Iteration order
// within a layer is unspecified (§9: "iteration order within a layer is
// unspecified and tests must not depend on it").
func (a *Arena) Layer(si int32) []NodeID {
	ids := a.byLayer[si]
	out := make([]NodeID, len(ids))
	copy(out, ids)

	return out
}
