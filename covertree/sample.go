package covertree

import (
	"math/rand/v2"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/labels"
)

// Sample draws a synthetic (vector, label) pair from the tree's learned
// distribution (§6 public operation sample()). It descends from the root,
// choosing among the self-child and each sibling child with probability
// proportional to CoverageCount (plus the singleton bucket, weighted by
// singleton count), until it lands on a leaf or a singleton, then returns
// that point's stored coordinates and, if AttachLabels ran, its per-column
// label summary at the address it stopped on.
//
// The original generative sample() procedure samples a new vector near the
// chosen leaf rather than replaying a stored point; this is a best-effort
// substitute documented as such, since the exact generative model is only
// sketched in the source material this package was distilled from.
func (t *Tree) Sample() ([]float32, *labels.Summary, error) {
	if t.arena.Len() == 0 {
		return nil, nil, ErrEmptyTree
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return nil, nil, err
	}

	pi, addr, err := t.sampleRec(rootID)
	if err != nil {
		return nil, nil, err
	}

	p, err := t.store.Point(int(pi))
	if err != nil {
		return nil, nil, err
	}
	out := make([]float32, len(p))
	copy(out, p)

	var summary *labels.Summary
	if node, err := t.arena.Node(addr); err == nil && node.LabelSummary != nil {
		summary = node.LabelSummary.(*labels.Summary)
	}

	return out, summary, nil
}

func (t *Tree) sampleRec(id arena.NodeID) (int32, arena.Address, error) {
	node, ok := t.arena.Get(id)
	if !ok {
		return 0, arena.Address{}, ErrAddressNotFound
	}

	total := uint64(len(node.Singletons))
	type weighted struct {
		addr   arena.Address
		weight uint64
	}
	options := make([]weighted, 0, len(node.Children))
	for _, addr := range node.Children {
		cid, ok := t.arena.ByAddress(addr)
		if !ok {
			continue
		}
		child, ok := t.arena.Get(cid)
		if !ok {
			continue
		}
		w := child.CoverageCount
		options = append(options, weighted{addr: addr, weight: w})
		total += w
	}

	if total == 0 {
		return node.Addr.Point, node.Addr, nil
	}

	roll := rand.Uint64N(total)
	if roll < uint64(len(node.Singletons)) {
		return node.Singletons[roll], node.Addr, nil
	}
	roll -= uint64(len(node.Singletons))

	for _, opt := range options {
		if roll < opt.weight {
			cid, _ := t.arena.ByAddress(opt.addr)
			return t.sampleRec(cid)
		}
		roll -= opt.weight
	}

	return node.Addr.Point, node.Addr, nil
}
