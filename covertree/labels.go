package covertree

import (
	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/labels"
)

// AttachLabels folds a per-point label table bottom-up into every node's
// LabelSummary, matching §4.E: a leaf summarizes its own covered points
// (center plus singletons); an internal node merges its children's
// already-computed summaries plus its own singleton contributions.
//
// records is indexed by point index; a record may be nil for points with no
// label row. AttachLabels must run after Build returns and before the tree
// is shared with readers expecting LabelSummary to be populated, since it
// mutates nodes in place.
func (t *Tree) AttachLabels(schema labels.Schema, records []*labels.Record) error {
	if t.arena.Len() == 0 {
		return ErrEmptyTree
	}

	t.schema = schema

	rootID, err := t.arena.Root()
	if err != nil {
		return err
	}

	_, err = attachLabelsRec(t.arena, schema, records, rootID)
	return err
}

func attachLabelsRec(ar *arena.Arena, schema labels.Schema, records []*labels.Record, id arena.NodeID) (*labels.Summary, error) {
	node, ok := ar.Get(id)
	if !ok {
		return nil, ErrAddressNotFound
	}

	summary := labels.NewSummary(schema)
	observe := func(pi int32) {
		if int(pi) < len(records) && records[pi] != nil {
			summary.Observe(*records[pi])
		}
	}

	// The center point is only observed at the terminal node of its
	// self-child chain (a leaf); every other node along that chain shares
	// the same center and must not re-count it (§3 invariant 4, §4.E
	// "leaves summarize their own covered points; internal nodes combine
	// child summaries plus their own singleton contributions").
	if len(node.Children) == 0 {
		observe(node.Addr.Point)
	}
	for _, s := range node.Singletons {
		observe(s)
	}

	for _, addr := range node.Children {
		cid, ok := ar.ByAddress(addr)
		if !ok {
			continue
		}
		childSummary, err := attachLabelsRec(ar, schema, records, cid)
		if err != nil {
			return nil, err
		}
		summary.Merge(childSummary)
	}

	node.LabelSummary = summary

	return summary, nil
}

// LabelSummary returns the label summary cached at addr, or nil if
// AttachLabels has not been called.
func (t *Tree) LabelSummary(addr arena.Address) (*labels.Summary, error) {
	node, err := t.arena.Node(addr)
	if err != nil {
		return nil, err
	}
	if node.LabelSummary == nil {
		return nil, nil
	}

	return node.LabelSummary.(*labels.Summary), nil
}
