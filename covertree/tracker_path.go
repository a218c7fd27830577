package covertree

import (
	"context"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/baseline"
	"github.com/elastic/goko/tracker"
)

// TrackerPath computes the routed path for point, annotated with the
// chosen bucket at each node (§4.F): bucket 0 is the singleton bucket
// c_0, buckets 1..m are 1-based indices into that node's Children. A node
// with no children terminates the path in bucket 0, since the point can
// only be attributed to the node's own singleton mass.
//
// This makes Tree satisfy tracker.PathSource and, via NumPoints/PointAt,
// baseline.Source, without either package importing covertree.
func (t *Tree) TrackerPath(point []float32) ([]tracker.Step, error) {
	if t.arena.Len() == 0 {
		return nil, ErrEmptyTree
	}
	if len(point) != t.store.Dim() {
		return nil, DimensionMismatchError{Want: t.store.Dim(), Got: len(point)}
	}
	if err := validateQuery(point); err != nil {
		return nil, err
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return nil, err
	}

	var path []tracker.Step
	id := rootID
	for {
		node, ok := t.arena.Get(id)
		if !ok {
			return nil, ErrAddressNotFound
		}

		masses := make([]uint64, 1+len(node.Children))
		masses[0] = uint64(len(node.Singletons))
		for i, addr := range node.Children {
			cid, ok := t.arena.ByAddress(addr)
			if !ok {
				continue
			}
			child, ok := t.arena.Get(cid)
			if !ok {
				continue
			}
			masses[i+1] = child.CoverageCount
		}

		if len(node.Children) == 0 {
			path = append(path, tracker.Step{Addr: node.Addr, Bucket: 0, BucketMasses: masses})
			break
		}

		bestIdx := -1
		bestID := arena.NodeID(-1)
		var bestDist float32
		var bestPoint int32
		for i, addr := range node.Children {
			cid, ok := t.arena.ByAddress(addr)
			if !ok {
				continue
			}
			d, err := t.store.DistanceToQuery(point, int(addr.Point))
			if err != nil {
				return nil, err
			}
			if bestIdx < 0 || d < bestDist || (d == bestDist && addr.Point < bestPoint) {
				bestIdx = i
				bestID = cid
				bestDist = d
				bestPoint = addr.Point
			}
		}

		path = append(path, tracker.Step{Addr: node.Addr, Bucket: bestIdx + 1, BucketMasses: masses})
		id = bestID
	}

	return path, nil
}

// NumPoints is the number of points in the tree's backing store, completing
// baseline.Source.
func (t *Tree) NumPoints() int { return t.store.Len() }

// PointAt returns point pi's stored coordinates, completing
// baseline.Source.
func (t *Tree) PointAt(pi int) ([]float32, error) { return t.store.Point(pi) }

// KLDivDirichlet returns a fresh Tracker reading paths from this tree
// (§6's kl_div_dirichlet operation).
func (t *Tree) KLDivDirichlet(priorWeight, obsWeight float64, windowSize int) *tracker.Tracker {
	return tracker.New(t, tracker.Config{
		PriorWeight:       priorWeight,
		ObservationWeight: obsWeight,
		WindowSize:        windowSize,
	})
}

// KLDivDirichletBaseline runs the Monte-Carlo baseline simulator over this
// tree (§6's kl_div_dirichlet_baseline operation).
func (t *Tree) KLDivDirichletBaseline(ctx context.Context, priorWeight, obsWeight float64, windowSize, sequenceCount, sampleRate int) (*baseline.Baseline, error) {
	return baseline.Simulate(ctx, t, baseline.Config{
		PriorWeight:       priorWeight,
		ObservationWeight: obsWeight,
		WindowSize:        windowSize,
		SequenceCount:     sequenceCount,
		SampleRate:        sampleRate,
	})
}
