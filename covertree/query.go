package covertree

import (
	"container/heap"

	"github.com/elastic/goko/arena"
)

// Neighbor is one result of a k-NN query: a point index and its distance to
// the query vector.
type Neighbor struct {
	Point    int32
	Distance float32
}

// Step is one hop of a routed path: the address visited and the query's
// distance to that address's center.
type Step struct {
	Addr     arena.Address
	Distance float32
}

// neighborHeap is a bounded max-heap on Distance, keeping the k smallest
// distances seen so far (root is the current worst of the k kept).
type neighborHeap []Neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNN returns the k nearest points to q, pruned by the triangle inequality
// against each child's covering radius (§4.D). Centers are always admitted
// as candidates; singletons are admitted when the tree's BuildConfig has
// UseSingletons set.
func (t *Tree) KNN(q []float32, k int) ([]Neighbor, error) {
	return t.knn(q, k, t.cfg.UseSingletons)
}

// RoutingKNN is KNN restricted to center points: singletons are never
// admitted into the candidate set, only used to find "representative"
// neighbors (§4.D).
func (t *Tree) RoutingKNN(q []float32, k int) ([]Neighbor, error) {
	return t.knn(q, k, false)
}

func (t *Tree) knn(q []float32, k int, admitSingletons bool) ([]Neighbor, error) {
	if t.arena.Len() == 0 {
		return nil, ErrEmptyTree
	}
	if len(q) != t.store.Dim() {
		return nil, DimensionMismatchError{Want: t.store.Dim(), Got: len(q)}
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return nil, err
	}

	h := &neighborHeap{}
	heap.Init(h)

	if err := t.knnVisit(q, rootID, h, k, admitSingletons); err != nil {
		return nil, err
	}

	out := make([]Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Neighbor)
	}

	return out, nil
}

func (t *Tree) knnVisit(q []float32, id arena.NodeID, h *neighborHeap, k int, admitSingletons bool) error {
	node, ok := t.arena.Get(id)
	if !ok {
		return ErrAddressNotFound
	}

	admit := func(pi int32) error {
		d, err := t.store.DistanceToQuery(q, int(pi))
		if err != nil {
			return err
		}
		t.admitCandidate(h, k, Neighbor{Point: pi, Distance: d})
		return nil
	}

	if err := admit(node.Addr.Point); err != nil {
		return err
	}
	if admitSingletons {
		for _, s := range node.Singletons {
			if err := admit(s); err != nil {
				return err
			}
		}
	}

	type childDist struct {
		id arena.NodeID
		d  float32
	}
	children := make([]childDist, 0, len(node.Children))
	for _, addr := range node.Children {
		cid, ok := t.arena.ByAddress(addr)
		if !ok {
			continue
		}
		d, err := t.store.DistanceToQuery(q, int(addr.Point))
		if err != nil {
			return err
		}
		children = append(children, childDist{id: cid, d: d})
	}

	for _, c := range children {
		childNode, ok := t.arena.Get(c.id)
		if !ok {
			continue
		}
		radius := coveringRadius(t.cfg.ScaleBase, childNode.Addr.Scale)
		if h.Len() >= k {
			worst := (*h)[0].Distance
			if c.d-radius >= worst {
				continue
			}
		}
		if err := t.knnVisit(q, c.id, h, k, admitSingletons); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tree) admitCandidate(h *neighborHeap, k int, n Neighbor) {
	// A center is visited once per node of its self-child chain; keep one
	// entry per point.
	for _, e := range *h {
		if e.Point == n.Point {
			return
		}
	}
	if h.Len() < k {
		heap.Push(h, n)
		return
	}
	if n.Distance < (*h)[0].Distance {
		heap.Pop(h)
		heap.Push(h, n)
	}
}

// Path returns the ordered sequence of steps the routing rule visits for
// query vector q, from root to leaf (§4.D).
func (t *Tree) Path(q []float32) ([]Step, error) {
	if t.arena.Len() == 0 {
		return nil, ErrEmptyTree
	}
	if len(q) != t.store.Dim() {
		return nil, DimensionMismatchError{Want: t.store.Dim(), Got: len(q)}
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return nil, err
	}

	var path []Step
	id := rootID
	for {
		node, ok := t.arena.Get(id)
		if !ok {
			return nil, ErrAddressNotFound
		}
		d, err := t.store.DistanceToQuery(q, int(node.Addr.Point))
		if err != nil {
			return nil, err
		}
		path = append(path, Step{Addr: node.Addr, Distance: d})

		if len(node.Children) == 0 {
			break
		}

		bestID := arena.NodeID(-1)
		var bestDist float32
		var bestPoint int32
		for _, addr := range node.Children {
			cid, ok := t.arena.ByAddress(addr)
			if !ok {
				continue
			}
			cd, err := t.store.DistanceToQuery(q, int(addr.Point))
			if err != nil {
				return nil, err
			}
			if bestID < 0 || cd < bestDist || (cd == bestDist && addr.Point < bestPoint) {
				bestID = cid
				bestDist = cd
				bestPoint = addr.Point
			}
		}
		if bestID < 0 {
			break
		}
		id = bestID
	}

	return path, nil
}

// KnownPath returns the path for a point already present in the store
// without computing any distance to points outside that path: it follows
// the stored parent-to-child lineage for pi directly (§4.D).
func (t *Tree) KnownPath(pi int32) ([]Step, error) {
	if t.arena.Len() == 0 {
		return nil, ErrEmptyTree
	}
	if pi < 0 || int(pi) >= t.store.Len() {
		return nil, ErrAddressNotFound
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return nil, err
	}

	var path []Step
	id := rootID
	for {
		node, ok := t.arena.Get(id)
		if !ok {
			return nil, ErrAddressNotFound
		}
		d, err := t.store.Distance(int(pi), int(node.Addr.Point))
		if err != nil {
			return nil, err
		}
		path = append(path, Step{Addr: node.Addr, Distance: d})

		if node.Addr.Point == pi {
			if node.HasSelfChild {
				next, ok := t.arena.ByAddress(node.SelfChild)
				if ok {
					id = next
					continue
				}
			}
			break
		}

		isSingleton := false
		for _, s := range node.Singletons {
			if s == pi {
				isSingleton = true
				break
			}
		}
		if isSingleton {
			break
		}

		next := arena.NodeID(-1)
		for _, addr := range node.Children {
			if addr.Point == pi {
				cid, ok := t.arena.ByAddress(addr)
				if ok {
					next = cid
				}
				break
			}
		}
		if next < 0 {
			break
		}
		id = next
	}

	return path, nil
}
