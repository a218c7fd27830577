package covertree

import (
	"fmt"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/labels"
	"github.com/elastic/goko/pointstore"
)

// PartitionScheme assigns one candidate point to the index of its chosen
// center in centers, which holds every elected center (the self-child
// center included) sorted by ascending point index. When no scheme is set,
// the builder's own nearest-center rule is used, breaking ties toward the
// lowest point index (§4.C.4c).
//
// partition_scheme is an injectable seam per §4.C/§9, mirroring how Metric
// is injectable; the nearest-center rule is the only scheme this package
// ships.
type PartitionScheme func(store *pointstore.Store, centers []int32, candidate int32, radius float32) int

// BuildConfig configures Build, mirroring the recognized configuration keys
// of §6 (scale_base, leaf_cutoff, resolution/min_res_index, use_singletons).
type BuildConfig struct {
	// ScaleBase is the geometric base for covering radii; must be > 1.
	ScaleBase float32

	// LeafCutoff stops splitting a node once its covered set has this many
	// points or fewer.
	LeafCutoff int

	// MinResIndex is the lower bound on scale index si below which the
	// builder refuses to split further.
	MinResIndex int32

	// UseSingletons, when false, still tracks singletons on each leaf but
	// KNN no longer admits them as candidates (RoutingKNN never does).
	UseSingletons bool

	// Partition selects the per-split assignment rule. Nil selects the
	// built-in nearest-center rule.
	Partition PartitionScheme

	// RootPoint is the deterministic choice of pi0 (§4.C.1); defaults to 0.
	RootPoint int32

	// Parallelism bounds the number of concurrent split tasks; <= 0 means
	// runtime.GOMAXPROCS(0).
	Parallelism int

	// Verbosity controls builder log detail (§6 verbosity key): 0 is
	// silent, 1 logs one summary line when the build completes, 2 adds
	// per-split detail.
	Verbosity uint8
}

// DefaultBuildConfig returns sensible defaults: ScaleBase 2, LeafCutoff 1,
// MinResIndex -30, and UseSingletons on.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		ScaleBase:     2,
		LeafCutoff:    1,
		MinResIndex:   -30,
		UseSingletons: true,
	}
}

// Tree is an immutable, built cover tree: a point store, its arena of
// nodes, and the configuration it was built with. Once Build returns
// successfully, a Tree is safe for concurrent read access (queries,
// trackers, the baseline simulator) from any number of goroutines.
type Tree struct {
	store  *pointstore.Store
	arena  *arena.Arena
	cfg    BuildConfig
	schema labels.Schema
}

// Config returns the BuildConfig this tree was constructed with.
func (t *Tree) Config() BuildConfig { return t.cfg }

// Store returns the tree's underlying point store.
func (t *Tree) Store() *pointstore.Store { return t.store }

// Arena returns the tree's underlying node arena.
func (t *Tree) Arena() *arena.Arena { return t.arena }

// Node returns the node at addr, one of §6's public operations exposed
// directly on Tree rather than only through Arena().
func (t *Tree) Node(addr arena.Address) (*arena.Node, error) {
	n, err := t.arena.Node(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAddressNotFound, err)
	}

	return n, nil
}

// Layer returns every node id at scale index si.
func (t *Tree) Layer(si int32) []arena.NodeID {
	return t.arena.Layer(si)
}

// TopScale returns the root's scale index, the coarsest layer in the tree.
func (t *Tree) TopScale() (int32, error) {
	return t.arena.TopScale()
}

// BottomScale returns the finest (most negative) scale index any node
// occupies.
func (t *Tree) BottomScale() (int32, error) {
	return t.arena.BottomScale()
}
