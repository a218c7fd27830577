package covertree_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/covertree"
	"github.com/elastic/goko/pointstore"
)

func newStore(t *testing.T, points [][]float32) *pointstore.Store {
	t.Helper()
	dim := len(points[0])
	flat := make([]float32, 0, len(points)*dim)
	for _, p := range points {
		flat = append(flat, p...)
	}
	s, err := pointstore.NewInRAM(flat, len(points), dim, nil)
	require.NoError(t, err)

	return s
}

func TestBuildFourPointLine(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)
	require.EqualValues(t, 4, root.CoverageCount)
}

func TestBuildCoveringInvariant(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}, {3}, {10}, {11}, {12}, {30}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	for si := tree.Config().MinResIndex; si <= 20; si++ {
		for _, id := range tree.Arena().Layer(si) {
			node, ok := tree.Arena().Get(id)
			require.True(t, ok)
			radius := math.Pow(float64(cfg.ScaleBase), float64(si))
			for _, s := range node.Singletons {
				d, err := store.Distance(int(node.Addr.Point), int(s))
				require.NoError(t, err)
				require.LessOrEqual(t, float64(d), radius+1e-6)
			}
		}
	}
}

func TestBuildDoesNotDoubleCountElectedCenters(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}, {3}, {10}, {11}, {12}, {30}, {31}, {32}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2
	cfg.LeafCutoff = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)

	// A center elected during a split must never also land in its own
	// bucket's candidate list (INV-COUNT, §8): total coverage must equal
	// the point count exactly, not over-count any elected non-self center.
	require.EqualValues(t, store.Len(), root.CoverageCount)

	seen := make(map[int32]int)
	var walk func(id arena.NodeID)
	walk = func(id arena.NodeID) {
		node, ok := tree.Arena().Get(id)
		require.True(t, ok)
		if len(node.Children) == 0 {
			seen[node.Addr.Point]++
		}
		for _, s := range node.Singletons {
			seen[s]++
		}
		for _, addr := range node.Children {
			cid, ok := tree.Arena().ByAddress(addr)
			require.True(t, ok)
			walk(cid)
		}
	}
	walk(rootID)
	for pi := 0; pi < store.Len(); pi++ {
		require.Equalf(t, 1, seen[int32(pi)], "point %d must appear exactly once", pi)
	}
}

func TestBuildPartitionInvariant(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}, {3}, {10}, {11}, {12}, {30}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	seen := make(map[int32]int)
	rootID, err := tree.Arena().Root()
	require.NoError(t, err)

	// Each point index is counted exactly once: either as the center of a
	// leaf (the terminal node of its self-child chain) or as a singleton
	// of some node, never both (§3 invariant 4).
	var walk func(id arena.NodeID)
	walk = func(id arena.NodeID) {
		node, ok := tree.Arena().Get(id)
		require.True(t, ok)

		if len(node.Children) == 0 {
			seen[node.Addr.Point]++
		}
		for _, s := range node.Singletons {
			seen[s]++
		}
		for _, addr := range node.Children {
			cid, ok := tree.Arena().ByAddress(addr)
			require.True(t, ok)
			walk(cid)
		}
	}
	walk(rootID)

	for pi := 0; pi < store.Len(); pi++ {
		require.Equalf(t, 1, seen[int32(pi)], "point %d must appear exactly once", pi)
	}
}

func TestBuildDegenerateCoincidentPoints(t *testing.T) {
	store := newStore(t, [][]float32{{5}, {5}, {5}, {5}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)
	require.Empty(t, root.Children)
	require.Len(t, root.Singletons, 3)
	require.EqualValues(t, 4, root.CoverageCount)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 1

	_, err := covertree.Build(context.Background(), store, cfg, nil)
	require.ErrorIs(t, err, covertree.ErrInvalidConfig)
}

func TestBuildHonorsCancellation(t *testing.T) {
	points := make([][]float32, 2000)
	for i := range points {
		points[i] = []float32{float32(i)}
	}
	store := newStore(t, points)
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2
	cfg.LeafCutoff = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := covertree.Build(ctx, store, cfg, nil)
	require.ErrorIs(t, err, covertree.ErrCancelled)
}

func TestKNNContainsSelf(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}, {20}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	p, err := store.Point(2)
	require.NoError(t, err)
	neighbors, err := tree.KNN(p, 3)
	require.NoError(t, err)
	require.NotEmpty(t, neighbors)
	require.Equal(t, int32(2), neighbors[0].Point)
	require.Equal(t, float32(0), neighbors[0].Distance)
}

func TestKNNExactSmall(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}, {20}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	neighbors, err := tree.KNN([]float32{2}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	require.Equal(t, int32(1), neighbors[0].Point)
	require.Equal(t, float32(1), neighbors[0].Distance)
	require.Equal(t, float32(2), neighbors[1].Distance)
}

func TestPathDistancesFromRootToLeaf(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}, {20}, {21}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	path, err := tree.Path([]float32{21})
	require.NoError(t, err)
	require.NotEmpty(t, path)
}

func TestKnownPathConsistentWithPath(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}, {20}, {21}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	known, err := tree.KnownPath(5)
	require.NoError(t, err)
	require.NotEmpty(t, known)
	require.Equal(t, int32(5), known[len(known)-1].Addr.Point)
	require.Equal(t, float32(0), known[len(known)-1].Distance)

	p, err := store.Point(5)
	require.NoError(t, err)
	routed, err := tree.Path(p)
	require.NoError(t, err)
	require.Equal(t, len(routed), len(known))
	for i := range known {
		require.Equal(t, routed[i].Addr, known[i].Addr)
		require.InDelta(t, routed[i].Distance, known[i].Distance, 1e-6)
	}
}

func TestBuildHonorsInjectedPartitionScheme(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}, {3}, {10}, {11}, {12}, {30}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	var calls int
	cfg.Partition = func(store *pointstore.Store, centers []int32, candidate int32, radius float32) int {
		calls++
		best := 0
		bestDist := float32(-1)
		for i, c := range centers {
			d, err := store.Distance(int(c), int(candidate))
			require.NoError(t, err)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				best = i
			}
		}
		return best
	}

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)
	require.Greater(t, calls, 0)

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)
	require.EqualValues(t, store.Len(), root.CoverageCount)
}

func TestTreeExposesScaleAndLayerAccessors(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {4}, {9}, {20}, {21}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	top, err := tree.TopScale()
	require.NoError(t, err)
	bottom, err := tree.BottomScale()
	require.NoError(t, err)
	require.GreaterOrEqual(t, top, bottom)

	ids := tree.Layer(top)
	require.NotEmpty(t, ids)

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)

	node, err := tree.Node(root.Addr)
	require.NoError(t, err)
	require.Equal(t, root.Addr, node.Addr)
}

func TestKNNRejectsDimensionMismatch(t *testing.T) {
	store := newStore(t, [][]float32{{0, 0}, {1, 1}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	_, err = tree.KNN([]float32{1, 2, 3}, 1)
	require.ErrorIs(t, err, covertree.ErrDimensionMismatch)

	var mismatch covertree.DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 2, mismatch.Want)
	require.Equal(t, 3, mismatch.Got)
}

func TestKNNRejectsNonFiniteQuery(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	_, err = tree.KNN([]float32{float32(math.NaN())}, 1)
	require.ErrorIs(t, err, covertree.ErrInvalidPoint)

	_, err = tree.Path([]float32{float32(math.Inf(1))})
	require.ErrorIs(t, err, covertree.ErrInvalidPoint)
}

func TestKnownPathRejectsOutOfRangePoint(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	_, err = tree.KnownPath(99)
	require.ErrorIs(t, err, covertree.ErrAddressNotFound)
}
