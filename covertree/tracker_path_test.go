package covertree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/baseline"
	"github.com/elastic/goko/covertree"
	"github.com/elastic/goko/pointstore"
)

func newClusteredStore(t *testing.T) *pointstore.Store {
	t.Helper()
	points := make([][]float32, 0, 60)
	for i := 0; i < 30; i++ {
		points = append(points, []float32{float32(i%3) * 10})
	}
	for i := 0; i < 30; i++ {
		points = append(points, []float32{100 + float32(i%3)})
	}

	return newStore(t, points)
}

func TestTreeSatisfiesTrackerAndBaselineInterfaces(t *testing.T) {
	store := newClusteredStore(t)
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	var _ baseline.Source = tree

	path, err := tree.TrackerPath([]float32{10})
	require.NoError(t, err)
	require.NotEmpty(t, path)

	tr := tree.KLDivDirichlet(1.0, 1.0, 20)
	for i := 0; i < 10; i++ {
		require.NoError(t, tr.Push([]float32{10}))
	}
	stats := tr.Stats()
	require.GreaterOrEqual(t, stats.NzCount, 1.0)
}

func TestTreeBaselineSimulate(t *testing.T) {
	store := newClusteredStore(t)
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	b, err := tree.KLDivDirichletBaseline(context.Background(), 1.0, 1.0, 20, 6, 5)
	require.NoError(t, err)

	stats := b.Stats(20)
	require.GreaterOrEqual(t, stats.Mean.SequenceLen, 0.0)
}
