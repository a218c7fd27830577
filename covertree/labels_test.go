package covertree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/covertree"
	"github.com/elastic/goko/labels"
)

func TestAttachLabelsFoldsBottomUp(t *testing.T) {
	store := newStore(t, [][]float32{{0}, {1}, {2}, {3}, {40}, {41}})
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = 2

	tree, err := covertree.Build(context.Background(), store, cfg, nil)
	require.NoError(t, err)

	schema := labels.Schema{"score": labels.ColumnF64}
	records := make([]*labels.Record, store.Len())
	for pi := 0; pi < store.Len(); pi++ {
		records[pi] = &labels.Record{Index: pi, Values: map[string]interface{}{"score": float64(pi)}}
	}

	require.NoError(t, tree.AttachLabels(schema, records))

	rootID, err := tree.Arena().Root()
	require.NoError(t, err)
	root, ok := tree.Arena().Get(rootID)
	require.True(t, ok)

	summary := root.LabelSummary.(*labels.Summary)
	require.EqualValues(t, store.Len(), summary.Columns["score"].Numeric.Count)
}

func TestLabelsToDense(t *testing.T) {
	records := map[int]labels.Record{
		0: {Index: 0, Values: map[string]interface{}{"x": int32(1)}},
		2: {Index: 2, Values: map[string]interface{}{"x": int32(2)}},
	}

	dense := labels.ToDense(records, 4)
	require.Len(t, dense, 4)
	require.NotNil(t, dense[0])
	require.Nil(t, dense[1])
	require.NotNil(t, dense[2])
	require.Nil(t, dense[3])
}
