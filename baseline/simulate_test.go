package baseline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/baseline"
	"github.com/elastic/goko/tracker"
)

// fakeTree is a minimal baseline.Source: every point routes to the same
// single node with two buckets, alternating by parity.
type fakeTree struct {
	n int
}

func (f *fakeTree) NumPoints() int { return f.n }

func (f *fakeTree) PointAt(pi int) ([]float32, error) {
	return []float32{float32(pi)}, nil
}

func (f *fakeTree) TrackerPath(point []float32) ([]tracker.Step, error) {
	bucket := 0
	if int(point[0])%2 == 0 {
		bucket = 1
	}
	return []tracker.Step{{
		Addr:         arena.Address{Scale: 0, Point: 0},
		Bucket:       bucket,
		BucketMasses: []uint64{5, 5},
	}}, nil
}

func TestSimulateProducesInterpolatableBaseline(t *testing.T) {
	src := &fakeTree{n: 50}
	cfg := baseline.Config{
		PriorWeight:       1,
		ObservationWeight: 1,
		WindowSize:        20,
		SequenceCount:     4,
		SampleRate:        5,
		Seed:              7,
	}

	b, err := baseline.Simulate(context.Background(), src, cfg)
	require.NoError(t, err)

	at5 := b.Stats(5)
	at20 := b.Stats(20)
	mid := b.Stats(12)

	require.GreaterOrEqual(t, mid.Mean.SequenceLen, at5.Mean.SequenceLen)
	require.LessOrEqual(t, mid.Mean.SequenceLen, at20.Mean.SequenceLen)
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	src := &fakeTree{n: 10}
	_, err := baseline.Simulate(context.Background(), src, baseline.Config{})
	require.ErrorIs(t, err, baseline.ErrInvalidConfig)
}

func TestSimulateHonorsCancellation(t *testing.T) {
	src := &fakeTree{n: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := baseline.Simulate(ctx, src, baseline.Config{
		PriorWeight: 1, ObservationWeight: 1, WindowSize: 5,
		SequenceCount: 4, SampleRate: 1,
	})
	require.ErrorIs(t, err, baseline.ErrCancelled)
}
