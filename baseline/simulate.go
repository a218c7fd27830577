package baseline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/elastic/goko/tracker"
)

// Simulate runs cfg.SequenceCount independent synthetic tracker instances
// (§4.G), each drawing point indices uniformly at random from source's
// population and pushing them through a fresh tracker, snapshotting its
// full Stats() every cfg.SampleRate steps. It returns the per-offset
// (mean, variance) table built from those snapshots across all runs.
//
// ctx is checked between runs (§5's "cooperative cancellation token
// checked between top-level tasks... per simulated sequence"); on
// cancellation, partial results are discarded and ErrCancelled is
// returned.
func Simulate(ctx context.Context, source Source, cfg Config) (*Baseline, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if source.NumPoints() == 0 {
		return nil, ErrEmptySource
	}

	seqLen := cfg.SequenceLength
	if seqLen <= 0 {
		seqLen = cfg.WindowSize
	}
	if seqLen <= 0 {
		return nil, fmt.Errorf("%w: SequenceLength or WindowSize must be > 0", ErrInvalidConfig)
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	runs := make([][]tracker.Stats, cfg.SequenceCount)

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, parallelism)
	for i := 0; i < cfg.SequenceCount; i++ {
		i := i
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			runs[i] = runSequence(source, cfg, seqLen, cfg.Seed^uint64(i))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return nil, err
	}

	return aggregate(runs, cfg.SampleRate), nil
}

func validateConfig(cfg Config) error {
	if cfg.SequenceCount <= 0 {
		return fmt.Errorf("%w: sequence_count must be > 0", ErrInvalidConfig)
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be > 0", ErrInvalidConfig)
	}

	return nil
}

// runSequence pushes seqLen uniformly-random points through a fresh
// tracker, snapshotting Stats() every sampleRate steps.
func runSequence(source Source, cfg Config, seqLen int, seed uint64) []tracker.Stats {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	tr := tracker.New(source, tracker.Config{
		PriorWeight:       cfg.PriorWeight,
		ObservationWeight: cfg.ObservationWeight,
		WindowSize:        cfg.WindowSize,
	})

	n := source.NumPoints()
	var snapshots []tracker.Stats
	for step := 1; step <= seqLen; step++ {
		pi := rng.IntN(n)
		p, err := source.PointAt(pi)
		if err != nil {
			continue
		}
		if err := tr.Push(p); err != nil {
			continue
		}
		if step%cfg.SampleRate == 0 {
			snapshots = append(snapshots, tr.Stats())
		}
	}

	return snapshots
}

// aggregate computes per-offset (mean, variance) across all runs' snapshot
// slices; offset i (0-based) in a run's snapshot slice corresponds to step
// (i+1)*sampleRate.
func aggregate(runs [][]tracker.Stats, sampleRate int) *Baseline {
	maxSnapshots := 0
	for _, r := range runs {
		if len(r) > maxSnapshots {
			maxSnapshots = len(r)
		}
	}

	samples := make(map[int]StatPair, maxSnapshots)
	offsets := make([]int, 0, maxSnapshots)

	for idx := 0; idx < maxSnapshots; idx++ {
		var vals []tracker.Stats
		for _, r := range runs {
			if idx < len(r) {
				vals = append(vals, r[idx])
			}
		}
		if len(vals) == 0 {
			continue
		}

		offset := (idx + 1) * sampleRate
		samples[offset] = statPairOf(vals)
		offsets = append(offsets, offset)
	}

	sort.Ints(offsets)

	return &Baseline{sampleRate: sampleRate, offsets: offsets, samples: samples}
}

func statPairOf(vals []tracker.Stats) StatPair {
	n := float64(len(vals))

	var mean tracker.Stats
	for _, v := range vals {
		mean.Max += v.Max
		mean.Min += v.Min
		mean.NzCount += v.NzCount
		mean.Moment1Nz += v.Moment1Nz
		mean.Moment2Nz += v.Moment2Nz
		mean.SequenceLen += v.SequenceLen
	}
	mean.Max /= n
	mean.Min /= n
	mean.NzCount /= n
	mean.Moment1Nz /= n
	mean.Moment2Nz /= n
	mean.SequenceLen /= n

	var variance tracker.Stats
	for _, v := range vals {
		variance.Max += (v.Max - mean.Max) * (v.Max - mean.Max)
		variance.Min += (v.Min - mean.Min) * (v.Min - mean.Min)
		variance.NzCount += (v.NzCount - mean.NzCount) * (v.NzCount - mean.NzCount)
		variance.Moment1Nz += (v.Moment1Nz - mean.Moment1Nz) * (v.Moment1Nz - mean.Moment1Nz)
		variance.Moment2Nz += (v.Moment2Nz - mean.Moment2Nz) * (v.Moment2Nz - mean.Moment2Nz)
		variance.SequenceLen += (v.SequenceLen - mean.SequenceLen) * (v.SequenceLen - mean.SequenceLen)
	}
	variance.Max /= n
	variance.Min /= n
	variance.NzCount /= n
	variance.Moment1Nz /= n
	variance.Moment2Nz /= n
	variance.SequenceLen /= n

	return StatPair{Mean: mean, Variance: variance}
}
