package baseline

import "github.com/elastic/goko/tracker"

// Source is what Simulate needs from a tree: the ability to compute a
// tracked path for any point (the same routing rule queries use), plus
// random access to the point population it draws synthetic sequences from.
type Source interface {
	tracker.PathSource
	NumPoints() int
	PointAt(pi int) ([]float32, error)
}

// Config configures Simulate, mirroring §4.G's inputs.
type Config struct {
	PriorWeight       float64
	ObservationWeight float64
	WindowSize        int // 0 = infinite window, decrement never happens

	// SequenceLength is the number of points pushed per synthetic run (the
	// "sequence_len ceiling" of §4.G). Defaults to WindowSize when zero and
	// WindowSize > 0.
	SequenceLength int

	SequenceCount int
	SampleRate    int

	// Seed makes a run reproducible (§5: "Baseline generation is
	// deterministic given a seed").
	Seed uint64

	// Parallelism bounds concurrent synthetic runs; <= 0 means
	// runtime.GOMAXPROCS(0).
	Parallelism int
}

// StatPair is the per-offset (mean, variance) pair of §4.G, one entry per
// field of tracker.Stats.
type StatPair struct {
	Mean     tracker.Stats
	Variance tracker.Stats
}

// Baseline is the simulator's output: a sparse table of StatPair samples
// at multiples of SampleRate, queried at arbitrary offsets via Stats
// (linear interpolation between the two bracketing samples).
type Baseline struct {
	sampleRate int
	offsets    []int
	samples    map[int]StatPair
}
