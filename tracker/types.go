package tracker

import (
	"sync"

	"github.com/elastic/goko/arena"
)

// Step is one hop of a tracked path: the node visited, which bucket the
// point fell into (0 = singleton bucket c_0, 1..m = the index+1 of the
// child it descended into), and the training-time mass of every bucket at
// that node, used to build the Dirichlet prior (§4.F).
type Step struct {
	Addr         arena.Address
	Bucket       int
	BucketMasses []uint64
}

// PathSource computes the tracked path for a stream point, the same
// routing rule queries use (§4.D), annotated with bucket choices (§4.F).
// covertree.Tree implements this interface.
type PathSource interface {
	TrackerPath(point []float32) ([]Step, error)
}

// Config configures a Tracker.
type Config struct {
	// PriorWeight scales the training-time bucket masses into the
	// Dirichlet prior's alpha vector.
	PriorWeight float64

	// ObservationWeight is added to a bucket's alpha for every stream
	// point that falls into it.
	ObservationWeight float64

	// WindowSize bounds the ring buffer of tracked paths; 0 means an
	// infinite window (no decrement ever happens).
	WindowSize int
}

// DefaultConfig returns PriorWeight = 1, ObservationWeight = 1, and an
// infinite window.
func DefaultConfig() Config {
	return Config{PriorWeight: 1, ObservationWeight: 1, WindowSize: 0}
}

// Stats is the summary-statistics vector of §4.F, aggregated over every
// node with nonzero evidence. All fields are float64 so the baseline
// simulator can average them across runs uniformly.
type Stats struct {
	Max         float64
	Min         float64
	NzCount     float64
	Moment1Nz   float64
	Moment2Nz   float64
	SequenceLen float64
}

// nodeState is the per-address Dirichlet posterior state.
type nodeState struct {
	alpha    []float64 // clamped prior alpha, fixed once observed
	evidence []float64 // accumulated observation weight per bucket
	kl       float64
	dirty    bool
}

func (s *nodeState) hasEvidence() bool {
	for _, e := range s.evidence {
		if e != 0 {
			return true
		}
	}

	return false
}

// Tracker is the online Dirichlet-categorical path tracker of §4.F. The
// zero value is not usable; construct with New.
type Tracker struct {
	mu     sync.Mutex
	source PathSource
	cfg    Config

	states map[arena.Address]*nodeState

	window []([]Step)
	head   int
	filled int

	count float64 // current window occupancy, §4.F sequence_len
}

// New returns a Tracker reading paths from source.
func New(source PathSource, cfg Config) *Tracker {
	t := &Tracker{
		source: source,
		cfg:    cfg,
		states: make(map[arena.Address]*nodeState),
	}
	if cfg.WindowSize > 0 {
		t.window = make([][]Step, cfg.WindowSize)
	}

	return t
}
