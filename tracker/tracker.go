package tracker

import (
	"math"

	"github.com/elastic/goko/arena"
)

// Push computes point's path through the tracker's source and folds it
// into the sliding window (§4.F): evidence at each visited (addr, bucket)
// increases by ObservationWeight, the oldest path is evicted (and
// decremented) if the window is full, and each touched address's cached KL
// divergence is recomputed.
func (t *Tracker) Push(point []float32) error {
	path, err := t.source.TrackerPath(point)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return ErrEmptyPath
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	touched := t.applyPath(path, +1)

	if t.cfg.WindowSize > 0 {
		if t.filled == len(t.window) {
			evicted := t.window[t.head]
			for _, addr := range t.applyPath(evicted, -1) {
				touched[addr] = struct{}{}
			}
			t.window[t.head] = path
			t.head = (t.head + 1) % len(t.window)
		} else {
			t.window[t.filled] = path
			t.filled++
			t.count++
		}
	} else {
		t.count++
	}

	for addr := range touched {
		s := t.states[addr]
		s.kl = klDirichlet(s.alpha, s.evidence)
		s.dirty = false
	}

	return nil
}

// applyPath adds sign*ObservationWeight to every (addr, bucket) along path,
// lazily initializing each address's Dirichlet state on first sight, and
// returns the set of addresses it touched.
func (t *Tracker) applyPath(path []Step, sign float64) map[arena.Address]struct{} {
	touched := make(map[arena.Address]struct{}, len(path))

	for _, step := range path {
		s, ok := t.states[step.Addr]
		if !ok {
			s = &nodeState{
				alpha:    clampAlpha(t.cfg.PriorWeight, step.BucketMasses),
				evidence: make([]float64, len(step.BucketMasses)),
			}
			t.states[step.Addr] = s
		}
		if step.Bucket >= 0 && step.Bucket < len(s.evidence) {
			s.evidence[step.Bucket] += sign * t.cfg.ObservationWeight
		}
		s.dirty = true
		touched[step.Addr] = struct{}{}
	}

	return touched
}

// Evidence returns the current per-bucket observation weight at addr.
func (t *Tracker) Evidence(addr arena.Address) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[addr]
	if !ok {
		return nil
	}
	out := make([]float64, len(s.evidence))
	copy(out, s.evidence)

	return out
}

// MarginalPosteriorProbs returns the posterior Dirichlet mean at addr,
// (alpha_k + evidence_k) / Σ(alpha + evidence).
func (t *Tracker) MarginalPosteriorProbs(addr arena.Address) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[addr]
	if !ok {
		return nil
	}

	probs := make([]float64, len(s.alpha))
	var sum float64
	for i := range s.alpha {
		probs[i] = s.alpha[i] + s.evidence[i]
		sum += probs[i]
	}
	if sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}

	return probs
}

// AllKL returns the cached KL divergence at every address the tracker has
// ever visited, regardless of whether its evidence has since decayed to
// zero.
func (t *Tracker) AllKL() map[arena.Address]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[arena.Address]float64, len(t.states))
	for addr, s := range t.states {
		out[addr] = s.kl
	}

	return out
}

// Stats computes the summary-statistics vector of §4.F over every node
// with nonzero evidence.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var st Stats
	first := true
	for _, s := range t.states {
		if !s.hasEvidence() {
			continue
		}
		if first || s.kl > st.Max {
			st.Max = s.kl
		}
		if first || s.kl < st.Min {
			st.Min = s.kl
		}
		first = false
		st.NzCount++
		st.Moment1Nz += s.kl
		st.Moment2Nz += s.kl * s.kl
	}
	st.SequenceLen = t.count

	return st
}

// NormalizedStats is a Stats vector expressed in standard-deviation units
// relative to a baseline (§4.G normalization).
type NormalizedStats struct {
	Max         float64
	Min         float64
	NzCount     float64
	Moment1Nz   float64
	Moment2Nz   float64
	SequenceLen float64
}

// StatsNormalized is the convenience form of §4.G's normalization rule:
// normalized_stat = (live_stat - baseline.mean) / sqrt(baseline.var) when
// var > 0, else the raw difference. mean and variance are typically a
// baseline.Baseline's Stats(offset) output.
func (t *Tracker) StatsNormalized(mean, variance Stats) NormalizedStats {
	live := t.Stats()

	norm := func(v, m, va float64) float64 {
		if va > 0 {
			return (v - m) / math.Sqrt(va)
		}
		return v - m
	}

	return NormalizedStats{
		Max:         norm(live.Max, mean.Max, variance.Max),
		Min:         norm(live.Min, mean.Min, variance.Min),
		NzCount:     norm(live.NzCount, mean.NzCount, variance.NzCount),
		Moment1Nz:   norm(live.Moment1Nz, mean.Moment1Nz, variance.Moment1Nz),
		Moment2Nz:   norm(live.Moment2Nz, mean.Moment2Nz, variance.Moment2Nz),
		SequenceLen: norm(live.SequenceLen, mean.SequenceLen, variance.SequenceLen),
	}
}
