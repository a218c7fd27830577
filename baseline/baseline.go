package baseline

import (
	"sort"

	"github.com/elastic/goko/tracker"
)

// Stats returns the (mean, variance) pair at offset, linearly interpolating
// between the two bracketing sampled offsets (§4.G). Offsets before the
// first sample or after the last are clamped to the nearest sample.
func (b *Baseline) Stats(offset int) StatPair {
	if len(b.offsets) == 0 {
		return StatPair{}
	}

	if offset <= b.offsets[0] {
		return b.samples[b.offsets[0]]
	}
	last := b.offsets[len(b.offsets)-1]
	if offset >= last {
		return b.samples[last]
	}

	i := sort.SearchInts(b.offsets, offset)
	if b.offsets[i] == offset {
		return b.samples[offset]
	}

	lo, hi := b.offsets[i-1], b.offsets[i]
	frac := float64(offset-lo) / float64(hi-lo)

	return interpolate(b.samples[lo], b.samples[hi], frac)
}

func interpolate(a, b StatPair, frac float64) StatPair {
	lerp := func(x, y float64) float64 { return x + (y-x)*frac }

	return StatPair{
		Mean: tracker.Stats{
			Max:         lerp(a.Mean.Max, b.Mean.Max),
			Min:         lerp(a.Mean.Min, b.Mean.Min),
			NzCount:     lerp(a.Mean.NzCount, b.Mean.NzCount),
			Moment1Nz:   lerp(a.Mean.Moment1Nz, b.Mean.Moment1Nz),
			Moment2Nz:   lerp(a.Mean.Moment2Nz, b.Mean.Moment2Nz),
			SequenceLen: lerp(a.Mean.SequenceLen, b.Mean.SequenceLen),
		},
		Variance: tracker.Stats{
			Max:         lerp(a.Variance.Max, b.Variance.Max),
			Min:         lerp(a.Variance.Min, b.Variance.Min),
			NzCount:     lerp(a.Variance.NzCount, b.Variance.NzCount),
			Moment1Nz:   lerp(a.Variance.Moment1Nz, b.Variance.Moment1Nz),
			Moment2Nz:   lerp(a.Variance.Moment2Nz, b.Variance.Moment2Nz),
			SequenceLen: lerp(a.Variance.SequenceLen, b.Variance.SequenceLen),
		},
	}
}
