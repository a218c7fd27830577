package covertree

import "math"

// coveringRadius returns base^si, the maximum distance from a node's
// center to any point it covers (§3).
func coveringRadius(base float32, si int32) float32 {
	return float32(math.Pow(float64(base), float64(si)))
}

// topScaleFor returns ceil(log_base(rMax)), the scale index of the root
// (§4.C.2).
func topScaleFor(base, rMax float32) int32 {
	if rMax <= 0 {
		return 0
	}

	return int32(math.Ceil(math.Log(float64(rMax)) / math.Log(float64(base))))
}
