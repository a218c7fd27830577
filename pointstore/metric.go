package pointstore

import "math"

// L2 is the default Metric: Euclidean distance.
//
// Complexity: O(dim).
func L2(a, b []float32) float32 {
	var sumSq float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sumSq += d * d
	}

	return float32(math.Sqrt(sumSq))
}

// containsNaN reports whether v holds any non-finite coordinate.
func containsNaN(v []float32) bool {
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return true
		}
	}

	return false
}
