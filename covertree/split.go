package covertree

import (
	"sort"

	"github.com/elastic/goko/pointstore"
)

// electCenters performs the farthest-first traversal of §4.C.4b: starting
// from the self-child center, repeatedly elect the farthest not-yet-center
// point whose distance to every elected center exceeds radius, until none
// remains. Ties on the farthest distance break toward the lowest point
// index, for determinism (§4.C "Determinism").
func electCenters(store *pointstore.Store, selfCenter int32, remaining []int32, radius float32) ([]int32, error) {
	centers := []int32{selfCenter}
	isCenter := map[int32]bool{selfCenter: true}

	nearest := make(map[int32]float32, len(remaining))
	for _, p := range remaining {
		d, err := store.Distance(int(selfCenter), int(p))
		if err != nil {
			return nil, err
		}
		nearest[p] = d
	}

	for {
		farthest := int32(-1)
		var farthestDist float32 = -1
		for _, p := range remaining {
			if isCenter[p] {
				continue
			}
			d := nearest[p]
			if d <= radius {
				continue
			}
			if d > farthestDist || (d == farthestDist && p < farthest) {
				farthest = p
				farthestDist = d
			}
		}
		if farthest < 0 {
			break
		}

		centers = append(centers, farthest)
		isCenter[farthest] = true
		for _, p := range remaining {
			if isCenter[p] {
				continue
			}
			d, err := store.Distance(int(farthest), int(p))
			if err != nil {
				return nil, err
			}
			if d < nearest[p] {
				nearest[p] = d
			}
		}
	}

	return centers, nil
}

// assignNearestCenter partitions points among centers by nearest-center
// distance, ties broken toward the lowest-indexed center (§4.C.4c). centers
// is sorted ascending first so the first center to strictly improve on the
// running minimum is always the lowest-index one among any tied set.
func assignNearestCenter(store *pointstore.Store, centers []int32, points []int32) (map[int32][]int32, error) {
	sorted := make([]int32, len(centers))
	copy(sorted, centers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buckets := make(map[int32][]int32, len(centers))
	for _, c := range centers {
		buckets[c] = nil
	}

	for _, p := range points {
		bestCenter := sorted[0]
		bestDist := float32(-1)
		for _, c := range sorted {
			d, err := store.Distance(int(c), int(p))
			if err != nil {
				return nil, err
			}
			if bestDist < 0 || d < bestDist {
				bestDist = d
				bestCenter = c
			}
		}
		buckets[bestCenter] = append(buckets[bestCenter], p)
	}

	return buckets, nil
}

// partitionPoints is the seam §9 calls out: when scheme is nil it defers to
// the built-in assignNearestCenter, otherwise it calls scheme once per
// candidate against the same sorted (lowest-index-first) center list, so a
// custom PartitionScheme only has to pick an index, not reimplement the
// tiebreak.
func partitionPoints(store *pointstore.Store, centers []int32, points []int32, radius float32, scheme PartitionScheme) (map[int32][]int32, error) {
	if scheme == nil {
		return assignNearestCenter(store, centers, points)
	}

	sorted := make([]int32, len(centers))
	copy(sorted, centers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buckets := make(map[int32][]int32, len(centers))
	for _, c := range centers {
		buckets[c] = nil
	}

	for _, p := range points {
		idx := scheme(store, sorted, p, radius)
		if idx < 0 || idx >= len(sorted) {
			idx = 0
		}
		buckets[sorted[idx]] = append(buckets[sorted[idx]], p)
	}

	return buckets, nil
}
