package covertree

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/elastic/goko/arena"
)

// AttachSVDs populates every node's SingularValues with the top-k singular
// values of its centered singleton matrix (§3's optional singular_values
// field). Nodes with fewer than 2 singletons are left untouched.
//
// Large singleton sets are subsampled to at most sampleCap rows before
// decomposition, and reg is added to the diagonal of the centered matrix's
// dim x dim Gram product as a ridge term before computing singular values
// from it. sampleCap bounds the rows read per node; the decomposition cost
// still grows with the store's dimensionality. This is a best-effort
// reconstruction, not a bit-exact port: the exact sampling and regularizer
// semantics are not fully pinned down, so results should be treated as
// diagnostic rather than reproducible across runs with different sampleCap
// values.
func (t *Tree) AttachSVDs(k, sampleCap int, reg float64) error {
	if t.arena.Len() == 0 {
		return ErrEmptyTree
	}
	if k <= 0 {
		return nil
	}

	rootID, err := t.arena.Root()
	if err != nil {
		return err
	}

	return t.attachSVDsRec(rootID, k, sampleCap, reg)
}

func (t *Tree) attachSVDsRec(id arena.NodeID, k, sampleCap int, reg float64) error {
	node, ok := t.arena.Get(id)
	if !ok {
		return ErrAddressNotFound
	}

	for _, addr := range node.Children {
		cid, ok := t.arena.ByAddress(addr)
		if !ok {
			continue
		}
		if err := t.attachSVDsRec(cid, k, sampleCap, reg); err != nil {
			return err
		}
	}

	if len(node.Singletons) < 2 {
		return nil
	}

	points := node.Singletons
	if sampleCap > 0 && len(points) > sampleCap {
		points = subsample(points, sampleCap)
	}

	dim := t.store.Dim()
	rows := make([]float64, 0, len(points)*dim)
	mean := make([]float64, dim)
	for _, pi := range points {
		p, err := t.store.Point(int(pi))
		if err != nil {
			return err
		}
		for j := 0; j < dim; j++ {
			mean[j] += float64(p[j])
		}
	}
	for j := range mean {
		mean[j] /= float64(len(points))
	}
	for _, pi := range points {
		p, err := t.store.Point(int(pi))
		if err != nil {
			return err
		}
		for j := 0; j < dim; j++ {
			rows = append(rows, float64(p[j])-mean[j])
		}
	}

	centered := mat.NewDense(len(points), dim, rows)

	var gram mat.Dense
	gram.Mul(centered.T(), centered)
	for i := 0; i < dim; i++ {
		gram.Set(i, i, gram.At(i, i)+reg)
	}

	var svd mat.SVD
	if !svd.Factorize(&gram, mat.SVDNone) {
		return nil
	}
	values := svd.Values(nil)

	n := k
	if n > len(values) {
		n = len(values)
	}
	sv := make([]float32, n)
	for i := 0; i < n; i++ {
		v := values[i]
		if v < 0 {
			v = 0
		}
		sv[i] = float32(math.Sqrt(v))
	}
	node.SingularValues = sv

	meanF32 := make([]float32, dim)
	for j := range mean {
		meanF32[j] = float32(mean[j])
	}
	node.CoverMean = meanF32

	return nil
}

// subsample picks at most limit distinct elements of points without
// replacement.
func subsample(points []int32, limit int) []int32 {
	out := make([]int32, len(points))
	copy(out, points)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out[:limit]
}
