package tracker

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// epsilon floors a zero-mass bucket's prior alpha so lnΓ never sees a
// nonpositive argument (§4.F, bucket masses of zero arise for unused child
// slots).
const epsilon = 1.0 / (1 << 20)

func lnGamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// klDirichlet evaluates the closed-form KL divergence between the
// posterior Dirichlet(alpha + evidence) and the prior Dirichlet(alpha),
// per §4.F's formula.
func klDirichlet(alpha, evidence []float64) float64 {
	n := len(alpha)
	post := make([]float64, n)

	var alphaSum, postSum float64
	for i := 0; i < n; i++ {
		a := alpha[i]
		p := a + evidence[i]
		post[i] = p
		alphaSum += a
		postSum += p
	}

	kl := lnGamma(postSum) - lnGamma(alphaSum)
	for i := 0; i < n; i++ {
		kl -= lnGamma(post[i]) - lnGamma(alpha[i])
		kl += (post[i] - alpha[i]) * (mathext.Digamma(post[i]) - mathext.Digamma(postSum))
	}

	return kl
}

// clampAlpha scales masses by priorWeight, flooring every entry at
// epsilon.
func clampAlpha(priorWeight float64, masses []uint64) []float64 {
	alpha := make([]float64, len(masses))
	for i, m := range masses {
		a := priorWeight * float64(m)
		if a < epsilon {
			a = epsilon
		}
		alpha[i] = a
	}

	return alpha
}
