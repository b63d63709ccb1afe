package runtime

import (
	"math"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// collapser projects a continuous activation onto the nearest basis state.
// The basis set is configuration data; with no basis configured, collapse is
// an error rather than a silent no-op.
type collapser struct {
	basis []domain.BasisState
}

// project returns the index of the winning basis state and the score that won
// (cosine similarity or negated distance depending on policy). Ties break on
// the lower index, which keeps the operation deterministic.
func (c *collapser) project(activation []float64, policy domain.CollapsePolicy) (int, float64, error) {
	if len(c.basis) == 0 {
		return 0, 0, domain.ErrNoBasisStates
	}

	best := -1
	bestScore := math.Inf(-1)
	for i, b := range c.basis {
		var score float64
		switch policy {
		case domain.CollapseEuclidean:
			score = -math.Sqrt(sqDist(activation, b.Vector))
		default:
			score = cosine(activation, b.Vector)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore, nil
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
