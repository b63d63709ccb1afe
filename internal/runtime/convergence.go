package runtime

import (
	"math"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// monitor evaluates the trailing tension window. It is read-only: it never
// touches history, only derives means and a first-half/second-half trend.
type monitor struct {
	window    int
	epsilon   float64
	maxRadius float64
}

// check computes the convergence report for the given global tension values
// (oldest first, already limited to the window), the current global state and
// the known attractors. Converging requires a quiet mean, a non-positive
// trend, and at least one attractor within maxRadius of the current state.
func (m *monitor) check(values []float64, state []float64, attractors []domain.Attractor) domain.ConvergenceReport {
	rep := domain.ConvergenceReport{WindowSize: len(values), NearestDistance: math.Inf(1)}
	if len(values) == 0 {
		return rep
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	rep.MeanTension = sum / float64(len(values))

	half := len(values) / 2
	var first, second float64
	for _, v := range values[:half] {
		first += v
	}
	for _, v := range values[half:] {
		second += v
	}
	if half > 0 {
		rep.Trend = second/float64(len(values)-half) - first/float64(half)
	}

	for _, a := range attractors {
		dist := math.Sqrt(sqDist(a.Centroid, state))
		if dist < rep.NearestDistance {
			rep.NearestDistance = dist
			rep.NearestAttractor = a.ID
		}
	}

	rep.Converging = rep.MeanTension < m.epsilon &&
		rep.Trend <= 0 &&
		rep.NearestAttractor != "" &&
		rep.NearestDistance <= m.maxRadius
	return rep
}
