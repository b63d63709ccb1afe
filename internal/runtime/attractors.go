package runtime

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

// detector clusters the global history window into attractors. The pass is
// deterministic: candidates are seeded in index order (earliest member first),
// centroids are member means, and every returned member lies within maxRadius
// of its centroid. Quadratic in window size, which the bounded history keeps
// acceptable.
type detector struct {
	minClusterSize int
	maxRadius      float64
}

// cluster is an intermediate grouping before attractor reconciliation.
type cluster struct {
	centroid []float64
	members  []int
	radius   float64
	variance float64
}

// run clusters the given samples (oldest first). budget caps the number of
// pairwise distance evaluations; 0 means unlimited. The second return reports
// whether the budget truncated the scan.
func (d *detector) run(samples [][]float64, budget int) ([]cluster, bool) {
	n := len(samples)
	assigned := make([]bool, n)
	var out []cluster
	pairs := 0
	truncated := false

	for seed := 0; seed < n; seed++ {
		if assigned[seed] {
			continue
		}
		if budget > 0 && pairs >= budget {
			truncated = true
			break
		}

		// Gather unassigned samples within maxRadius of the seed.
		members := []int{seed}
		for j := seed + 1; j < n; j++ {
			if assigned[j] {
				continue
			}
			if budget > 0 && pairs >= budget {
				truncated = true
				break
			}
			pairs++
			if math.Sqrt(sqDist(samples[seed], samples[j])) <= d.maxRadius {
				members = append(members, j)
			}
		}

		c := d.condense(samples, members)
		if len(c.members) < d.minClusterSize {
			continue
		}
		for _, m := range c.members {
			assigned[m] = true
		}
		out = append(out, c)
	}
	return out, truncated
}

// condense computes the centroid of the candidate members, then drops members
// outside maxRadius of it. One pass suffices for the containment invariant;
// dropping members can only pull the centroid toward the survivors, so the
// final filter re-checks against the recomputed centroid until stable.
func (d *detector) condense(samples [][]float64, members []int) cluster {
	for {
		centroid := meanOf(samples, members)
		kept := members[:0:len(members)]
		for _, m := range members {
			if math.Sqrt(sqDist(samples[m], centroid)) <= d.maxRadius {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(members) || len(kept) == 0 {
			var radius, variance float64
			for _, m := range kept {
				sq := sqDist(samples[m], centroid)
				variance += sq
				if r := math.Sqrt(sq); r > radius {
					radius = r
				}
			}
			if len(kept) > 0 {
				variance /= float64(len(kept))
			}
			return cluster{centroid: centroid, members: kept, radius: radius, variance: variance}
		}
		members = kept
	}
}

func meanOf(samples [][]float64, members []int) []float64 {
	dim := len(samples[members[0]])
	out := make([]float64, dim)
	for _, m := range members {
		for d, v := range samples[m] {
			out[d] += v
		}
	}
	for d := range out {
		out[d] /= float64(len(members))
	}
	return out
}

// reconcile matches freshly detected clusters against known attractors.
// A cluster whose centroid lies within maxRadius of an existing centroid
// reinforces that attractor (recenter + timestamp); otherwise a new attractor
// is created. Existing attractors not matched this pass are kept untouched;
// pruning is an explicit external call.
func (d *detector) reconcile(known []domain.Attractor, found []cluster, now time.Time) []domain.Attractor {
	matched := make([]bool, len(known))
	out := append([]domain.Attractor(nil), known...)

	for _, c := range found {
		best := -1
		bestDist := math.Inf(1)
		for i, a := range out {
			if i < len(matched) && matched[i] {
				continue
			}
			dist := math.Sqrt(sqDist(a.Centroid, c.centroid))
			if dist <= d.maxRadius && dist < bestDist {
				best, bestDist = i, dist
			}
		}
		if best >= 0 {
			out[best].Centroid = c.centroid
			out[best].Members = append([]int(nil), c.members...)
			out[best].Radius = c.radius
			out[best].Coherence = 1 / (1 + c.variance)
			out[best].ReinforcedAt = now
			if best < len(matched) {
				matched[best] = true
			}
			continue
		}
		out = append(out, domain.Attractor{
			ID:           uuid.NewString(),
			Centroid:     c.centroid,
			Members:      append([]int(nil), c.members...),
			Radius:       c.radius,
			Coherence:    1 / (1 + c.variance),
			CreatedAt:    now,
			ReinforcedAt: now,
		})
	}
	return out
}
