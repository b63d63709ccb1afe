package runtime

import (
	"fmt"
	"math"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// edge is a directed connection to another node. coupling is the correlation
// derived modifier in [0,1]; it starts at 1 and only changes through
// RefreshCouplings.
type edge struct {
	to       int
	weight   float64
	coupling float64
}

// node is the mutable engine-side representation of a topology node.
type node struct {
	id         string
	gain       float64
	activation []float64
	history    *ring
	edges      []edge

	phase          domain.NodePhase
	lastTension    float64
	unstableStreak int
	basisLabel     string
}

// graph owns the nodes and the discrete basis set.
type graph struct {
	nodes []*node
	index map[string]int
	basis []domain.BasisState
	dim   int
}

func newGraph(spec domain.TopologySpec, cfg domain.Config) (*graph, error) {
	if err := spec.Validate(cfg.Dimension); err != nil {
		return nil, err
	}

	g := &graph{
		index: make(map[string]int, len(spec.Nodes)),
		dim:   cfg.Dimension,
	}
	for i, ns := range spec.Nodes {
		g.nodes = append(g.nodes, &node{
			id:         ns.ID,
			gain:       ns.Gain,
			activation: make([]float64, cfg.Dimension),
			history:    newRing(cfg.HistorySize, cfg.Dimension),
			phase:      domain.PhaseDormant,
		})
		g.index[ns.ID] = i
	}
	for i, ns := range spec.Nodes {
		for _, es := range ns.Edges {
			g.nodes[i].edges = append(g.nodes[i].edges, edge{
				to:       g.index[es.To],
				weight:   es.Weight,
				coupling: 1,
			})
		}
	}
	for _, b := range spec.Basis {
		g.basis = append(g.basis, domain.BasisState{
			Label:  b.Label,
			Vector: append([]float64(nil), b.Vector...),
		})
	}
	return g, nil
}

func (g *graph) lookup(id string) (*node, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNode, id)
	}
	return g.nodes[i], nil
}

// refreshCouplings recomputes each edge's coupling modifier from the Pearson
// correlation of the two endpoints' recent activation-norm histories, mapped
// into [0,1]. Pairs without enough shared history keep their current value.
func (g *graph) refreshCouplings() {
	norms := make([][]float64, len(g.nodes))
	for i, n := range g.nodes {
		h := n.history
		norms[i] = make([]float64, h.Len())
		for j := 0; j < h.Len(); j++ {
			norms[i][j] = vecNorm(h.At(j))
		}
	}
	for _, n := range g.nodes {
		for k := range n.edges {
			a := norms[g.index[n.id]]
			b := norms[n.edges[k].to]
			m := len(a)
			if len(b) < m {
				m = len(b)
			}
			if m < 3 {
				continue
			}
			r := pearson(a[len(a)-m:], b[len(b)-m:])
			if math.IsNaN(r) {
				continue
			}
			n.edges[k].coupling = (r + 1) / 2
		}
	}
}

func pearson(a, b []float64) float64 {
	n := float64(len(a))
	var sa, sb float64
	for i := range a {
		sa += a[i]
		sb += b[i]
	}
	ma, mb := sa/n, sb/n
	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(va*vb)
}

func vecNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// sqDist is the squared euclidean distance between two equal-length vectors.
func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
