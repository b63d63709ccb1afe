package runtime

import (
	"math"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// transformFn advances the global state: out = f(state, stimulus), written
// into dst. Every registered transform must be a contraction in its first
// argument with Lipschitz constant <= l.
type transformFn func(dst, state, stimulus []float64, l float64)

// transforms is the closed set of global update maps. Selection happens by
// name through configuration; there is no runtime registration.
var transforms = map[string]transformFn{
	domain.TransformTanhBlend: func(dst, state, stimulus []float64, l float64) {
		for i := range dst {
			dst[i] = l*math.Tanh(state[i]) + (1-l)*stimulus[i]
		}
	},
	domain.TransformLinearMix: func(dst, state, stimulus []float64, l float64) {
		for i := range dst {
			dst[i] = l*state[i] + (1-l)*stimulus[i]
		}
	},
}

// propagator computes proposed next states into scratch buffers. It never
// mutates the graph; the engine commits or discards the proposal atomically.
type propagator struct {
	cfg       domain.Config
	transform transformFn

	// scratch, reused across steps
	nextNodes  [][]float64
	nextGlobal []float64
	zero       []float64
}

func newPropagator(cfg domain.Config, nodeCount int) *propagator {
	p := &propagator{
		cfg:        cfg,
		transform:  transforms[cfg.Transform],
		nextGlobal: make([]float64, cfg.Dimension),
		zero:       make([]float64, cfg.Dimension),
	}
	p.nextNodes = make([][]float64, nodeCount)
	for i := range p.nextNodes {
		p.nextNodes[i] = make([]float64, cfg.Dimension)
	}
	return p
}

// proposeNodes fills nextNodes from the current activations:
//
//	next = decay·own + Σ edge.weight·edge.coupling·neighbor + gain·stimulus
//
// computed synchronously (every node reads pre-step values). decay is the
// effective per-step retention (dt already applied). Components are clamped
// to ±MaxActivation after the update.
func (p *propagator) proposeNodes(g *graph, stimulus []float64, decay float64) {
	bound := p.cfg.MaxActivation
	for i, n := range g.nodes {
		next := p.nextNodes[i]
		for d := 0; d < g.dim; d++ {
			v := decay * n.activation[d]
			for _, e := range n.edges {
				v += e.weight * e.coupling * g.nodes[e.to].activation[d]
			}
			if stimulus != nil {
				v += n.gain * stimulus[d]
			}
			if v > bound {
				v = bound
			} else if v < -bound {
				v = -bound
			}
			next[d] = v
		}
	}
}

// proposeGlobal fills nextGlobal with f(state, stimulus) plus bounded
// zero-mean noise. noise may be nil when variance is zero.
func (p *propagator) proposeGlobal(state, stimulus []float64, noise func() float64) {
	s := stimulus
	if s == nil {
		s = p.zero
	}
	p.transform(p.nextGlobal, state, s, p.cfg.ContractionRatio)
	if noise != nil {
		for i := range p.nextGlobal {
			p.nextGlobal[i] += noise()
		}
	}
}
