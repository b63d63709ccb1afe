/*
Package manifold is a recursive latent-state propagation engine for small
weighted graphs of vector-valued nodes.

Each node carries a fixed-dimension activation vector. Every step, activations
decay, absorb weighted neighbor contributions and external stimulus, and feed a
contracted global state. The engine tracks the squared step-to-step delta of
that global state (its tension), clusters recurring states into attractors, and
watches for convergence. Once the trajectory settles near a known attractor, a
spectral glyph is emitted: a compact frequency-domain signature of the
converged window.

# Concept

The engine is a synchronous, single-owner core. Steps are serialized, reads
are safe from any goroutine, and a step either commits entirely or leaves the
state untouched. Given the same configuration, topology, seed and stimulus
sequence, trajectories are bit-for-bit reproducible.

The core is decoupled from its surroundings in the usual hexagonal shape:
pkg/domain holds plain types, pkg/ports the persistence contracts, and
pkg/adapters the memory, Redis, SQLite and HTTP implementations. The root
package wires them together behind a small facade.

# Key Features

  - Deterministic propagation: seeded noise, ordered iteration, atomic steps.
  - Contraction-mapped global state with a closed set of transforms.
  - Greedy deterministic attractor detection with reconciliation.
  - Convergence monitoring over a sliding tension window (mean, trend,
    attractor proximity).
  - Spectral glyph encoding gated on convergence, one glyph per episode.
  - Deterministic collapse of unstable nodes onto configured basis states.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/sylvanmoss/manifold"
		"github.com/sylvanmoss/manifold/pkg/domain"
	)

	func main() {
		cfg := domain.DefaultConfig()
		cfg.Dimension = 4

		topo := domain.TopologySpec{
			Nodes: []domain.NodeSpec{{ID: "alpha", Gain: 1.0}},
		}

		eng, err := manifold.New(cfg, topo)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		for i := 0; i < 100; i++ {
			res, err := eng.Step(ctx, []float64{0.1, 0, 0, 0}, 1.0)
			if err != nil {
				log.Fatal(err)
			}
			if res.Glyph != nil {
				fmt.Printf("glyph %s (stability %.2f)\n", res.Glyph.ID, res.Glyph.Stability)
			}
		}
	}

Persistence is opt-in. Pass WithGlyphStore to keep emitted glyphs in memory,
Redis or SQLite; the engine appends after each commit and a failing store never
rolls back an applied step.

For the command line, see cmd/manifold: `manifold run` drives a simulation,
`manifold inspect` prints the topology, and `manifold serve` hosts the
diagnostics API with Prometheus metrics.
*/
package manifold
