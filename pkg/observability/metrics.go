// Package observability exports engine activity as Prometheus metrics. The
// collectors attach through lifecycle hooks, so the core stays free of any
// metrics dependency.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Metrics owns a registry and the engine collectors.
type Metrics struct {
	registry *prometheus.Registry

	steps          prometheus.Counter
	globalTension  prometheus.Gauge
	tensionSpread  prometheus.Histogram
	transitions    *prometheus.CounterVec
	collapses      prometheus.Counter
	glyphs         prometheus.Counter
	glyphStability prometheus.Gauge
	episodes       prometheus.Counter
	converging     prometheus.Gauge
}

// NewMetrics builds the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "manifold",
			Name:      "steps_total",
			Help:      "Propagation steps applied.",
		}),
		globalTension: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "manifold",
			Name:      "global_tension",
			Help:      "Squared displacement of the global state in the last step.",
		}),
		tensionSpread: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "manifold",
			Name:      "global_tension_distribution",
			Help:      "Distribution of per-step global tension.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "manifold",
			Name:      "phase_transitions_total",
			Help:      "Node lifecycle transitions by edge.",
		}, []string{"from", "to"}),
		collapses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "manifold",
			Name:      "collapses_total",
			Help:      "Completed node collapse operations.",
		}),
		glyphs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "manifold",
			Name:      "glyphs_total",
			Help:      "Glyphs emitted by the convergence gate.",
		}),
		glyphStability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "manifold",
			Name:      "glyph_stability",
			Help:      "Stability score of the most recent glyph.",
		}),
		episodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "manifold",
			Name:      "convergence_episodes_total",
			Help:      "Convergence episodes entered.",
		}),
		converging: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "manifold",
			Name:      "converging",
			Help:      "Whether the last step reported convergence (0 or 1).",
		}),
	}

	m.registry.MustRegister(
		m.steps, m.globalTension, m.tensionSpread, m.transitions,
		m.collapses, m.glyphs, m.glyphStability, m.episodes, m.converging,
	)
	return m
}

// Hooks returns the lifecycle callbacks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(res domain.StepResult) {
			m.steps.Inc()
			m.globalTension.Set(res.GlobalTension)
			m.tensionSpread.Observe(res.GlobalTension)
			for _, pc := range res.PhaseChanges {
				m.transitions.WithLabelValues(string(pc.From), string(pc.To)).Inc()
			}
			if res.Converging {
				m.converging.Set(1)
			} else {
				m.converging.Set(0)
			}
		},
		OnCollapse: func(domain.CollapseResult) {
			m.collapses.Inc()
		},
		OnGlyph: func(g domain.Glyph) {
			m.glyphs.Inc()
			m.glyphStability.Set(g.Stability)
		},
		OnConverged: func(domain.ConvergenceReport) {
			m.episodes.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers that register
// additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
