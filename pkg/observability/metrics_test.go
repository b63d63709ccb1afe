package observability_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/observability"
)

func TestHooks_CountSteps(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()

	hooks.OnStep(domain.StepResult{Step: 1, GlobalTension: 0.5})
	hooks.OnStep(domain.StepResult{
		Step:          2,
		GlobalTension: 0.25,
		Converging:    true,
		PhaseChanges: []domain.PhaseChange{
			{NodeID: "n0", From: domain.PhaseDormant, To: domain.PhaseActive},
		},
	})

	metrics, err := m.Registry().Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range metrics {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.Counter != nil:
				byName[mf.GetName()] += metric.Counter.GetValue()
			case metric.Gauge != nil:
				byName[mf.GetName()] = metric.Gauge.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, byName["manifold_steps_total"])
	assert.Equal(t, 0.25, byName["manifold_global_tension"])
	assert.Equal(t, 1.0, byName["manifold_converging"])
	assert.Equal(t, 1.0, byName["manifold_phase_transitions_total"])
}

func TestHooks_GlyphAndCollapse(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()

	hooks.OnCollapse(domain.CollapseResult{NodeID: "n0", Basis: "rest"})
	hooks.OnGlyph(domain.Glyph{ID: "g1", Stability: 0.8})
	hooks.OnConverged(domain.ConvergenceReport{Converging: true})

	count, err := testutil.GatherAndCount(m.Registry(),
		"manifold_collapses_total", "manifold_glyphs_total", "manifold_convergence_episodes_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHandler_Exposition(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnStep(domain.StepResult{Step: 1, GlobalTension: 0.1})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "manifold_steps_total 1"), body)
}
