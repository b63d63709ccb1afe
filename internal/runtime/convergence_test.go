package runtime

import (
	"math"
	"testing"
	"time"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

func nearAttractor(centroid []float64) domain.Attractor {
	return domain.Attractor{
		ID:           "a-near",
		Centroid:     centroid,
		Coherence:    0.9,
		ReinforcedAt: time.Now(),
	}
}

func TestMonitor_ConvergingRequiresAllThree(t *testing.T) {
	m := &monitor{window: 4, epsilon: 0.01, maxRadius: 1.0}
	quiet := []float64{0.004, 0.003, 0.002, 0.001}
	state := []float64{0.1, 0}

	tests := []struct {
		name       string
		values     []float64
		attractors []domain.Attractor
		want       bool
	}{
		{"quiet and settled", quiet, []domain.Attractor{nearAttractor([]float64{0, 0})}, true},
		{"no attractor in range", quiet, []domain.Attractor{nearAttractor([]float64{9, 9})}, false},
		{"no attractors at all", quiet, nil, false},
		{"mean above epsilon", []float64{0.5, 0.4, 0.3, 0.2}, []domain.Attractor{nearAttractor([]float64{0, 0})}, false},
		{"rising trend", []float64{0.001, 0.001, 0.004, 0.004}, []domain.Attractor{nearAttractor([]float64{0, 0})}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := m.check(tc.values, state, tc.attractors)
			if rep.Converging != tc.want {
				t.Errorf("Converging = %v, want %v (report %+v)", rep.Converging, tc.want, rep)
			}
		})
	}
}

func TestMonitor_ReportFields(t *testing.T) {
	m := &monitor{window: 4, epsilon: 0.01, maxRadius: 1.0}
	values := []float64{0.008, 0.006, 0.004, 0.002}
	state := []float64{0.5, 0}
	attractors := []domain.Attractor{
		nearAttractor([]float64{0.4, 0}),
		{ID: "a-far", Centroid: []float64{5, 0}},
	}

	rep := m.check(values, state, attractors)
	if math.Abs(rep.MeanTension-0.005) > 1e-12 {
		t.Errorf("mean = %g, want 0.005", rep.MeanTension)
	}
	// trend = mean(second half) - mean(first half)
	if math.Abs(rep.Trend-(-0.004)) > 1e-12 {
		t.Errorf("trend = %g, want -0.004", rep.Trend)
	}
	if rep.WindowSize != 4 {
		t.Errorf("window size = %d, want 4", rep.WindowSize)
	}
	if rep.NearestAttractor != "a-near" {
		t.Errorf("nearest = %q, want a-near", rep.NearestAttractor)
	}
	if math.Abs(rep.NearestDistance-0.1) > 1e-12 {
		t.Errorf("nearest distance = %g, want 0.1", rep.NearestDistance)
	}
	if !rep.Converging {
		t.Error("expected converging report")
	}
}

func TestMonitor_FlatWindowHasZeroTrend(t *testing.T) {
	m := &monitor{window: 4, epsilon: 0.01, maxRadius: 1.0}
	rep := m.check([]float64{0.002, 0.002, 0.002, 0.002}, []float64{0, 0}, []domain.Attractor{nearAttractor([]float64{0, 0})})
	if rep.Trend != 0 {
		t.Errorf("flat window trend = %g, want 0", rep.Trend)
	}
	if !rep.Converging {
		t.Error("flat quiet window near an attractor must converge")
	}
}

func TestMonitor_EmptyWindow(t *testing.T) {
	m := &monitor{window: 4, epsilon: 0.01, maxRadius: 1.0}
	rep := m.check(nil, []float64{0, 0}, nil)
	if rep.Converging {
		t.Error("empty window reported converging")
	}
}
