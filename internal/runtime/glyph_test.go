package runtime

import (
	"math"
	"testing"
	"time"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

func TestMagnitudeSpectrum_ConstantSignal(t *testing.T) {
	// a constant signal concentrates all energy in the DC bin
	x := []float64{2, 2, 2, 2}
	mags := magnitudeSpectrum(x, 4)

	if math.Abs(mags[0]-8) > 1e-9 {
		t.Errorf("DC bin = %g, want 8", mags[0])
	}
	for j := 1; j < 4; j++ {
		if mags[j] > 1e-9 {
			t.Errorf("bin %d = %g, want 0", j, mags[j])
		}
	}
}

func TestMagnitudeSpectrum_SingleTone(t *testing.T) {
	// cos(2πt/n) puts magnitude n/2 in bins 1 and n-1 and nothing elsewhere
	n := 8
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * float64(i) / float64(n))
	}
	mags := magnitudeSpectrum(x, n)

	if math.Abs(mags[1]-4) > 1e-9 || math.Abs(mags[7]-4) > 1e-9 {
		t.Errorf("tone bins = %g / %g, want 4", mags[1], mags[7])
	}
	for _, j := range []int{0, 2, 3, 4, 5, 6} {
		if mags[j] > 1e-9 {
			t.Errorf("bin %d = %g, want 0", j, mags[j])
		}
	}
}

func TestMagnitudeSpectrum_ComponentsCappedAtWindow(t *testing.T) {
	mags := magnitudeSpectrum([]float64{1, 2, 3}, 10)
	if len(mags) != 3 {
		t.Errorf("expected 3 bins for a 3-sample window, got %d", len(mags))
	}
}

func TestNormalizedVariance(t *testing.T) {
	if v := normalizedVariance([]float64{3, 3, 3}); v != 0 {
		t.Errorf("uniform spectrum variance = %g, want 0", v)
	}
	if v := normalizedVariance(nil); v != 1 {
		t.Errorf("empty spectrum variance = %g, want 1", v)
	}
	if v := normalizedVariance([]float64{0, 0}); v != 0 {
		t.Errorf("zero-mean spectrum variance = %g, want 0", v)
	}
	if v := normalizedVariance([]float64{100, 0, 0, 0}); v != 1 {
		t.Errorf("spiky spectrum variance = %g, want clamp to 1", v)
	}
}

func TestEncoder_Form(t *testing.T) {
	enc := &encoder{components: 2, weights: domain.StabilityWeights{Spectral: 0.7, Attractor: 0.3}}
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	attractors := []domain.Attractor{
		{ID: "a1", Coherence: 0.5},
		{ID: "a2", Coherence: 0.9},
	}

	g := enc.form([]float64{0.004, 0.003, 0.002, 0.001}, attractors, "a2", 17, now)

	if g.ID == "" {
		t.Error("glyph missing ID")
	}
	if len(g.Signature) != 2 {
		t.Errorf("signature length %d, want 2", len(g.Signature))
	}
	if len(g.AttractorIDs) != 2 {
		t.Errorf("attractor IDs %v, want both", g.AttractorIDs)
	}
	if g.Step != 17 || !g.FormedAt.Equal(now) {
		t.Errorf("provenance fields wrong: step %d, at %v", g.Step, g.FormedAt)
	}
	if g.Stability < 0 || g.Stability > 1 {
		t.Errorf("stability %g outside [0,1]", g.Stability)
	}

	// the nearest attractor's coherence feeds the score; a more coherent
	// nearest attractor can only raise it
	g2 := enc.form([]float64{0.004, 0.003, 0.002, 0.001}, attractors, "a1", 17, now)
	if g2.Stability > g.Stability {
		t.Errorf("lower-coherence nearest raised stability: %g > %g", g2.Stability, g.Stability)
	}
}

func TestEncoder_DistinctGlyphIDs(t *testing.T) {
	enc := &encoder{components: 2, weights: domain.StabilityWeights{Spectral: 1}}
	now := time.Now()
	a := enc.form([]float64{1, 1}, nil, "", 1, now)
	b := enc.form([]float64{1, 1}, nil, "", 2, now)
	if a.ID == b.ID {
		t.Error("glyphs share an ID")
	}
}
