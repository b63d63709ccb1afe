package runtime

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

// encoder compresses a converged tension window into a glyph signature: the
// k leading components of the window's magnitude spectrum plus a stability
// score derived from their spread. The gate (ConvergenceMonitor) is enforced
// by the engine; the encoder itself only transforms.
type encoder struct {
	components int
	weights    domain.StabilityWeights
}

// form builds an immutable glyph from the tension window (oldest first), the
// attractors active at formation time, and the coherence of the nearest one.
func (e *encoder) form(window []float64, attractors []domain.Attractor, nearest string, step uint64, now time.Time) domain.Glyph {
	mags := magnitudeSpectrum(window, e.components)

	spectral := 1 - normalizedVariance(mags)
	attractorScore := 0.0
	var ids []string
	for _, a := range attractors {
		ids = append(ids, a.ID)
		if a.ID == nearest {
			attractorScore = a.Coherence
		}
	}
	stability := clamp01(e.weights.Spectral*spectral + e.weights.Attractor*attractorScore)

	return domain.Glyph{
		ID:           uuid.NewString(),
		Signature:    mags,
		AttractorIDs: ids,
		Stability:    stability,
		FormedAt:     now,
		Step:         step,
	}
}

// magnitudeSpectrum evaluates the first k bins of the discrete Fourier
// transform of x directly. Window sizes are tens of samples, so the O(n·k)
// evaluation is cheaper than pulling in an FFT.
func magnitudeSpectrum(x []float64, k int) []float64 {
	n := len(x)
	if k > n {
		k = n
	}
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		var re, im float64
		for t := 0; t < n; t++ {
			phase := -2 * math.Pi * float64(j) * float64(t) / float64(n)
			re += x[t] * math.Cos(phase)
			im += x[t] * math.Sin(phase)
		}
		out[j] = math.Hypot(re, im)
	}
	return out
}

// normalizedVariance is the variance of v scaled by the squared mean, clamped
// to [0,1]. An all-equal spectrum scores 0; a wildly uneven one approaches 1.
func normalizedVariance(v []float64) float64 {
	if len(v) == 0 {
		return 1
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, x := range v {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(v))
	return clamp01(variance / (mean * mean))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
