package domain

import (
	"fmt"
	"math"
)

// Transform names select the global update map. The set is closed: new
// transforms are added here, never injected at runtime.
const (
	// TransformTanhBlend applies f_i(x,s) = L·tanh(x_i) + (1-L)·s_i.
	TransformTanhBlend = "tanh-blend"
	// TransformLinearMix applies f_i(x,s) = L·x_i + (1-L)·s_i.
	TransformLinearMix = "linear-mix"
)

// CollapsePolicy selects how a continuous activation is projected onto the
// configured basis set.
type CollapsePolicy string

const (
	// CollapseCosine picks the basis state with maximum cosine similarity.
	CollapseCosine CollapsePolicy = "cosine"
	// CollapseEuclidean picks the basis state at minimum euclidean distance.
	CollapseEuclidean CollapsePolicy = "euclidean"
)

// StabilityWeights blends the spectral and attractor sub-metrics into the
// reported stability score. The defaults are tuning values, not measurements;
// they are configurable precisely because nothing validates them empirically.
type StabilityWeights struct {
	Spectral  float64 `json:"spectral" yaml:"spectral"`
	Attractor float64 `json:"attractor" yaml:"attractor"`
}

// Config holds every construction parameter of the engine. Validation is
// strict: out-of-range values are reported, never clamped.
type Config struct {
	// Dimension is the length of node activations, the global state vector
	// and every accepted stimulus.
	Dimension int `json:"dimension" yaml:"dimension"`

	// Decay is the per-step retention factor of a node's own activation,
	// in (0,1).
	Decay float64 `json:"decay" yaml:"decay"`

	// ContractionRatio is the Lipschitz bound L of the global transform,
	// in (0,1).
	ContractionRatio float64 `json:"contraction_ratio" yaml:"contraction_ratio"`

	// Transform names the global update map (see Transform* constants).
	Transform string `json:"transform" yaml:"transform"`

	// NoiseVariance is the variance of the bounded zero-mean noise added to
	// the global state each step. Zero disables noise entirely.
	NoiseVariance float64 `json:"noise_variance" yaml:"noise_variance"`

	// Seed feeds the engine-owned noise source; identical seeds and inputs
	// reproduce identical trajectories.
	Seed int64 `json:"seed" yaml:"seed"`

	// HistorySize bounds every state history ring buffer.
	HistorySize int `json:"history_size" yaml:"history_size"`

	// TensionLogSize bounds the retained tension records. Must cover at
	// least one convergence window.
	TensionLogSize int `json:"tension_log_size" yaml:"tension_log_size"`

	// MaxActivation bounds the magnitude of every activation component.
	MaxActivation float64 `json:"max_activation" yaml:"max_activation"`

	// EpsilonThreshold is the mean-tension bound below which the system is
	// considered quiet.
	EpsilonThreshold float64 `json:"epsilon_threshold" yaml:"epsilon_threshold"`

	// ConvergenceWindow is the number of trailing tension records examined
	// by convergence checks.
	ConvergenceWindow int `json:"convergence_window" yaml:"convergence_window"`

	// MinClusterSize is the smallest member count an attractor may have.
	MinClusterSize int `json:"min_cluster_size" yaml:"min_cluster_size"`

	// MaxAttractorRadius bounds the distance of any member (and of the
	// current state, for convergence) from an attractor centroid.
	MaxAttractorRadius float64 `json:"max_attractor_radius" yaml:"max_attractor_radius"`

	// DetectInterval reclusters history every N steps. Zero means clustering
	// only runs when explicitly requested.
	DetectInterval int `json:"detect_interval" yaml:"detect_interval"`

	// GlyphComponents is the number k of leading spectrum components kept in
	// an emitted glyph signature.
	GlyphComponents int `json:"glyph_components" yaml:"glyph_components"`

	// InstabilityThreshold is the per-node tension bound above which a step
	// counts toward instability.
	InstabilityThreshold float64 `json:"instability_threshold" yaml:"instability_threshold"`

	// InstabilitySteps is how many consecutive above-threshold steps move a
	// node from Active to Unstable.
	InstabilitySteps int `json:"instability_steps" yaml:"instability_steps"`

	// AutoCollapse makes the engine apply the collapse policy as soon as a
	// node turns Unstable. When false, collapse is caller-driven.
	AutoCollapse bool `json:"auto_collapse" yaml:"auto_collapse"`

	// Policy is the projection rule used by collapse operations.
	Policy CollapsePolicy `json:"policy" yaml:"policy"`

	// Stability blends the glyph sub-metrics (see StabilityWeights).
	Stability StabilityWeights `json:"stability" yaml:"stability"`
}

// DefaultConfig returns the baseline configuration. Callers override fields
// and then pass the result through Validate via engine construction.
func DefaultConfig() Config {
	return Config{
		Dimension:            128,
		Decay:                0.5,
		ContractionRatio:     0.8,
		Transform:            TransformTanhBlend,
		NoiseVariance:        0,
		Seed:                 1,
		HistorySize:          64,
		TensionLogSize:       256,
		MaxActivation:        10,
		EpsilonThreshold:     0.01,
		ConvergenceWindow:    16,
		MinClusterSize:       3,
		MaxAttractorRadius:   1.0,
		DetectInterval:       10,
		GlyphComponents:      8,
		InstabilityThreshold: 4.0,
		InstabilitySteps:     3,
		AutoCollapse:         false,
		Policy:               CollapseCosine,
		Stability:            StabilityWeights{Spectral: 0.7, Attractor: 0.3},
	}
}

// Validate reports the first out-of-range parameter as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Dimension <= 0:
		return &ConfigError{Field: "dimension", Reason: fmt.Sprintf("must be positive, got %d", c.Dimension)}
	case c.Decay <= 0 || c.Decay >= 1:
		return &ConfigError{Field: "decay", Reason: fmt.Sprintf("must be in (0,1), got %g", c.Decay)}
	case c.ContractionRatio <= 0 || c.ContractionRatio >= 1:
		return &ConfigError{Field: "contraction_ratio", Reason: fmt.Sprintf("must be in (0,1), got %g", c.ContractionRatio)}
	case c.Transform != TransformTanhBlend && c.Transform != TransformLinearMix:
		return &ConfigError{Field: "transform", Reason: fmt.Sprintf("unknown transform %q", c.Transform)}
	case c.NoiseVariance < 0 || math.IsNaN(c.NoiseVariance):
		return &ConfigError{Field: "noise_variance", Reason: fmt.Sprintf("must be non-negative, got %g", c.NoiseVariance)}
	case c.HistorySize <= 0:
		return &ConfigError{Field: "history_size", Reason: fmt.Sprintf("must be positive, got %d", c.HistorySize)}
	case c.TensionLogSize < c.ConvergenceWindow:
		return &ConfigError{Field: "tension_log_size", Reason: fmt.Sprintf("must cover the convergence window (%d), got %d", c.ConvergenceWindow, c.TensionLogSize)}
	case c.MaxActivation <= 0:
		return &ConfigError{Field: "max_activation", Reason: fmt.Sprintf("must be positive, got %g", c.MaxActivation)}
	case c.EpsilonThreshold <= 0:
		return &ConfigError{Field: "epsilon_threshold", Reason: fmt.Sprintf("must be positive, got %g", c.EpsilonThreshold)}
	case c.ConvergenceWindow < 2:
		return &ConfigError{Field: "convergence_window", Reason: fmt.Sprintf("must be at least 2, got %d", c.ConvergenceWindow)}
	case c.MinClusterSize <= 0:
		return &ConfigError{Field: "min_cluster_size", Reason: fmt.Sprintf("must be positive, got %d", c.MinClusterSize)}
	case c.MaxAttractorRadius <= 0:
		return &ConfigError{Field: "max_attractor_radius", Reason: fmt.Sprintf("must be positive, got %g", c.MaxAttractorRadius)}
	case c.DetectInterval < 0:
		return &ConfigError{Field: "detect_interval", Reason: fmt.Sprintf("must be non-negative, got %d", c.DetectInterval)}
	case c.GlyphComponents <= 0:
		return &ConfigError{Field: "glyph_components", Reason: fmt.Sprintf("must be positive, got %d", c.GlyphComponents)}
	case c.GlyphComponents > c.ConvergenceWindow:
		return &ConfigError{Field: "glyph_components", Reason: fmt.Sprintf("cannot exceed the convergence window (%d), got %d", c.ConvergenceWindow, c.GlyphComponents)}
	case c.InstabilityThreshold <= 0:
		return &ConfigError{Field: "instability_threshold", Reason: fmt.Sprintf("must be positive, got %g", c.InstabilityThreshold)}
	case c.InstabilitySteps <= 0:
		return &ConfigError{Field: "instability_steps", Reason: fmt.Sprintf("must be positive, got %d", c.InstabilitySteps)}
	case c.Policy != CollapseCosine && c.Policy != CollapseEuclidean:
		return &ConfigError{Field: "policy", Reason: fmt.Sprintf("unknown collapse policy %q", c.Policy)}
	}

	sum := c.Stability.Spectral + c.Stability.Attractor
	if c.Stability.Spectral < 0 || c.Stability.Attractor < 0 || math.Abs(sum-1) > 1e-9 {
		return &ConfigError{Field: "stability", Reason: fmt.Sprintf("weights must be non-negative and sum to 1, got %g + %g", c.Stability.Spectral, c.Stability.Attractor)}
	}
	return nil
}
