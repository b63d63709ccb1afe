package domain

import "time"

// PhaseChange records one node lifecycle transition observed during a step.
type PhaseChange struct {
	NodeID string    `json:"node_id"`
	From   NodePhase `json:"from"`
	To     NodePhase `json:"to"`
}

// StepResult summarizes one fully applied propagation step.
type StepResult struct {
	Step          uint64             `json:"step"`
	GlobalTension float64            `json:"global_tension"`
	NodeTensions  map[string]float64 `json:"node_tensions"`
	PhaseChanges  []PhaseChange      `json:"phase_changes,omitempty"`
	Collapsed     []string           `json:"collapsed,omitempty"`
	Converging    bool               `json:"converging"`

	// Glyph is non-nil when this step crossed the convergence gate and the
	// encoder emitted a signature.
	Glyph *Glyph `json:"glyph,omitempty"`
}

// CollapseResult describes a completed collapse operation.
type CollapseResult struct {
	NodeID     string    `json:"node_id"`
	Basis      string    `json:"basis"`
	Similarity float64   `json:"similarity"`
	Activation []float64 `json:"activation"`
}

// Snapshot is a consistent view of the engine taken at a step boundary.
type Snapshot struct {
	Step        uint64      `json:"step"`
	TakenAt     time.Time   `json:"taken_at"`
	GlobalState []float64   `json:"global_state"`
	Nodes       []NodeView  `json:"nodes"`
	Attractors  []Attractor `json:"attractors,omitempty"`
	Glyphs      []Glyph     `json:"glyphs,omitempty"`
}
