package domain

import "time"

// TensionRecord is one append-only measurement of state change. NodeID is
// empty for the global state. Phase transitions write a record with the
// Transition field set so the lifecycle stays auditable.
type TensionRecord struct {
	Step           uint64    `json:"step"`
	Timestamp      time.Time `json:"timestamp"`
	NodeID         string    `json:"node_id,omitempty"`
	Value          float64   `json:"value"`
	AboveThreshold bool      `json:"above_threshold"`
	Transition     string    `json:"transition,omitempty"` // e.g. "active->unstable"
}

// ConvergenceReport is the read-only result of a convergence check.
type ConvergenceReport struct {
	Converging       bool    `json:"converging"`
	MeanTension      float64 `json:"mean_tension"`
	Trend            float64 `json:"trend"` // second-half mean minus first-half mean
	WindowSize       int     `json:"window_size"`
	NearestAttractor string  `json:"nearest_attractor,omitempty"`
	NearestDistance  float64 `json:"nearest_distance"`
}
