package domain

import "time"

// Attractor is a stable region of recent state history: a cluster of nearby
// samples summarized by its centroid. Members reference history positions
// (oldest sample = 0) in the snapshot the detector ran against; they are
// indices, not owned copies.
type Attractor struct {
	ID           string    `json:"id"`
	Centroid     []float64 `json:"centroid"`
	Members      []int     `json:"members"`
	Radius       float64   `json:"radius"`
	Coherence    float64   `json:"coherence"` // 1/(1+variance)
	CreatedAt    time.Time `json:"created_at"`
	ReinforcedAt time.Time `json:"reinforced_at"`
}

// ClusterResult is the outcome of a detection pass. Approximate is set when an
// explicit pair budget truncated the scan.
type ClusterResult struct {
	Attractors  []Attractor `json:"attractors"`
	Approximate bool        `json:"approximate"`
}
