package domain

import "time"

// Glyph is the immutable compressed signature of a converged tension window:
// the k leading magnitude-spectrum components, the attractors active at
// formation time, and a stability score in [0,1]. Glyphs are created once and
// only referenced afterwards; stores persist them under an append-only
// contract.
type Glyph struct {
	ID           string    `json:"id"`
	Signature    []float64 `json:"signature"`
	AttractorIDs []string  `json:"attractor_ids,omitempty"`
	Stability    float64   `json:"stability"`
	FormedAt     time.Time `json:"formed_at"`
	Step         uint64    `json:"step"`
}

// Clone returns a deep copy so holders cannot mutate a stored glyph through
// shared slices.
func (g Glyph) Clone() Glyph {
	out := g
	out.Signature = append([]float64(nil), g.Signature...)
	out.AttractorIDs = append([]string(nil), g.AttractorIDs...)
	return out
}
