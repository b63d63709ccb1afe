package ports

import (
	"context"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// GlyphStore persists emitted glyphs under an append-only contract: records
// are written once, never updated, never deleted. The engine core never calls
// a store directly; the facade hands emitted glyphs over at step boundaries.
type GlyphStore interface {
	// Append stores a new glyph. Returns domain.ErrDuplicateGlyph when the
	// ID already exists.
	Append(ctx context.Context, glyph domain.Glyph) error

	// Get retrieves a glyph by ID. Returns domain.ErrGlyphNotFound when the
	// ID does not exist.
	Get(ctx context.Context, id string) (domain.Glyph, error)

	// List returns every stored glyph in append order.
	List(ctx context.Context) ([]domain.Glyph, error)
}

// TopologyLoader supplies the graph definition consumed at engine
// construction.
type TopologyLoader interface {
	Load(ctx context.Context) (domain.TopologySpec, error)
}
