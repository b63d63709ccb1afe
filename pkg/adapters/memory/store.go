// Package memory provides in-memory adapters, mainly for tests and
// single-process runs.
package memory

import (
	"context"
	"sync"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Store implements ports.GlyphStore in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]domain.Glyph
	order []string
}

// NewStore creates an empty in-memory glyph store.
func NewStore() *Store {
	return &Store{byID: make(map[string]domain.Glyph)}
}

// Append stores a glyph copy. Re-appending an existing ID fails.
func (s *Store) Append(ctx context.Context, glyph domain.Glyph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[glyph.ID]; exists {
		return domain.ErrDuplicateGlyph
	}
	s.byID[glyph.ID] = glyph.Clone()
	s.order = append(s.order, glyph.ID)
	return nil
}

// Get returns a copy so callers cannot mutate stored state.
func (s *Store) Get(ctx context.Context, id string) (domain.Glyph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byID[id]
	if !ok {
		return domain.Glyph{}, domain.ErrGlyphNotFound
	}
	return g.Clone(), nil
}

// List returns copies in append order.
func (s *Store) List(ctx context.Context) ([]domain.Glyph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Glyph, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}
