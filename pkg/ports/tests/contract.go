// Package tests provides the reusable behavioral contract every GlyphStore
// adapter must satisfy. Adapter test files call RunGlyphStoreContract with a
// fresh store instance.
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/ports"
)

// RunGlyphStoreContract verifies the append-only store semantics.
func RunGlyphStoreContract(t *testing.T, store ports.GlyphStore) {
	t.Helper()
	ctx := context.Background()

	first := domain.Glyph{
		ID:           "glyph-contract-1",
		Signature:    []float64{3.2, 1.1, 0.4},
		AttractorIDs: []string{"attr-a"},
		Stability:    0.87,
		FormedAt:     time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Step:         42,
	}
	second := domain.Glyph{
		ID:        "glyph-contract-2",
		Signature: []float64{0.9, 0.8},
		Stability: 0.41,
		FormedAt:  first.FormedAt.Add(time.Minute),
		Step:      99,
	}

	t.Run("Get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		if !errors.Is(err, domain.ErrGlyphNotFound) {
			t.Fatalf("expected ErrGlyphNotFound, got %v", err)
		}
	})

	t.Run("Append and Get", func(t *testing.T) {
		if err := store.Append(ctx, first); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		got, err := store.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != first.ID || got.Stability != first.Stability || got.Step != first.Step {
			t.Errorf("roundtrip mismatch: got %+v", got)
		}
		if len(got.Signature) != len(first.Signature) {
			t.Errorf("signature length mismatch: got %d", len(got.Signature))
		}
	})

	t.Run("Duplicate append rejected", func(t *testing.T) {
		err := store.Append(ctx, first)
		if !errors.Is(err, domain.ErrDuplicateGlyph) {
			t.Fatalf("expected ErrDuplicateGlyph, got %v", err)
		}
	})

	t.Run("List preserves append order", func(t *testing.T) {
		if err := store.Append(ctx, second); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		all, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 glyphs, got %d", len(all))
		}
		if all[0].ID != first.ID || all[1].ID != second.ID {
			t.Errorf("order not preserved: %s, %s", all[0].ID, all[1].ID)
		}
	})

	t.Run("Stored glyph is isolated from caller mutation", func(t *testing.T) {
		got, err := store.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		got.Signature[0] = -999
		again, err := store.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if again.Signature[0] == -999 {
			t.Error("store leaked a mutable reference to its internal glyph")
		}
	})
}
