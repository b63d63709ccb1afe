package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylvanmoss/manifold/pkg/adapters/sqlite"
	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/ports/tests"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "glyphs.db"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	tests.RunGlyphStoreContract(t, newTestStore(t))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphs.db")
	ctx := context.Background()

	first := sqlite.NewStore(path)
	glyph := domain.Glyph{ID: "persist-1", Signature: []float64{0.5, 0.25}, Stability: 0.9, FormedAt: time.Now().UTC(), Step: 7}
	require.NoError(t, first.Append(ctx, glyph))
	require.NoError(t, first.Close())

	second := sqlite.NewStore(path)
	defer second.Close()

	got, err := second.Get(ctx, glyph.ID)
	require.NoError(t, err)
	assert.Equal(t, glyph.ID, got.ID)
	assert.Equal(t, glyph.Step, got.Step)
	assert.InDelta(t, glyph.Stability, got.Stability, 1e-12)
}

func TestSQLiteStore_MissingPath(t *testing.T) {
	store := sqlite.NewStore("")
	_, err := store.List(context.Background())
	assert.Error(t, err)
}
