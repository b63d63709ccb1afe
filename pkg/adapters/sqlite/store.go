// Package sqlite persists glyphs in a local SQLite database. The table is
// insert-only: there is no update or delete path, matching the append-only
// store contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS glyphs (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	payload BLOB NOT NULL
);
`

// Store implements ports.GlyphStore on SQLite via the pure-Go driver.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store for the database at path. Open is lazy; the first
// operation creates the schema.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if s.path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create glyph table: %w", err)
	}
	s.db = db
	return db, nil
}

// Append inserts the glyph. The UNIQUE constraint on id enforces the
// append-only contract at the database level.
func (s *Store) Append(ctx context.Context, glyph domain.Glyph) error {
	db, err := s.getDB(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(glyph)
	if err != nil {
		return fmt.Errorf("failed to encode glyph %s: %w", glyph.ID, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO glyphs (id, payload) VALUES (?, ?)`, glyph.ID, payload)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGlyph
		}
		return fmt.Errorf("failed to store glyph %s: %w", glyph.ID, err)
	}
	return nil
}

// Get retrieves one glyph by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.Glyph, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return domain.Glyph{}, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM glyphs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Glyph{}, domain.ErrGlyphNotFound
	}
	if err != nil {
		return domain.Glyph{}, fmt.Errorf("failed to load glyph %s: %w", id, err)
	}
	var g domain.Glyph
	if err := json.Unmarshal(payload, &g); err != nil {
		return domain.Glyph{}, fmt.Errorf("failed to decode glyph %s: %w", id, err)
	}
	return g, nil
}

// List returns every glyph in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Glyph, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT payload FROM glyphs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list glyphs: %w", err)
	}
	defer rows.Close()

	var out []domain.Glyph
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan glyph row: %w", err)
		}
		var g domain.Glyph
		if err := json.Unmarshal(payload, &g); err != nil {
			return nil, fmt.Errorf("failed to decode glyph row: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// isUniqueViolation matches the driver's constraint error without importing
// driver internals. modernc.org/sqlite surfaces SQLITE_CONSTRAINT_UNIQUE in
// the error string.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
