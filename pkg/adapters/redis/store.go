// Package redis persists glyphs in Redis. Records live behind two keys: a
// hash of JSON payloads by glyph ID and a list that fixes append order. Both
// are only ever added to, honoring the append-only contract.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Store implements ports.GlyphStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for glyph records.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL sets an expiration on the glyph keys. Zero (the default) keeps
// records forever, which is what an append-only archive normally wants.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "manifold:glyph:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) hashKey() string { return s.prefix + "records" }
func (s *Store) listKey() string { return s.prefix + "order" }

// Append writes the glyph JSON into the record hash and its ID onto the order
// list. HSetNX keeps the operation append-only: an existing ID is rejected.
func (s *Store) Append(ctx context.Context, glyph domain.Glyph) error {
	payload, err := json.Marshal(glyph)
	if err != nil {
		return fmt.Errorf("failed to encode glyph %s: %w", glyph.ID, err)
	}

	added, err := s.client.HSetNX(ctx, s.hashKey(), glyph.ID, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to store glyph %s: %w", glyph.ID, err)
	}
	if !added {
		return domain.ErrDuplicateGlyph
	}
	if err := s.client.RPush(ctx, s.listKey(), glyph.ID).Err(); err != nil {
		return fmt.Errorf("failed to record glyph order for %s: %w", glyph.ID, err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, s.hashKey(), s.ttl)
		s.client.Expire(ctx, s.listKey(), s.ttl)
	}
	return nil
}

// Get retrieves one glyph by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.Glyph, error) {
	payload, err := s.client.HGet(ctx, s.hashKey(), id).Result()
	if err == backend.Nil {
		return domain.Glyph{}, domain.ErrGlyphNotFound
	}
	if err != nil {
		return domain.Glyph{}, fmt.Errorf("failed to load glyph %s: %w", id, err)
	}

	var g domain.Glyph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return domain.Glyph{}, fmt.Errorf("failed to decode glyph %s: %w", id, err)
	}
	return g, nil
}

// List returns every glyph in append order.
func (s *Store) List(ctx context.Context) ([]domain.Glyph, error) {
	ids, err := s.client.LRange(ctx, s.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list glyph order: %w", err)
	}
	out := make([]domain.Glyph, 0, len(ids))
	for _, id := range ids {
		g, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
