// Package ports defines the boundary interfaces of the manifold core:
// append-only glyph persistence and topology loading. Adapters live in
// pkg/adapters; the reusable store contract lives in ports/tests.
package ports
