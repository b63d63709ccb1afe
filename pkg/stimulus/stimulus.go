// Package stimulus produces engine input vectors from external signals. Every
// source emits vectors of a fixed dimension so they can feed Step directly.
package stimulus

import "context"

// Source produces one stimulus vector per call.
type Source interface {
	Sample(ctx context.Context) ([]float64, error)
}
