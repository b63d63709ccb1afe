package stimulus

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// TextSource hash-folds text into a fixed-dimension vector. The embedding is
// deterministic: identical text always yields the identical stimulus, which
// keeps replayed runs reproducible.
type TextSource struct {
	dimension int
	text      string
}

// NewTextSource wraps a fixed text as a repeatable stimulus.
func NewTextSource(text string, dimension int) *TextSource {
	return &TextSource{dimension: dimension, text: text}
}

// Sample returns the embedding of the wrapped text.
func (t *TextSource) Sample(ctx context.Context) ([]float64, error) {
	return Embed(t.text, t.dimension), nil
}

// Embed folds the tokens of text into a dimension-length vector with
// components in [-1,1]. Token hashes pick the slot; one hash bit picks the
// sign, so unrelated texts land in mostly uncorrelated directions.
func Embed(text string, dimension int) []float64 {
	out := make([]float64, dimension)
	if dimension <= 0 {
		return out
	}

	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		slot := int(sum % uint64(dimension))
		if sum&(1<<63) != 0 {
			out[slot]--
		} else {
			out[slot]++
		}
	}

	// scale the largest component to unit magnitude
	var peak float64
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out
}
