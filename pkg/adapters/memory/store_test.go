package memory_test

import (
	"testing"

	"github.com/sylvanmoss/manifold/pkg/adapters/memory"
	"github.com/sylvanmoss/manifold/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunGlyphStoreContract(t, memory.NewStore())
}
