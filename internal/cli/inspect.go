package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sylvanmoss/manifold/internal/presentation/graph"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Inspect loads the configuration and topology, builds an engine without
// stepping it, and prints the resulting graph as Mermaid or JSON.
func Inspect(opts RunOptions, mermaid bool) error {
	logger := createLogger(opts.Debug)

	engine, err := createEngine(context.Background(), opts, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}

	snap := engine.Snapshot()
	if mermaid {
		fmt.Print(graph.GenerateMermaid(snap))
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
