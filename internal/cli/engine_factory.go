package cli

import (
	"context"
	"fmt"
	"log/slog"

	manifold "github.com/sylvanmoss/manifold"
	"github.com/sylvanmoss/manifold/pkg/adapters/memory"
	"github.com/sylvanmoss/manifold/pkg/adapters/redis"
	"github.com/sylvanmoss/manifold/pkg/adapters/sqlite"
	"github.com/sylvanmoss/manifold/pkg/adapters/topology"
	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/ports"
)

// RunOptions carries every CLI knob that shapes an engine.
type RunOptions struct {
	ConfigPath   string
	TopologyPath string

	StoreKind  string // memory, redis, sqlite
	RedisAddr  string
	SQLitePath string

	Steps    int
	Stimulus string // none, system, or literal text to embed
	Debug    bool
}

// createEngine initializes a manifold engine with standard CLI conventions.
func createEngine(ctx context.Context, opts RunOptions, logger *slog.Logger, hooks domain.LifecycleHooks) (*manifold.Engine, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	loader := topologyLoader(opts.TopologyPath, cfg.Dimension)

	store, err := createStore(opts)
	if err != nil {
		return nil, err
	}

	engineOpts := []manifold.Option{
		manifold.WithLogger(logger),
		manifold.WithLifecycleHooks(hooks),
	}
	if store != nil {
		engineOpts = append(engineOpts, manifold.WithGlyphStore(store))
	}

	engine, err := manifold.NewFromLoader(ctx, cfg, loader, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

func topologyLoader(path string, dimension int) ports.TopologyLoader {
	if path != "" {
		return topology.NewFileLoader(path)
	}
	return topology.NewStaticLoader(defaultTopology(dimension))
}

// defaultTopology is a small ring used when no topology document is given:
// three driven nodes, forward couplings, and a rest/excited basis pair.
func defaultTopology(dimension int) domain.TopologySpec {
	rest := make([]float64, dimension)
	excited := make([]float64, dimension)
	if dimension > 0 {
		excited[0] = 1
	}
	return domain.TopologySpec{
		Nodes: []domain.NodeSpec{
			{ID: "alpha", Gain: 1, Edges: []domain.EdgeSpec{{To: "beta", Weight: 0.2}}},
			{ID: "beta", Gain: 0.5, Edges: []domain.EdgeSpec{{To: "gamma", Weight: 0.2}}},
			{ID: "gamma", Gain: 0.25, Edges: []domain.EdgeSpec{{To: "alpha", Weight: 0.2}}},
		},
		Basis: []domain.BasisState{
			{Label: "rest", Vector: rest},
			{Label: "excited", Vector: excited},
		},
	}
}

func createStore(opts RunOptions) (ports.GlyphStore, error) {
	switch opts.StoreKind {
	case "", "memory":
		return memory.NewStore(), nil
	case "redis":
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires --redis-addr")
		}
		return redis.New(opts.RedisAddr, "", 0), nil
	case "sqlite":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite store requires --sqlite-path")
		}
		return sqlite.NewStore(opts.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.StoreKind)
	}
}
