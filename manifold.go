package manifold

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sylvanmoss/manifold/internal/runtime"
	"github.com/sylvanmoss/manifold/pkg/domain"
	"github.com/sylvanmoss/manifold/pkg/ports"
)

// Version is the release identifier reported by the CLI and adapters.
const Version = "0.4.1"

// Engine is the owned handle over one propagation core. It is safe for
// concurrent readers; steps are serialized internally.
type Engine struct {
	core   *runtime.Engine
	store  ports.GlyphStore
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	clock  func() time.Time

	// Name labels this engine in logs and reports.
	Name string
}

// Option configures the Engine at construction.
type Option func(*Engine)

// WithLogger sets a structured logger. Defaults to a discard handler so
// library consumers opt into output explicitly.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithGlyphStore wires an append-only store that receives every emitted
// glyph. Without a store, glyphs are only retained in memory.
func WithGlyphStore(store ports.GlyphStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithName labels the engine in logs and reports.
func WithName(name string) Option {
	return func(e *Engine) { e.Name = name }
}

// WithClock overrides the engine time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.clock = now }
}

// New validates the configuration and topology and builds an engine.
func New(cfg domain.Config, topo domain.TopologySpec, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if e.Name != "" {
		e.logger = e.logger.With("engine", e.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	}
	if e.clock != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithClock(e.clock))
	}

	core, err := runtime.NewEngine(cfg, topo, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	e.core = core
	return e, nil
}

// NewFromLoader builds an engine from a topology loader (YAML file, static
// spec, ...).
func NewFromLoader(ctx context.Context, cfg domain.Config, loader ports.TopologyLoader, opts ...Option) (*Engine, error) {
	topo, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load topology: %w", err)
	}
	return New(cfg, topo, opts...)
}

// Step applies one propagation step. A nil stimulus propagates pure decay.
// When the step crosses the convergence gate, the emitted glyph is handed to
// the configured store; the step itself stays applied even if persistence
// fails, and the error reports that.
func (e *Engine) Step(ctx context.Context, stimulus []float64, dt float64) (domain.StepResult, error) {
	res, err := e.core.Step(stimulus, dt)
	if err != nil {
		return res, err
	}
	if res.Glyph != nil && e.store != nil {
		if serr := e.store.Append(ctx, *res.Glyph); serr != nil {
			e.logger.Error("glyph persistence failed", "glyph", res.Glyph.ID, "err", serr)
			return res, fmt.Errorf("step %d applied but glyph %s not persisted: %w", res.Step, res.Glyph.ID, serr)
		}
	}
	return res, nil
}

// Detect reclusters the history snapshot into attractors.
func (e *Engine) Detect() ([]domain.Attractor, error) {
	return e.core.Detect()
}

// DetectWithBudget bounds the clustering pass; truncated results are flagged
// approximate.
func (e *Engine) DetectWithBudget(maxPairs int) (domain.ClusterResult, error) {
	return e.core.DetectWithBudget(maxPairs)
}

// Check evaluates convergence over the trailing tension window.
func (e *Engine) Check() (domain.ConvergenceReport, error) {
	return e.core.Check()
}

// FormGlyph explicitly runs the convergence gate and emits a glyph on
// success, persisting it when a store is configured.
func (e *Engine) FormGlyph(ctx context.Context) (domain.Glyph, error) {
	g, err := e.core.FormGlyph()
	if err != nil {
		return domain.Glyph{}, err
	}
	if e.store != nil {
		if serr := e.store.Append(ctx, g); serr != nil {
			return g, fmt.Errorf("glyph %s formed but not persisted: %w", g.ID, serr)
		}
	}
	return g, nil
}

// Collapse discretizes one node onto the configured basis set. An empty
// policy uses the configured default.
func (e *Engine) Collapse(nodeID string, policy domain.CollapsePolicy) (domain.CollapseResult, error) {
	return e.core.Collapse(nodeID, policy)
}

// ResetNode returns a node to the dormant phase with zeroed activation.
func (e *Engine) ResetNode(nodeID string) error {
	return e.core.ResetNode(nodeID)
}

// PruneAttractors drops attractors not reinforced since the cutoff.
func (e *Engine) PruneAttractors(cutoff time.Time) int {
	return e.core.PruneAttractors(cutoff)
}

// RefreshCouplings recomputes correlation-derived edge modifiers.
func (e *Engine) RefreshCouplings() {
	e.core.RefreshCouplings()
}

// Snapshot returns a consistent view taken at a step boundary.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.core.Snapshot()
}

// TensionHistory returns retained global tension records, oldest first.
func (e *Engine) TensionHistory() []domain.TensionRecord {
	return e.core.TensionHistory()
}

// AuditTrail returns retained per-node records including phase transitions.
func (e *Engine) AuditTrail() []domain.TensionRecord {
	return e.core.AuditTrail()
}

// HistoryDepth reports how many global state samples are currently retained.
func (e *Engine) HistoryDepth() int {
	return e.core.HistoryDepth()
}

// Attractors returns the currently known attractors.
func (e *Engine) Attractors() []domain.Attractor {
	return e.core.Attractors()
}

// Glyphs returns every glyph emitted by this engine instance.
func (e *Engine) Glyphs() []domain.Glyph {
	return e.core.Glyphs()
}

// Store returns the configured glyph store, or nil.
func (e *Engine) Store() ports.GlyphStore {
	return e.store
}
