// Package runtime implements the manifold core: sequential propagation over a
// small weighted graph plus a global latent vector, tension measurement,
// attractor detection, convergence monitoring and glyph encoding.
//
// The engine is an explicitly owned handle. Exactly one propagation step is in
// flight at a time; analytics read a consistent snapshot taken at a step
// boundary. The engine performs no I/O: stimuli come in as plain vectors,
// glyphs and attractors go out as plain records.
package runtime

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Engine is the core propagation and convergence-detection state machine.
type Engine struct {
	mu sync.RWMutex

	cfg  domain.Config
	g    *graph
	prop *propagator
	det  *detector
	mon  *monitor
	enc  *encoder
	col  *collapser

	global     []float64
	globalHist *ring
	tensions   *tensionLog // global records only
	audit      *tensionLog // per-node records and phase transitions

	attractors []domain.Attractor
	glyphs     []domain.Glyph

	step     uint64
	rng      *rand.Rand
	noiseAmp float64

	// converged latches after a glyph is emitted so one convergence episode
	// yields exactly one glyph.
	converged bool

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithLogger sets the structured logger used by the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates the configuration and topology and builds an engine.
// Validation is fatal: out-of-range parameters are reported, never corrected.
func NewEngine(cfg domain.Config, topo domain.TopologySpec, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := newGraph(topo, cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		g:          g,
		prop:       newPropagator(cfg, len(g.nodes)),
		det:        &detector{minClusterSize: cfg.MinClusterSize, maxRadius: cfg.MaxAttractorRadius},
		mon:        &monitor{window: cfg.ConvergenceWindow, epsilon: cfg.EpsilonThreshold, maxRadius: cfg.MaxAttractorRadius},
		enc:        &encoder{components: cfg.GlyphComponents, weights: cfg.Stability},
		col:        &collapser{basis: g.basis},
		global:     make([]float64, cfg.Dimension),
		globalHist: newRing(cfg.HistorySize, cfg.Dimension),
		tensions:   newTensionLog(cfg.TensionLogSize),
		audit:      newTensionLog(cfg.TensionLogSize),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		logger:     slog.Default(),
		now:        time.Now,
	}
	if cfg.NoiseVariance > 0 {
		e.noiseAmp = math.Sqrt(3 * cfg.NoiseVariance)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Step applies one propagation step. The step is atomic: on any rejection
// (dimension mismatch, non-finite result) no state changes at all. dt scales
// the node decay exponentially; 1 is the nominal step.
func (e *Engine) Step(stimulus []float64, dt float64) (domain.StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if stimulus != nil && len(stimulus) != e.cfg.Dimension {
		return domain.StepResult{}, &domain.DimensionError{Want: e.cfg.Dimension, Got: len(stimulus)}
	}
	if dt <= 0 {
		dt = 1
	}

	// Phase 1: propose into scratch buffers. Nothing owned by the engine
	// mutates until every value checks out finite.
	effDecay := math.Pow(e.cfg.Decay, dt)
	e.prop.proposeNodes(e.g, stimulus, effDecay)
	var noise func() float64
	if e.noiseAmp > 0 {
		noise = func() float64 { return (e.rng.Float64()*2 - 1) * e.noiseAmp }
	}
	e.prop.proposeGlobal(e.global, stimulus, noise)

	for i, next := range e.prop.nextNodes {
		if !allFinite(next) {
			return domain.StepResult{}, &domain.InstabilityError{NodeID: e.g.nodes[i].id, Step: e.step}
		}
	}
	if !allFinite(e.prop.nextGlobal) {
		return domain.StepResult{}, &domain.InstabilityError{Step: e.step}
	}

	// Phase 2: commit.
	now := e.now()
	e.step++
	res := domain.StepResult{
		Step:         e.step,
		NodeTensions: make(map[string]float64, len(e.g.nodes)),
	}

	for i, n := range e.g.nodes {
		next := e.prop.nextNodes[i]
		xi := sqDist(next, n.activation)
		copy(n.activation, next)
		n.history.Append(n.activation)
		n.lastTension = xi
		res.NodeTensions[n.id] = xi

		e.audit.Append(record{step: e.step, ts: now, nodeID: n.id, value: xi, above: xi > e.cfg.InstabilityThreshold})
		e.advancePhase(n, stimulus, xi, &res)
	}

	res.GlobalTension = sqDist(e.prop.nextGlobal, e.global)
	copy(e.global, e.prop.nextGlobal)
	e.globalHist.Append(e.global)
	e.tensions.Append(record{step: e.step, ts: now, value: res.GlobalTension, above: res.GlobalTension > e.cfg.EpsilonThreshold})

	// Phase 3: collapse freshly unstable nodes when configured to.
	if e.cfg.AutoCollapse {
		for _, n := range e.g.nodes {
			if n.phase != domain.PhaseUnstable {
				continue
			}
			cr, err := e.collapseLocked(n, e.cfg.Policy, &res)
			if err != nil {
				e.logger.Warn("auto-collapse skipped", "node", n.id, "err", err)
				continue
			}
			res.Collapsed = append(res.Collapsed, cr.NodeID)
		}
	}

	// Phase 4: periodic reclustering and convergence.
	if e.cfg.DetectInterval > 0 && e.step%uint64(e.cfg.DetectInterval) == 0 && e.globalHist.Len() >= e.cfg.MinClusterSize {
		e.detectLocked(0, now)
	}

	if vals := e.tensions.TailValues(e.cfg.ConvergenceWindow); len(vals) >= e.cfg.ConvergenceWindow {
		rep := e.mon.check(vals, e.global, e.attractors)
		res.Converging = rep.Converging
		switch {
		case rep.Converging && !e.converged:
			g := e.enc.form(vals, e.attractors, rep.NearestAttractor, e.step, now)
			e.glyphs = append(e.glyphs, g)
			e.converged = true
			gc := g.Clone()
			res.Glyph = &gc
			e.logger.Info("glyph emitted", "glyph", g.ID, "stability", g.Stability, "step", e.step)
			if e.hooks.OnConverged != nil {
				e.hooks.OnConverged(rep)
			}
			if e.hooks.OnGlyph != nil {
				e.hooks.OnGlyph(g.Clone())
			}
		case !rep.Converging:
			e.converged = false
		}
	}

	e.logger.Debug("step applied", "step", e.step, "tension", res.GlobalTension, "converging", res.Converging)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(res)
	}
	return res, nil
}

// advancePhase runs the node lifecycle: Dormant->Active on first stimulus,
// Active->Unstable after sustained above-threshold tension. Every transition
// appends an audit record.
func (e *Engine) advancePhase(n *node, stimulus []float64, xi float64, res *domain.StepResult) {
	switch n.phase {
	case domain.PhaseDormant:
		if (stimulus != nil && n.gain != 0) || vecNorm(n.activation) > 0 {
			e.transition(n, domain.PhaseActive, res)
		}
	case domain.PhaseActive:
		if xi > e.cfg.InstabilityThreshold {
			n.unstableStreak++
			if n.unstableStreak >= e.cfg.InstabilitySteps {
				e.transition(n, domain.PhaseUnstable, res)
			}
		} else {
			n.unstableStreak = 0
		}
	}
}

func (e *Engine) transition(n *node, to domain.NodePhase, res *domain.StepResult) {
	from := n.phase
	n.phase = to
	e.audit.Append(record{
		step:       e.step,
		ts:         e.now(),
		nodeID:     n.id,
		value:      n.lastTension,
		above:      n.lastTension > e.cfg.InstabilityThreshold,
		transition: string(from) + "->" + string(to),
	})
	if res != nil {
		res.PhaseChanges = append(res.PhaseChanges, domain.PhaseChange{NodeID: n.id, From: from, To: to})
	}
}

// Collapse deterministically projects the node's activation onto the nearest
// configured basis state and pins the node in the Collapsed phase. Reapplying
// to an unperturbed node yields the identical result.
func (e *Engine) Collapse(nodeID string, policy domain.CollapsePolicy) (domain.CollapseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.g.lookup(nodeID)
	if err != nil {
		return domain.CollapseResult{}, err
	}
	if policy == "" {
		policy = e.cfg.Policy
	}
	return e.collapseLocked(n, policy, nil)
}

func (e *Engine) collapseLocked(n *node, policy domain.CollapsePolicy, res *domain.StepResult) (domain.CollapseResult, error) {
	idx, score, err := e.col.project(n.activation, policy)
	if err != nil {
		return domain.CollapseResult{}, err
	}
	b := e.col.basis[idx]

	changed := sqDist(n.activation, b.Vector) > 0
	copy(n.activation, b.Vector)
	n.basisLabel = b.Label
	n.lastTension = 0
	n.unstableStreak = 0
	if changed {
		n.history.Append(n.activation)
	}
	if n.phase != domain.PhaseCollapsed {
		e.transition(n, domain.PhaseCollapsed, res)
	}

	cr := domain.CollapseResult{
		NodeID:     n.id,
		Basis:      b.Label,
		Similarity: score,
		Activation: append([]float64(nil), n.activation...),
	}
	e.logger.Info("node collapsed", "node", n.id, "basis", b.Label, "similarity", score)
	if e.hooks.OnCollapse != nil {
		e.hooks.OnCollapse(cr)
	}
	return cr, nil
}

// ResetNode returns a collapsed (or any) node to Dormant with a zeroed
// activation. This is the external reset edge of the lifecycle.
func (e *Engine) ResetNode(nodeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.g.lookup(nodeID)
	if err != nil {
		return err
	}
	for i := range n.activation {
		n.activation[i] = 0
	}
	n.basisLabel = ""
	n.lastTension = 0
	n.unstableStreak = 0
	if n.phase != domain.PhaseDormant {
		e.transition(n, domain.PhaseDormant, nil)
	}
	return nil
}

// Detect reclusters the current history snapshot, reinforcing known
// attractors and creating new ones. Idempotent for an unchanged snapshot.
func (e *Engine) Detect() ([]domain.Attractor, error) {
	res, err := e.DetectWithBudget(0)
	if err != nil {
		return nil, err
	}
	return res.Attractors, nil
}

// DetectWithBudget bounds the clustering pass to at most maxPairs pairwise
// distance evaluations. A truncated pass is flagged Approximate rather than
// blocking. maxPairs <= 0 means unlimited.
func (e *Engine) DetectWithBudget(maxPairs int) (domain.ClusterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.globalHist.Len() < e.cfg.MinClusterSize {
		return domain.ClusterResult{}, &domain.InsufficientHistoryError{Need: e.cfg.MinClusterSize, Have: e.globalHist.Len()}
	}
	truncated := e.detectLocked(maxPairs, e.now())
	return domain.ClusterResult{Attractors: e.attractorsCopy(), Approximate: truncated}, nil
}

func (e *Engine) detectLocked(maxPairs int, now time.Time) bool {
	samples := e.globalHist.Window(e.globalHist.Len())
	clusters, truncated := e.det.run(samples, maxPairs)
	e.attractors = e.det.reconcile(e.attractors, clusters, now)
	return truncated
}

// Check evaluates the convergence monitor over the trailing window. It is
// read-only and may run concurrently with other reads.
func (e *Engine) Check() (domain.ConvergenceReport, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.checkLocked()
}

func (e *Engine) checkLocked() (domain.ConvergenceReport, error) {
	vals := e.tensions.TailValues(e.cfg.ConvergenceWindow)
	if len(vals) < e.cfg.ConvergenceWindow {
		return domain.ConvergenceReport{}, &domain.InsufficientHistoryError{Need: e.cfg.ConvergenceWindow, Have: len(vals)}
	}
	return e.mon.check(vals, e.global, e.attractors), nil
}

// FormGlyph runs the convergence gate and, only on success, compresses the
// current window into a new glyph. A failed gate returns ErrNotConverged,
// never a degraded glyph.
func (e *Engine) FormGlyph() (domain.Glyph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rep, err := e.checkLocked()
	if err != nil {
		return domain.Glyph{}, err
	}
	if !rep.Converging {
		return domain.Glyph{}, domain.ErrNotConverged
	}
	vals := e.tensions.TailValues(e.cfg.ConvergenceWindow)
	g := e.enc.form(vals, e.attractors, rep.NearestAttractor, e.step, e.now())
	e.glyphs = append(e.glyphs, g)
	return g.Clone(), nil
}

// PruneAttractors drops attractors not reinforced since the cutoff and
// returns how many were removed. Pruning only ever happens through this
// explicit call.
func (e *Engine) PruneAttractors(cutoff time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.attractors[:0]
	removed := 0
	for _, a := range e.attractors {
		if a.ReinforcedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	e.attractors = kept
	return removed
}

// RefreshCouplings recomputes the correlation-derived edge modifiers from
// co-activation history. Callers opt in; propagation never does this on its
// own.
func (e *Engine) RefreshCouplings() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.g.refreshCouplings()
}

// Snapshot returns a consistent copy of the engine state at a step boundary.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := domain.Snapshot{
		Step:        e.step,
		TakenAt:     e.now(),
		GlobalState: append([]float64(nil), e.global...),
		Attractors:  e.attractorsCopy(),
		Glyphs:      e.glyphsCopy(),
	}
	for _, n := range e.g.nodes {
		nv := domain.NodeView{
			ID:         n.id,
			Phase:      n.phase,
			Activation: append([]float64(nil), n.activation...),
			Tension:    n.lastTension,
			Basis:      n.basisLabel,
		}
		for _, ed := range n.edges {
			nv.Edges = append(nv.Edges, domain.EdgeView{
				To:       e.g.nodes[ed.to].id,
				Weight:   ed.weight,
				Coupling: ed.coupling,
			})
		}
		snap.Nodes = append(snap.Nodes, nv)
	}
	return snap
}

// TensionHistory returns the retained global tension records, oldest first.
func (e *Engine) TensionHistory() []domain.TensionRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return exportLog(e.tensions)
}

// AuditTrail returns the retained per-node records, including every phase
// transition, oldest first.
func (e *Engine) AuditTrail() []domain.TensionRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return exportLog(e.audit)
}

func exportLog(l *tensionLog) []domain.TensionRecord {
	out := make([]domain.TensionRecord, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		rec := l.At(i)
		out = append(out, domain.TensionRecord{
			Step:           rec.step,
			Timestamp:      rec.ts,
			NodeID:         rec.nodeID,
			Value:          rec.value,
			AboveThreshold: rec.above,
			Transition:     rec.transition,
		})
	}
	return out
}

// HistoryDepth reports how many global state samples are currently retained.
func (e *Engine) HistoryDepth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globalHist.Len()
}

// Attractors returns a copy of the currently known attractors.
func (e *Engine) Attractors() []domain.Attractor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.attractorsCopy()
}

// Glyphs returns a copy of every glyph emitted so far.
func (e *Engine) Glyphs() []domain.Glyph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.glyphsCopy()
}

func (e *Engine) attractorsCopy() []domain.Attractor {
	out := make([]domain.Attractor, len(e.attractors))
	for i, a := range e.attractors {
		out[i] = a
		out[i].Centroid = append([]float64(nil), a.Centroid...)
		out[i].Members = append([]int(nil), a.Members...)
	}
	return out
}

func (e *Engine) glyphsCopy() []domain.Glyph {
	out := make([]domain.Glyph, len(e.glyphs))
	for i, g := range e.glyphs {
		out[i] = g.Clone()
	}
	return out
}

