package manifold_test

import (
	"context"
	"errors"
	"testing"

	manifold "github.com/sylvanmoss/manifold"
	"github.com/sylvanmoss/manifold/pkg/adapters/memory"
	"github.com/sylvanmoss/manifold/pkg/adapters/topology"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

func quietConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Dimension = 2
	cfg.Transform = domain.TransformLinearMix
	cfg.HistorySize = 16
	cfg.TensionLogSize = 64
	cfg.ConvergenceWindow = 4
	cfg.GlyphComponents = 2
	cfg.DetectInterval = 1
	return cfg
}

func quietTopology() domain.TopologySpec {
	return domain.TopologySpec{
		Nodes: []domain.NodeSpec{{ID: "n0", Gain: 1}},
		Basis: []domain.BasisState{
			{Label: "rest", Vector: []float64{0, 0}},
			{Label: "fire", Vector: []float64{1, 0}},
		},
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.Dimension = 0

	_, err := manifold.New(cfg, quietTopology())
	var cerr *domain.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestStep_PersistsEmittedGlyphs(t *testing.T) {
	store := memory.NewStore()
	eng, err := manifold.New(quietConfig(), quietTopology(), manifold.WithGlyphStore(store))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		if _, err := eng.Step(ctx, []float64{0.1, 0}, 1); err != nil {
			t.Fatalf("step %d failed: %v", i+1, err)
		}
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 persisted glyph, got %d", len(stored))
	}
	if len(eng.Glyphs()) != 1 || eng.Glyphs()[0].ID != stored[0].ID {
		t.Error("persisted glyph does not match the engine's record")
	}
}

func TestStep_WithoutStore(t *testing.T) {
	eng, err := manifold.New(quietConfig(), quietTopology())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if _, err := eng.Step(context.Background(), []float64{0.1, 0}, 1); err != nil {
			t.Fatal(err)
		}
	}
	if len(eng.Glyphs()) != 1 {
		t.Fatalf("expected 1 retained glyph, got %d", len(eng.Glyphs()))
	}
}

type failingStore struct{ memory.Store }

func (f *failingStore) Append(ctx context.Context, g domain.Glyph) error {
	return errors.New("backend down")
}

func TestStep_PersistFailureKeepsStepApplied(t *testing.T) {
	eng, err := manifold.New(quietConfig(), quietTopology(), manifold.WithGlyphStore(&failingStore{}))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	var stepErr error
	var lastStep uint64
	for i := 0; i < 8; i++ {
		res, err := eng.Step(ctx, []float64{0.1, 0}, 1)
		if err != nil {
			stepErr = err
			lastStep = res.Step
			break
		}
	}
	if stepErr == nil {
		t.Fatal("expected a persistence error once the glyph was emitted")
	}
	if lastStep == 0 || eng.Snapshot().Step != lastStep {
		t.Errorf("failed persistence rolled back the step: result %d, snapshot %d", lastStep, eng.Snapshot().Step)
	}
}

func TestFormGlyph_Persists(t *testing.T) {
	store := memory.NewStore()
	eng, err := manifold.New(quietConfig(), quietTopology(), manifold.WithGlyphStore(store))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		if _, err := eng.Step(ctx, []float64{0.1, 0}, 1); err != nil {
			t.Fatal(err)
		}
	}

	g, err := eng.FormGlyph(ctx)
	if err != nil {
		t.Fatalf("explicit glyph formation failed: %v", err)
	}
	if _, err := store.Get(ctx, g.ID); err != nil {
		t.Errorf("explicitly formed glyph not persisted: %v", err)
	}
}

func TestNewFromLoader(t *testing.T) {
	loader := topology.NewStaticLoader(quietTopology())
	eng, err := manifold.NewFromLoader(context.Background(), quietConfig(), loader)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(eng.Snapshot().Nodes); got != 1 {
		t.Errorf("expected 1 node from loader, got %d", got)
	}
}

func TestNewFromLoader_PropagatesLoadError(t *testing.T) {
	loader := topology.NewFileLoader("/does/not/exist.yaml")
	if _, err := manifold.NewFromLoader(context.Background(), quietConfig(), loader); err == nil {
		t.Fatal("expected loader error")
	}
}

func TestEngine_CollapseAndReset(t *testing.T) {
	eng, err := manifold.New(quietConfig(), quietTopology())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Step(context.Background(), []float64{0.9, 0}, 1); err != nil {
		t.Fatal(err)
	}

	cr, err := eng.Collapse("n0", domain.CollapseEuclidean)
	if err != nil {
		t.Fatal(err)
	}
	if cr.Basis != "fire" {
		t.Errorf("expected fire, got %q", cr.Basis)
	}
	if err := eng.ResetNode("n0"); err != nil {
		t.Fatal(err)
	}
	if phase := eng.Snapshot().Nodes[0].Phase; phase != domain.PhaseDormant {
		t.Errorf("expected dormant after reset, got %s", phase)
	}
}
