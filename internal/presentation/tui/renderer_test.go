package tui_test

import (
	"strings"
	"testing"

	"github.com/sylvanmoss/manifold/internal/presentation/tui"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

func TestRunReport(t *testing.T) {
	snap := domain.Snapshot{
		Step: 42,
		Nodes: []domain.NodeView{
			{ID: "n0", Phase: domain.PhaseActive, Tension: 0.002},
			{ID: "n1", Phase: domain.PhaseCollapsed, Tension: 0, Basis: "rest"},
		},
		Attractors: []domain.Attractor{
			{ID: "a1", Members: []int{0, 1, 2}, Radius: 0.3, Coherence: 0.91},
		},
	}
	rep := domain.ConvergenceReport{
		Converging:       true,
		MeanTension:      0.001,
		Trend:            -0.0002,
		WindowSize:       16,
		NearestAttractor: "a1",
		NearestDistance:  0.05,
	}
	glyphs := []domain.Glyph{{ID: "g1", Step: 40, Stability: 0.85}}

	md := tui.RunReport(snap, rep, glyphs)

	for _, want := range []string{
		"# Run Report",
		"Steps applied: **42**",
		"Converging near attractor `a1`",
		"| n0 | active | 0.002 | - |",
		"| n1 | collapsed | 0 | rest |",
		"3 members, radius 0.3, coherence 0.91",
		"`g1` at step 40, stability 0.85",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestRunReport_NotConverging(t *testing.T) {
	md := tui.RunReport(domain.Snapshot{}, domain.ConvergenceReport{}, nil)
	if !strings.Contains(md, "Not converging") {
		t.Errorf("report missing non-convergence line:\n%s", md)
	}
	if strings.Contains(md, "## Glyphs") {
		t.Error("empty glyph list rendered a section")
	}
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("rendered output lost the heading: %q", out)
	}
}
