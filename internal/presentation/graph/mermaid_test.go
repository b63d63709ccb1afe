package graph_test

import (
	"strings"
	"testing"

	"github.com/sylvanmoss/manifold/internal/presentation/graph"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snap     domain.Snapshot
		contains []string
	}{
		{
			name: "Phase Shapes",
			snap: domain.Snapshot{Nodes: []domain.NodeView{
				{ID: "idle", Phase: domain.PhaseDormant},
				{ID: "live", Phase: domain.PhaseActive},
				{ID: "hot", Phase: domain.PhaseUnstable},
				{ID: "done", Phase: domain.PhaseCollapsed, Basis: "rest"},
			}},
			contains: []string{
				`idle["idle"]`,
				`live(("live"))`,
				`hot{{"hot"}}`,
				`done[["done → rest"]]`,
				"class hot unstable;",
				"class done collapsed;",
			},
		},
		{
			name: "Edge Labels",
			snap: domain.Snapshot{Nodes: []domain.NodeView{
				{ID: "a", Edges: []domain.EdgeView{{To: "b", Weight: 0.5, Coupling: 1}}},
				{ID: "b", Edges: []domain.EdgeView{{To: "a", Weight: 0.25, Coupling: 0.5}}},
			}},
			contains: []string{
				`a -- "0.5" --> b`,
				`b -- "0.25×0.5" --> a`,
			},
		},
		{
			name: "ID Sanitization",
			snap: domain.Snapshot{Nodes: []domain.NodeView{
				{ID: "sensor-left", Phase: domain.PhaseDormant},
			}},
			contains: []string{
				`sensor_left["sensor-left"]`,
			},
		},
		{
			name: "Attractor Subgraph",
			snap: domain.Snapshot{
				Nodes: []domain.NodeView{{ID: "a"}},
				Attractors: []domain.Attractor{
					{ID: "0123456789abcdef", Coherence: 0.9, Radius: 0.5},
				},
			},
			contains: []string{
				"subgraph attractors",
				`a0["01234567 (coh 0.90, r 0.50)"]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing flowchart header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}
