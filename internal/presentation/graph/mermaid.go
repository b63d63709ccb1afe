// Package graph renders engine snapshots as Mermaid diagrams for inspection
// tooling.
package graph

import (
	"fmt"
	"strings"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the node graph. Shapes
// encode the lifecycle phase:
//   - Dormant: [Rectangle]
//   - Active: ((Circle))
//   - Unstable: {{Hexagon}}
//   - Collapsed: [[Subroutine]], annotated with the basis label
//
// Edges carry their weight; a coupling below 1 is shown alongside it.
func GenerateMermaid(snap domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range snap.Nodes {
		safeID := sanitizeMermaidID(n.ID)

		opener, closer := "[", "]"
		switch n.Phase {
		case domain.PhaseActive:
			opener, closer = "((", "))"
		case domain.PhaseUnstable:
			opener, closer = "{{", "}}"
		case domain.PhaseCollapsed:
			opener, closer = "[[", "]]"
		}

		label := n.ID
		if n.Phase == domain.PhaseCollapsed && n.Basis != "" {
			label = fmt.Sprintf("%s → %s", n.ID, n.Basis)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, e := range n.Edges {
			safeTo := sanitizeMermaidID(e.To)
			edgeLabel := fmt.Sprintf("%.2g", e.Weight)
			if e.Coupling < 1 {
				edgeLabel = fmt.Sprintf("%.2g×%.2g", e.Weight, e.Coupling)
			}
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, edgeLabel, safeTo))
		}
	}

	sb.WriteString("\n    classDef unstable fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef collapsed fill:#e8f5e9,stroke:#1b5e20,stroke-width:2px,color:#000;\n")
	for _, n := range snap.Nodes {
		switch n.Phase {
		case domain.PhaseUnstable:
			sb.WriteString(fmt.Sprintf("    class %s unstable;\n", sanitizeMermaidID(n.ID)))
		case domain.PhaseCollapsed:
			sb.WriteString(fmt.Sprintf("    class %s collapsed;\n", sanitizeMermaidID(n.ID)))
		}
	}

	if len(snap.Attractors) > 0 {
		sb.WriteString("\n    subgraph attractors\n")
		for i, a := range snap.Attractors {
			sb.WriteString(fmt.Sprintf("        a%d[\"%s (coh %.2f, r %.2f)\"]\n", i, shortID(a.ID), a.Coherence, a.Radius))
		}
		sb.WriteString("    end\n")
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
