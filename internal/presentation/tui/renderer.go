package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// RunReport formats a finished run as markdown for the terminal renderer.
func RunReport(snap domain.Snapshot, rep domain.ConvergenceReport, glyphs []domain.Glyph) string {
	var sb strings.Builder

	sb.WriteString("# Run Report\n\n")
	fmt.Fprintf(&sb, "- Steps applied: **%d**\n", snap.Step)
	fmt.Fprintf(&sb, "- Mean tension: `%.6g` over the last %d steps\n", rep.MeanTension, rep.WindowSize)
	fmt.Fprintf(&sb, "- Trend: `%.6g`\n", rep.Trend)
	if rep.Converging {
		fmt.Fprintf(&sb, "- Converging near attractor `%s` (distance %.4g)\n", rep.NearestAttractor, rep.NearestDistance)
	} else {
		sb.WriteString("- Not converging\n")
	}

	sb.WriteString("\n## Nodes\n\n")
	sb.WriteString("| Node | Phase | Tension | Basis |\n")
	sb.WriteString("|------|-------|---------|-------|\n")
	for _, n := range snap.Nodes {
		basis := n.Basis
		if basis == "" {
			basis = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %.4g | %s |\n", n.ID, n.Phase, n.Tension, basis)
	}

	if len(snap.Attractors) > 0 {
		sb.WriteString("\n## Attractors\n\n")
		for _, a := range snap.Attractors {
			fmt.Fprintf(&sb, "- `%s`: %d members, radius %.4g, coherence %.2f\n",
				a.ID, len(a.Members), a.Radius, a.Coherence)
		}
	}

	if len(glyphs) > 0 {
		sb.WriteString("\n## Glyphs\n\n")
		for _, g := range glyphs {
			fmt.Fprintf(&sb, "- `%s` at step %d, stability %.2f\n", g.ID, g.Step, g.Stability)
		}
	}

	return sb.String()
}
