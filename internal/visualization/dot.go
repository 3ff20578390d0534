// Package visualization renders evaluated argumentation networks as
// Graphviz DOT, JSON and self-contained HTML charts.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/store"
)

// labelColors maps final labels to DOT fill colors.
var labelColors = map[acceptance.Label]string{
	acceptance.Accepted:  "mediumseagreen",
	acceptance.Rejected:  "tomato",
	acceptance.Undecided: "lightgray",
}

// RenderDOT produces a Graphviz digraph of the network. Nodes are filled by
// final label and show their initial and final values.
func RenderDOT(g *store.Graph, c acceptance.Classifier) string {
	var b strings.Builder
	b.WriteString("digraph gris {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [arrowhead=normal];\n\n")

	for i := 0; i < g.Len(); i++ {
		a := g.Argument(i)
		final := c.LabelAt(g, i, acceptance.FinalRound)
		label := fmt.Sprintf("%s\n%.2f → %.2f", truncate(a.ID, 40), g.Value(i, 0), g.Current(i))
		b.WriteString(fmt.Sprintf("  %q [label=%q, fillcolor=%q, tooltip=%q];\n",
			a.ID, label, labelColors[final], final.String()))
	}
	if len(g.Attacks()) > 0 {
		b.WriteString("\n")
	}

	for _, e := range g.Attacks() {
		b.WriteString(fmt.Sprintf("  %q -> %q;\n", e.Source, e.Target))
	}

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a JSON graph representation with nodes and edges arrays.
func RenderJSON(g *store.Graph, c acceptance.Classifier) map[string]interface{} {
	nodes := make([]map[string]interface{}, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		a := g.Argument(i)
		nodes = append(nodes, map[string]interface{}{
			"id":            a.ID,
			"strength":      a.Strength,
			"values":        a.Values,
			"initial_label": c.LabelAt(g, i, 0).String(),
			"final_label":   c.LabelAt(g, i, acceptance.FinalRound).String(),
		})
	}

	edges := make([]map[string]interface{}, 0, len(g.Attacks()))
	for _, e := range g.Attacks() {
		edges = append(edges, map[string]interface{}{
			"source": e.Source,
			"target": e.Target,
		})
	}

	return map[string]interface{}{
		"nodes":      nodes,
		"edges":      edges,
		"node_count": len(nodes),
		"edge_count": len(edges),
		"rounds":     g.Rounds(),
	}
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
