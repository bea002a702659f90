// Package render turns an attack graph into a presentation artifact.
// Rendering is an optional collaborator: a failure is logged by the caller
// and never fails the recommendation that requested it.
package render

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/chameleon-sec/chameleon/pkg/graph"
)

// Renderer produces an opaque artifact string from an attack graph.
type Renderer interface {
	Render(g *graph.Graph) (string, error)
}

// DOT renders the graph as Graphviz DOT source, base64-encoded so it embeds
// cleanly in JSON payloads alongside the recommendation.
type DOT struct{}

// Render emits a digraph with service nodes in blue boxes and vulnerability
// nodes in red ellipses, edges labeled with their relevance weight.
func (DOT) Render(g *graph.Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("nil graph")
	}

	var b strings.Builder
	b.WriteString("digraph attack_surface {\n")
	b.WriteString("  rankdir=LR;\n")

	for _, n := range g.Nodes() {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		switch n.Kind {
		case graph.KindService:
			fmt.Fprintf(&b, "  %q [label=%q, shape=box, style=filled, fillcolor=skyblue];\n", n.ID, label)
		case graph.KindVulnerability:
			fmt.Fprintf(&b, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=lightcoral];\n", n.ID, label)
		default:
			fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID, label)
		}
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q [label=\"%.2f\"];\n", e.From, e.To, e.Weight)
	}
	b.WriteString("}\n")

	return base64.StdEncoding.EncodeToString([]byte(b.String())), nil
}
