// Package graph models the attack-surface graph: a directed graph relating
// discovered services to vulnerability categories with relevance weights.
package graph

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the two node kinds in an attack graph.
type Kind string

const (
	KindService       Kind = "service"
	KindVulnerability Kind = "vulnerability"
)

// Node is one vertex of the attack graph. Service nodes carry the discovered
// service fields as attributes; vulnerability nodes carry a display label.
type Node struct {
	ID    string            `json:"id"`
	Kind  Kind              `json:"kind"`
	Label string            `json:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Edge is a directed service → vulnerability edge. Weight is category
// relevance in [0,1]; weights are independent, not a distribution.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Graph is a directed graph with insertion-ordered nodes so that building
// twice from the same input serializes identically.
type Graph struct {
	nodes map[string]Node
	order []string
	edges []Edge
}

// New returns an empty graph. An empty graph is a valid analysis result.
func New() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// AddNode inserts a node, keyed by ID. Insertion is idempotent: adding an
// existing ID is a no-op, preserving the first node's attributes.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// AddEdge links two existing nodes. Edges to or from absent nodes are
// rejected; the builder never creates dangling edges.
func (g *Graph) AddEdge(from, to string, weight float64) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("edge source %q not in graph", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("edge target %q not in graph", to)
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgesTo returns the edges pointing at the given node ID.
func (g *Graph) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// document is the serialized node/edge form embedded in engagement records.
type document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// MarshalJSON serializes the graph as explicit node and edge sets.
func (g *Graph) MarshalJSON() ([]byte, error) {
	doc := document{Nodes: g.Nodes(), Edges: g.Edges()}
	if doc.Nodes == nil {
		doc.Nodes = []Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON rebuilds the graph from its serialized form. Reloaded graphs
// are used for display and audit only, never re-analyzed.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	g.nodes = make(map[string]Node, len(doc.Nodes))
	g.order = g.order[:0]
	g.edges = g.edges[:0]
	for _, n := range doc.Nodes {
		g.AddNode(n)
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return err
		}
	}
	return nil
}
