package graph

import (
	"github.com/chameleon-sec/chameleon/pkg/recon"
)

// Builder constructs an attack graph from a tech stack. Graphs are rebuilt
// from scratch per analysis; the builder holds only the rule table and is
// safe for concurrent use.
type Builder struct {
	rules []CategoryRule
}

// NewBuilder returns a builder over the given rule table, or the default
// table when none is supplied.
func NewBuilder(rules ...CategoryRule) *Builder {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Builder{rules: rules}
}

// Build converts the tech stack into a directed graph of service and
// vulnerability-category nodes. Construction never fails on a well-formed
// stack; zero services produce a valid empty graph.
//
// Node identifiers are deterministic functions of service name and port, so
// rebuilding from identical input yields an isomorphic graph.
func (b *Builder) Build(stack recon.TechStack) *Graph {
	g := New()

	for _, svc := range stack.Services {
		g.AddNode(Node{
			ID:   svc.Key(),
			Kind: KindService,
			Attrs: map[string]string{
				"name":     svc.Name,
				"port":     svc.Port,
				"protocol": svc.Protocol,
				"product":  svc.Product,
				"version":  svc.Version,
			},
		})
	}

	for _, rule := range b.rules {
		var matched []recon.Service
		for _, svc := range stack.Services {
			if rule.Match(svc) {
				matched = append(matched, svc)
			}
		}
		if len(matched) == 0 {
			continue
		}

		// Category node is inserted at most once per graph.
		g.AddNode(Node{ID: rule.ID, Kind: KindVulnerability, Label: rule.Name})
		for _, svc := range matched {
			// The service node necessarily exists; AddEdge still
			// guards against dangling edges.
			_ = g.AddEdge(svc.Key(), rule.ID, rule.Weight)
		}
	}

	return g
}
