package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIsIdempotent(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "http:80", Kind: KindService, Attrs: map[string]string{"name": "http"}})
	g.AddNode(Node{ID: "http:80", Kind: KindService, Attrs: map[string]string{"name": "overwritten"}})

	require.Equal(t, 1, g.NodeCount())
	n, ok := g.Node("http:80")
	require.True(t, ok)
	assert.Equal(t, "http", n.Attrs["name"], "first insertion wins")
}

func TestAddEdgeRejectsDanglingEdges(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "http:80", Kind: KindService})

	err := g.AddEdge("http:80", "web_vulns", 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web_vulns")

	err = g.AddEdge("ghost", "http:80", 0.5)
	require.Error(t, err)

	assert.Equal(t, 0, g.EdgeCount())
}

func TestNodesPreserveInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		g.AddNode(Node{ID: id, Kind: KindService})
	}

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	for i, id := range ids {
		assert.Equal(t, id, nodes[i].ID)
	}
}

func TestEdgesTo(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "http:80", Kind: KindService})
	g.AddNode(Node{ID: "https:443", Kind: KindService})
	g.AddNode(Node{ID: "web_vulns", Kind: KindVulnerability})
	require.NoError(t, g.AddEdge("http:80", "web_vulns", 0.7))
	require.NoError(t, g.AddEdge("https:443", "web_vulns", 0.7))

	edges := g.EdgesTo("web_vulns")
	require.Len(t, edges, 2)
	assert.Equal(t, "http:80", edges[0].From)
	assert.Equal(t, "https:443", edges[1].From)
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "http:80", Kind: KindService, Attrs: map[string]string{"port": "80"}})
	g.AddNode(Node{ID: "web_vulns", Kind: KindVulnerability, Label: "Web Application Vulns"})
	require.NoError(t, g.AddEdge("http:80", "web_vulns", 0.7))

	data, err := json.Marshal(g)
	require.NoError(t, err)

	reloaded := New()
	require.NoError(t, json.Unmarshal(data, reloaded))

	assert.Equal(t, g.Nodes(), reloaded.Nodes())
	assert.Equal(t, g.Edges(), reloaded.Edges())
}

func TestEmptyGraphMarshalsToEmptySets(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
}
