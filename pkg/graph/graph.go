package graph

import (
	"maps"
	"slices"
	"strings"
)

// Edge is an undirected, weighted connection between two graph members.
// Endpoints are normalized so that A <= B.
type Edge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight float64 `json:"weight"`
}

func newEdge(u, v string, weight float64) Edge {
	if strings.Compare(u, v) > 0 {
		u, v = v, u
	}
	return Edge{A: u, B: v, Weight: weight}
}

// NodeAdjacency is a graph member together with its neighbours.
type NodeAdjacency struct {
	Name     string             `json:"name"`
	Adjacent map[string]float64 `json:"adjacent_nodes"`
}

// Graph is an immutable, undirected, weighted graph. Only nodes that take
// part in at least one edge are members.
//
// A Graph is never modified after construction, so it can be shared
// between goroutines without locking.
type Graph struct {
	adjacency map[string]map[string]float64
	// neighbours holds the keys of adjacency[n] in sorted order so that
	// traversals do not depend on map iteration order.
	neighbours map[string][]string
	nodes      []string
	edges      []Edge
}

// Empty returns a graph without nodes.
func Empty() *Graph {
	return fromEdges(nil)
}

func fromEdges(edges []Edge) *Graph {
	g := &Graph{
		adjacency:  make(map[string]map[string]float64),
		neighbours: make(map[string][]string),
		edges:      make([]Edge, 0, len(edges)),
	}

	for _, e := range edges {
		g.link(e.A, e.B, e.Weight)
		g.link(e.B, e.A, e.Weight)
		g.edges = append(g.edges, e)
	}

	g.nodes = slices.Sorted(maps.Keys(g.adjacency))
	for name, adj := range g.adjacency {
		g.neighbours[name] = slices.Sorted(maps.Keys(adj))
	}
	slices.SortFunc(g.edges, func(x, y Edge) int {
		if c := strings.Compare(x.A, y.A); c != 0 {
			return c
		}
		return strings.Compare(x.B, y.B)
	})

	return g
}

func (g *Graph) link(from, to string, weight float64) {
	adj, ok := g.adjacency[from]
	if !ok {
		adj = make(map[string]float64)
		g.adjacency[from] = adj
	}
	adj[to] = weight
}

// Has reports whether name is a member of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.adjacency[name]
	return ok
}

// Nodes returns the member names in ascending order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Edges returns all edges ordered by endpoints.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// NodeCount returns the number of members.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Adjacent returns the neighbours of name with their edge weights. The map
// is a copy and is empty when name is not a member; callers that must tell
// an unknown node from one without edges check Has.
func (g *Graph) Adjacent(name string) map[string]float64 {
	adj, ok := g.adjacency[name]
	if !ok {
		return map[string]float64{}
	}
	return maps.Clone(adj)
}

// AllNodes returns every member with its neighbours, ordered by name.
func (g *Graph) AllNodes() []NodeAdjacency {
	out := make([]NodeAdjacency, 0, len(g.nodes))
	for _, name := range g.nodes {
		out = append(out, NodeAdjacency{
			Name:     name,
			Adjacent: maps.Clone(g.adjacency[name]),
		})
	}
	return out
}
