package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNodeNotFound matches every *NodeNotFoundError via errors.Is.
	ErrNodeNotFound = errors.New("node not found in graph")
	// ErrNoPath matches every *NoPathError via errors.Is.
	ErrNoPath = errors.New("no path between nodes")
)

// NodeNotFoundError reports an endpoint that is not a graph member. Nodes
// that exist in storage but have no valid edge are not members.
type NodeNotFoundError struct {
	Name string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node '%s' not found in graph", e.Name)
}

func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// NoPathError reports two members that are not connected.
type NoPathError struct {
	Source string
	Target string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path exists between '%s' and '%s'", e.Source, e.Target)
}

func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPath
}

// Path is a route through the graph from its first to its last node.
type Path struct {
	Nodes       []string `json:"path"`
	TotalWeight float64  `json:"total_weight"`
}

type queueItem struct {
	name     string
	distance float64
	seq      int
}

// distanceHeap is a min-heap on distance. Equal distances pop in insertion
// order.
type distanceHeap []queueItem

func (h distanceHeap) Len() int { return len(h) }
func (h distanceHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].seq < h[j].seq
}
func (h distanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *distanceHeap) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *distanceHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// ShortestPath returns the minimum-weight path from source to target using
// Dijkstra's algorithm. Neighbours are relaxed in name order, so among
// paths of equal weight the result is stable for a given graph.
//
// The source is checked for membership before the target. A path from a
// member to itself is that single node with weight 0.
func (g *Graph) ShortestPath(source, target string) (Path, error) {
	if !g.Has(source) {
		return Path{}, &NodeNotFoundError{Name: source}
	}
	if !g.Has(target) {
		return Path{}, &NodeNotFoundError{Name: target}
	}
	if source == target {
		return Path{Nodes: []string{source}, TotalWeight: 0}, nil
	}

	dist := map[string]float64{source: 0}
	parent := make(map[string]string)
	done := make(map[string]bool)

	seq := 0
	pq := &distanceHeap{{name: source, distance: 0, seq: seq}}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(queueItem)
		if done[current.name] {
			continue
		}
		done[current.name] = true

		if current.name == target {
			return Path{
				Nodes:       reconstruct(parent, source, target),
				TotalWeight: current.distance,
			}, nil
		}

		for _, next := range g.neighbours[current.name] {
			if done[next] {
				continue
			}
			candidate := current.distance + g.adjacency[current.name][next]
			if old, ok := dist[next]; ok && candidate >= old {
				continue
			}
			dist[next] = candidate
			parent[next] = current.name
			seq++
			heap.Push(pq, queueItem{name: next, distance: candidate, seq: seq})
		}
	}

	return Path{}, &NoPathError{Source: source, Target: target}
}

func reconstruct(parent map[string]string, source, target string) []string {
	path := []string{target}
	for node := target; node != source; {
		node = parent[node]
		path = append(path, node)
	}
	slices.Reverse(path)
	return path
}
