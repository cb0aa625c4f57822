package graph

import (
	"math"

	"github.com/unet360/unet360/backend/pkg/common"
)

type edgeKey struct {
	a, b string
}

// Build derives the traversable graph from a full set of node records.
//
// An edge A-B exists only when A declares B and the first slot of B that
// names A carries exactly the same weight. Declarations towards unknown
// nodes, one-sided declarations, mismatched weights and weights that are
// negative or not finite produce no edge. Nodes left without any edge are
// not part of the result. Build never fails; bad data only shrinks the
// graph.
func Build(records []common.NodeRecord) *Graph {
	byName := make(map[string]*common.NodeRecord, len(records))
	for i := range records {
		if _, dup := byName[records[i].Name]; dup {
			continue
		}
		byName[records[i].Name] = &records[i]
	}

	seen := make(map[edgeKey]struct{})
	edges := make([]Edge, 0)

	for i := range records {
		node := &records[i]
		if byName[node.Name] != node {
			continue
		}

		for _, slot := range node.Adjacency {
			neighbourName, weight, ok := slot.Neighbor()
			if !ok || !usableWeight(weight) {
				continue
			}
			neighbour, known := byName[neighbourName]
			if !known {
				continue
			}
			backWeight, declared := firstDeclaration(neighbour.Adjacency, node.Name)
			if !declared || backWeight != weight {
				continue
			}

			e := newEdge(node.Name, neighbourName, weight)
			key := edgeKey{a: e.A, b: e.B}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, e)
		}
	}

	return fromEdges(edges)
}

// firstDeclaration returns the weight of the first slot in adj that names
// target.
func firstDeclaration(adj common.Adjacency, target string) (float64, bool) {
	for _, slot := range adj {
		if name, weight, ok := slot.Neighbor(); ok && name == target {
			return weight, true
		}
	}
	return 0, false
}

func usableWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0)
}
