package graph

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unet360/unet360/backend/pkg/store"
)

// RefreshStats describes a completed refresh.
type RefreshStats struct {
	Records  int
	Nodes    int
	Edges    int
	Duration time.Duration
}

// Navigator owns the currently installed graph and rebuilds it from a node
// source on demand. Reads load the installed graph without locking;
// Refresh builds a complete replacement before swapping it in with a single
// atomic store, so readers only ever see a finished graph.
type Navigator struct {
	source    store.NodeSource
	current   atomic.Pointer[Graph]
	refreshMu sync.Mutex
	onRefresh func(RefreshStats)
}

type NavigatorOption func(*Navigator)

// WithRefreshHook registers fn to be called after every installed rebuild.
func WithRefreshHook(fn func(RefreshStats)) NavigatorOption {
	return func(n *Navigator) {
		n.onRefresh = fn
	}
}

// NewNavigator creates a Navigator with an empty graph installed. Call
// Refresh to load the first graph.
func NewNavigator(source store.NodeSource, opts ...NavigatorOption) *Navigator {
	n := &Navigator{source: source}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(n)
	}
	n.current.Store(Empty())
	return n
}

// Refresh reloads all node records and installs a freshly built graph.
// Concurrent calls are serialized. When the source fails the installed
// graph is kept and the error is returned.
func (n *Navigator) Refresh(ctx context.Context) error {
	n.refreshMu.Lock()
	defer n.refreshMu.Unlock()

	start := time.Now()
	records, err := n.source.GetAllNodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}

	g := Build(records)
	n.current.Store(g)

	if n.onRefresh != nil {
		n.onRefresh(RefreshStats{
			Records:  len(records),
			Nodes:    g.NodeCount(),
			Edges:    g.EdgeCount(),
			Duration: time.Since(start),
		})
	}
	return nil
}

// Graph returns the installed graph.
func (n *Navigator) Graph() *Graph {
	return n.current.Load()
}

// ShortestPath computes a path on the installed graph.
func (n *Navigator) ShortestPath(source, target string) (Path, error) {
	return n.Graph().ShortestPath(source, target)
}

// AdjacentOf returns the neighbours of name on the installed graph.
func (n *Navigator) AdjacentOf(name string) map[string]float64 {
	return n.Graph().Adjacent(name)
}

// AllGraphNodes returns every member of the installed graph.
func (n *Navigator) AllGraphNodes() []NodeAdjacency {
	return n.Graph().AllNodes()
}

// Has reports whether name is a member of the installed graph.
func (n *Navigator) Has(name string) bool {
	return n.Graph().Has(name)
}
