package services

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"drone-delivery-service/internal/domain"
)

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrNegativeCost = errors.New("negative edge cost")
)

// Edge is one adjacency entry.
type Edge struct {
	To   domain.NodeID
	Cost float64
}

// Graph is a weighted undirected graph stored as adjacency lists.
//
// In planning runs it is built once from the scenario positions and only read
// afterwards, which makes it safe to share between goroutines. Mutation is
// not synchronized.
type Graph struct {
	adj map[domain.NodeID][]Edge
}

func NewGraph() *Graph {
	return &Graph{adj: make(map[domain.NodeID][]Edge)}
}

// AddNode inserts an empty adjacency entry. Adding an existing node is a no-op.
func (g *Graph) AddNode(id domain.NodeID) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = []Edge{}
	}
}

// AddEdge connects u and v in both directions. Both nodes must already exist.
func (g *Graph) AddEdge(u, v domain.NodeID, cost float64) error {
	if cost < 0 || math.IsNaN(cost) {
		return fmt.Errorf("add edge %s-%s: cost %g: %w", u, v, cost, ErrNegativeCost)
	}
	if _, ok := g.adj[u]; !ok {
		return fmt.Errorf("add edge %s-%s: %q: %w", u, v, u, ErrUnknownNode)
	}
	if _, ok := g.adj[v]; !ok {
		return fmt.Errorf("add edge %s-%s: %q: %w", u, v, v, ErrUnknownNode)
	}

	g.adj[u] = append(g.adj[u], Edge{To: v, Cost: cost})
	g.adj[v] = append(g.adj[v], Edge{To: u, Cost: cost})
	return nil
}

// Neighbors returns the adjacency list of id, empty for unknown nodes.
// The returned slice must not be modified.
func (g *Graph) Neighbors(id domain.NodeID) []Edge {
	return g.adj[id]
}

func (g *Graph) HasNode(id domain.NodeID) bool {
	_, ok := g.adj[id]
	return ok
}

// EuclideanDistance is the straight-line distance between two positions.
func EuclideanDistance(p1, p2 domain.Position) float64 {
	return math.Sqrt((p1.X-p2.X)*(p1.X-p2.X) + (p1.Y-p2.Y)*(p1.Y-p2.Y))
}

// BuildCompleteGraph connects every pair of positions with an edge weighted
// by their Euclidean distance. Nodes are inserted in sorted id order so
// adjacency lists are identical across runs.
func BuildCompleteGraph(positions map[domain.NodeID]domain.Position) (*Graph, error) {
	ids := make([]domain.NodeID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	g := NewGraph()
	for _, id := range ids {
		g.AddNode(id)
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			cost := EuclideanDistance(positions[ids[i]], positions[ids[j]])
			if err := g.AddEdge(ids[i], ids[j], cost); err != nil {
				return nil, fmt.Errorf("build complete graph: %w", err)
			}
		}
	}

	return g, nil
}
