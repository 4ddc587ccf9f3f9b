package services

import (
	"container/heap"
	"slices"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

// AStar finds shortest paths on a Graph using the straight-line distance to
// the goal as heuristic. On graphs whose edge costs are Euclidean distances
// the heuristic never overestimates, so returned costs are optimal.
//
// AStar holds no mutable state and is safe for concurrent use.
type AStar struct {
	graph     *Graph
	positions map[domain.NodeID]domain.Position
}

var _ ports.PathFinder = (*AStar)(nil)

func NewAStar(graph *Graph, positions map[domain.NodeID]domain.Position) *AStar {
	return &AStar{graph: graph, positions: positions}
}

type frontierItem struct {
	node domain.NodeID
	g    float64
	f    float64
}

// frontier orders by f-score; equal f-scores fall back to node id so the
// returned path is reproducible.
type frontier []frontierItem

func (h frontier) Len() int { return len(h) }
func (h frontier) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].node < h[j].node
}
func (h frontier) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *frontier) Push(x any)   { *h = append(*h, x.(frontierItem)) }
func (h *frontier) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (a *AStar) heuristic(n, goal domain.NodeID) float64 {
	p, ok := a.positions[n]
	if !ok {
		return 0
	}
	q, ok := a.positions[goal]
	if !ok {
		return 0
	}
	return EuclideanDistance(p, q)
}

// FindPath returns the cheapest path from start to goal. Unknown endpoints
// and unreachable goals yield Cost = +Inf and an empty path.
func (a *AStar) FindPath(start, goal domain.NodeID) ports.PathResult {
	if !a.graph.HasNode(start) || !a.graph.HasNode(goal) {
		return ports.PathResult{Cost: ports.Unreachable}
	}

	gScore := map[domain.NodeID]float64{start: 0}
	cameFrom := map[domain.NodeID]domain.NodeID{}

	open := &frontier{{node: start, g: 0, f: a.heuristic(start, goal)}}

	for open.Len() > 0 {
		cur := heap.Pop(open).(frontierItem)

		// Stale entry: a cheaper route to this node was pushed later.
		if cur.g > gScore[cur.node] {
			continue
		}

		if cur.node == goal {
			return ports.PathResult{Cost: cur.g, Path: reconstructPath(cameFrom, start, goal)}
		}

		for _, e := range a.graph.Neighbors(cur.node) {
			tentative := cur.g + e.Cost
			if best, ok := gScore[e.To]; ok && tentative >= best {
				continue
			}
			gScore[e.To] = tentative
			cameFrom[e.To] = cur.node
			heap.Push(open, frontierItem{node: e.To, g: tentative, f: tentative + a.heuristic(e.To, goal)})
		}
	}

	return ports.PathResult{Cost: ports.Unreachable}
}

// PathCost returns only the cost of FindPath.
func (a *AStar) PathCost(from, to domain.NodeID) float64 {
	return a.FindPath(from, to).Cost
}

func reconstructPath(cameFrom map[domain.NodeID]domain.NodeID, start, goal domain.NodeID) []domain.NodeID {
	path := []domain.NodeID{goal}
	for cur := goal; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
