package ports

import (
	"math"

	"drone-delivery-service/internal/domain"
)

// Unreachable is the cost reported when no path exists between two nodes.
var Unreachable = math.Inf(1)

// Shortest path between two graph nodes. An unreachable goal is reported as
// Cost = +Inf with an empty Path, never as an error.
type PathResult struct {
	Cost float64
	Path []domain.NodeID
}

func (r PathResult) Reachable() bool { return !math.IsInf(r.Cost, 1) }

// Contract for retrieving the travel cost between two graph nodes.
// Implementations must be safe for concurrent use.
type PathCoster interface {
	PathCost(from, to domain.NodeID) float64
}

// Optional extension of PathCoster that also returns the node sequence.
type PathFinder interface {
	PathCoster
	FindPath(from, to domain.NodeID) PathResult
}
