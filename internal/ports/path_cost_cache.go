package ports

import "context"

// Port: persistent cache of path costs.
// Namespace identifies the graph the costs were computed on, so caches can be
// shared between scenarios without mixing results.
type PathCostCache interface {
	// Fetch cached costs from one origin to many destinations. Misses are absent from the map.
	GetMany(ctx context.Context, namespace, origin string, destinations []string) (map[string]float64, error)
	// Store costs from one origin to many destinations.
	PutMany(ctx context.Context, namespace, origin string, costs map[string]float64) error
}
