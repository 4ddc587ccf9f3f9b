package services

import (
	"math"
	"testing"

	"drone-delivery-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a-b-c on the x axis with a long direct a-c edge.
func line(t *testing.T) *AStar {
	t.Helper()
	positions := map[domain.NodeID]domain.Position{
		"a": {X: 0, Y: 0},
		"b": {X: 1, Y: 0},
		"c": {X: 2, Y: 0},
		"d": {X: 9, Y: 9},
	}
	g := NewGraph()
	for id := range positions {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b", 1))
	require.NoError(t, g.AddEdge("b", "c", 1))
	require.NoError(t, g.AddEdge("a", "c", 5))
	return NewAStar(g, positions)
}

func TestAStarPrefersCheaperDetour(t *testing.T) {
	res := line(t).FindPath("a", "c")

	assert.Equal(t, 2.0, res.Cost)
	assert.Equal(t, []domain.NodeID{"a", "b", "c"}, res.Path)
	assert.True(t, res.Reachable())
}

func TestAStarSameNode(t *testing.T) {
	res := line(t).FindPath("b", "b")

	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, []domain.NodeID{"b"}, res.Path)
}

func TestAStarUnreachableAndUnknown(t *testing.T) {
	a := line(t)

	res := a.FindPath("a", "d")
	assert.True(t, math.IsInf(res.Cost, 1))
	assert.Empty(t, res.Path)
	assert.False(t, res.Reachable())

	res = a.FindPath("a", "zzz")
	assert.True(t, math.IsInf(res.Cost, 1))
	assert.Empty(t, res.Path)

	assert.True(t, math.IsInf(a.PathCost("zzz", "a"), 1))
}

func TestAStarCompleteGraphMatchesEuclidean(t *testing.T) {
	positions := map[domain.NodeID]domain.Position{
		domain.DroneNode(1):    {X: 0, Y: 0},
		domain.DroneNode(2):    {X: -3, Y: 7},
		domain.DeliveryNode(1): {X: 3, Y: 4},
		domain.DeliveryNode(2): {X: 10, Y: -2},
	}
	g, err := BuildCompleteGraph(positions)
	require.NoError(t, err)
	a := NewAStar(g, positions)

	for from, p := range positions {
		for to, q := range positions {
			fwd := a.PathCost(from, to)
			assert.InDelta(t, EuclideanDistance(p, q), fwd, 1e-9, "%s->%s", from, to)
			assert.InDelta(t, fwd, a.PathCost(to, from), 1e-9, "symmetry %s<->%s", from, to)
		}
	}
}

func TestAStarTriangleInequality(t *testing.T) {
	positions := map[domain.NodeID]domain.Position{
		domain.DroneNode(1):    {X: 0, Y: 0},
		domain.DroneNode(2):    {X: 12, Y: 5},
		domain.DeliveryNode(1): {X: 3, Y: 4},
		domain.DeliveryNode(2): {X: -6, Y: 8},
		domain.DeliveryNode(3): {X: 7, Y: -1},
	}
	g, err := BuildCompleteGraph(positions)
	require.NoError(t, err)

	// A sparse detour graph must satisfy it as well.
	sparse := line(t)

	for _, a := range []*AStar{NewAStar(g, positions), sparse} {
		nodes := make([]domain.NodeID, 0, len(a.positions))
		for id := range a.positions {
			nodes = append(nodes, id)
		}
		for _, x := range nodes {
			for _, y := range nodes {
				for _, z := range nodes {
					xz, xy, yz := a.PathCost(x, z), a.PathCost(x, y), a.PathCost(y, z)
					if math.IsInf(xy, 1) || math.IsInf(yz, 1) {
						continue
					}
					assert.LessOrEqual(t, xz, xy+yz+1e-9, "%s->%s via %s", x, z, y)
				}
			}
		}
	}
}
