package domain

import (
	"fmt"
	"math"
)

// Immutable planar coordinates in meters.
type Position struct {
	X float64
	Y float64
}

// Return position as [x, y] for wire formats.
func (p Position) ToList() []float64 { return []float64{p.X, p.Y} }

// PositionFromList builds a Position from an [x, y] pair.
func PositionFromList(xy []float64) (Position, error) {
	if len(xy) != 2 {
		return Position{}, fmt.Errorf("position: expected [x, y], got %d values", len(xy))
	}
	for _, v := range xy {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Position{}, fmt.Errorf("position: non-finite coordinate %g", v)
		}
	}
	return Position{X: xy[0], Y: xy[1]}, nil
}

func (p Position) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }
