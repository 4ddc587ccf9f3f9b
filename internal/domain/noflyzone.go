package domain

import (
	"errors"
	"fmt"
	"math"
)

var ErrDegeneratePolygon = errors.New("degenerate polygon")

// Rings enclosing less than this are treated as having no area.
const minZoneArea = 1e-9

// Polygonal region that drones may not cross while its window is active.
// The vertex ring is implicitly closed.
type NoFlyZone struct {
	ID      int
	Polygon []Position
	Active  Window
}

func (z *NoFlyZone) ActiveAt(t TimeOfDay) bool { return z.Active.Contains(t) }

// Validate rejects rings with fewer than three distinct vertices or with no
// enclosed area, such as collinear points.
func (z *NoFlyZone) Validate() error {
	ring := z.Polygon
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}

	distinct := make(map[Position]struct{}, len(ring))
	for _, p := range ring {
		distinct[p] = struct{}{}
	}
	if len(distinct) < 3 {
		return fmt.Errorf("no-fly zone %d: %d distinct vertices: %w", z.ID, len(distinct), ErrDegeneratePolygon)
	}
	if math.Abs(signedArea(ring)) < minZoneArea {
		return fmt.Errorf("no-fly zone %d: zero area: %w", z.ID, ErrDegeneratePolygon)
	}

	if err := z.Active.Validate(); err != nil {
		return fmt.Errorf("no-fly zone %d: %w", z.ID, err)
	}
	return nil
}

// shoelace formula over the implicitly closed ring
func signedArea(ring []Position) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}
