// Package geo holds the planar predicates used by the no-fly zone check.
// Geometry operations are delegated to simplefeatures.
package geo

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"drone-delivery-service/internal/domain"
	"github.com/peterstace/simplefeatures/geom"
)

var ErrInvalidPolygon = errors.New("invalid polygon")

// Polygon is a parsed no-fly polygon. The zero value is empty and
// intersects nothing.
type Polygon struct {
	g geom.Geometry
}

// NewPolygon builds a polygon from a vertex ring. A ring whose last vertex
// does not repeat the first is closed implicitly.
func NewPolygon(ring []domain.Position) (Polygon, error) {
	if len(ring) < 3 {
		return Polygon{}, fmt.Errorf("new polygon: %d vertices: %w", len(ring), ErrInvalidPolygon)
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(slices.Clone(ring), ring[0])
	}

	g, err := geom.UnmarshalWKT("POLYGON((" + coordList(ring) + "))")
	if err != nil {
		return Polygon{}, fmt.Errorf("new polygon: %w: %v", ErrInvalidPolygon, err)
	}
	if g.Area() <= 0 {
		return Polygon{}, fmt.Errorf("new polygon: zero area: %w", ErrInvalidPolygon)
	}
	return Polygon{g: g}, nil
}

// ContainsPoint reports whether p is inside the polygon or on its boundary.
func (p Polygon) ContainsPoint(pt domain.Position) bool {
	return p.intersects("POINT(" + coord(pt) + ")")
}

// IntersectsSegment reports whether the segment ab touches, crosses or lies
// inside the polygon. A zero-length segment is tested as a point.
func (p Polygon) IntersectsSegment(a, b domain.Position) bool {
	if a == b {
		return p.ContainsPoint(a)
	}
	return p.intersects("LINESTRING(" + coordList([]domain.Position{a, b}) + ")")
}

// Coordinates that cannot be parsed count as an intersection: a flight
// through an unknown path is not cleared.
func (p Polygon) intersects(wkt string) bool {
	other, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return true
	}
	return geom.Intersects(other, p.g)
}

func coord(p domain.Position) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + " " + strconv.FormatFloat(p.Y, 'f', -1, 64)
}

func coordList(ps []domain.Position) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = coord(p)
	}
	return strings.Join(parts, ",")
}
