package services

import (
	"fmt"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/geo"
)

// Constraint names one feasibility check.
type Constraint int

const (
	ConstraintNone Constraint = iota
	ConstraintPayload
	ConstraintNoFlyZone
	ConstraintTimeWindow
	ConstraintEnergy
)

func (c Constraint) String() string {
	switch c {
	case ConstraintNone:
		return "none"
	case ConstraintPayload:
		return "payload"
	case ConstraintNoFlyZone:
		return "no_fly_zone"
	case ConstraintTimeWindow:
		return "time_window"
	case ConstraintEnergy:
		return "energy"
	}
	return fmt.Sprintf("constraint(%d)", int(c))
}

// Diagnostic explains a feasibility decision. Distance and Energy are only
// computed once the payload check has passed.
type Diagnostic struct {
	Feasible  bool
	Failed    Constraint
	ZoneID    int // set when Failed == ConstraintNoFlyZone
	Distance  float64
	Energy    float64
	Available float64
}

func (d Diagnostic) String() string {
	if d.Feasible {
		return fmt.Sprintf("feasible distance=%.2f energy=%.2f available=%.2f", d.Distance, d.Energy, d.Available)
	}
	if d.Failed == ConstraintNoFlyZone {
		return fmt.Sprintf("infeasible constraint=%s zone=%d", d.Failed, d.ZoneID)
	}
	return fmt.Sprintf("infeasible constraint=%s distance=%.2f energy=%.2f available=%.2f", d.Failed, d.Distance, d.Energy, d.Available)
}

// Checker decides whether a drone may fly a delivery at a given time.
// It only reads its zones and is safe for concurrent use.
type Checker struct {
	zones             []*domain.NoFlyZone
	polygons          []geo.Polygon // parallel to zones
	energyPerDistance float64
}

// NewChecker validates the zones up front so malformed polygons fail here
// rather than turning into silent infeasibility later.
func NewChecker(zones []*domain.NoFlyZone, energyPerDistance float64) (*Checker, error) {
	if energyPerDistance < 0 {
		return nil, fmt.Errorf("new checker: energy per distance must be >= 0, got %g", energyPerDistance)
	}
	polygons := make([]geo.Polygon, 0, len(zones))
	for _, z := range zones {
		if z == nil {
			return nil, fmt.Errorf("new checker: nil zone")
		}
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("new checker: %w", err)
		}
		p, err := geo.NewPolygon(z.Polygon)
		if err != nil {
			return nil, fmt.Errorf("new checker: no-fly zone %d: %w", z.ID, err)
		}
		polygons = append(polygons, p)
	}
	return &Checker{zones: zones, polygons: polygons, energyPerDistance: energyPerDistance}, nil
}

func (c *Checker) EnergyPerDistance() float64 { return c.energyPerDistance }

// IsFeasible reports whether all four constraints hold.
func (c *Checker) IsFeasible(drone *domain.Drone, delivery *domain.Delivery, now domain.TimeOfDay) bool {
	return c.Check(drone, delivery, now).Feasible
}

// Check evaluates payload, no-fly zone, time window and energy in that order
// and stops at the first failure.
func (c *Checker) Check(drone *domain.Drone, delivery *domain.Delivery, now domain.TimeOfDay) Diagnostic {
	d := Diagnostic{Available: drone.RemainingBattery}

	if delivery.Weight > drone.MaxWeight {
		d.Failed = ConstraintPayload
		return d
	}

	d.Distance = EuclideanDistance(drone.Start, delivery.Pos)
	d.Energy = d.Distance * c.energyPerDistance

	if z := c.blockingZone(drone.Start, delivery.Pos, now); z != nil {
		d.Failed = ConstraintNoFlyZone
		d.ZoneID = z.ID
		return d
	}

	if !delivery.Window.Contains(now) {
		d.Failed = ConstraintTimeWindow
		return d
	}

	if d.Energy > drone.RemainingBattery {
		d.Failed = ConstraintEnergy
		return d
	}

	d.Feasible = true
	return d
}

// blockingZone returns the first zone active at now whose polygon the
// straight segment from->to touches. Inactive zones never block.
func (c *Checker) blockingZone(from, to domain.Position, now domain.TimeOfDay) *domain.NoFlyZone {
	for i, z := range c.zones {
		if !z.ActiveAt(now) {
			continue
		}
		if c.polygons[i].IntersectsSegment(from, to) {
			return z
		}
	}
	return nil
}
