package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Scenario bundles every input of one planning run: the fleet, the
// delivery backlog, the airspace restrictions and the fixed wall-clock
// time the run is evaluated at.
type Scenario struct {
	Name        string
	CurrentTime TimeOfDay
	Drones      []*Drone
	Deliveries  []*Delivery
	Zones       []*NoFlyZone
}

// ErrInvalidScenario marks input that cannot be planned: malformed files,
// bad times, duplicate ids or degenerate zones.
var ErrInvalidScenario = errors.New("invalid scenario")

// Validate checks every record and id uniqueness. Errors wrap
// ErrInvalidScenario.
func (s *Scenario) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

func (s *Scenario) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("scenario: name must be non-empty")
	}

	drones := make(map[int]struct{}, len(s.Drones))
	for i, d := range s.Drones {
		if d == nil {
			return fmt.Errorf("scenario %q: drone at index %d is nil", s.Name, i)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if _, ok := drones[d.ID]; ok {
			return fmt.Errorf("scenario %q: duplicate drone id %d", s.Name, d.ID)
		}
		drones[d.ID] = struct{}{}
	}

	deliveries := make(map[int]struct{}, len(s.Deliveries))
	for i, d := range s.Deliveries {
		if d == nil {
			return fmt.Errorf("scenario %q: delivery at index %d is nil", s.Name, i)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if _, ok := deliveries[d.ID]; ok {
			return fmt.Errorf("scenario %q: duplicate delivery id %d", s.Name, d.ID)
		}
		deliveries[d.ID] = struct{}{}
	}

	zones := make(map[int]struct{}, len(s.Zones))
	for i, z := range s.Zones {
		if z == nil {
			return fmt.Errorf("scenario %q: zone at index %d is nil", s.Name, i)
		}
		if err := z.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if _, ok := zones[z.ID]; ok {
			return fmt.Errorf("scenario %q: duplicate zone id %d", s.Name, z.ID)
		}
		zones[z.ID] = struct{}{}
	}

	return nil
}

// AvailableDrones returns the drones that can take new work.
func (s *Scenario) AvailableDrones() []*Drone {
	out := make([]*Drone, 0, len(s.Drones))
	for _, d := range s.Drones {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}

// PendingDeliveries returns the deliveries not yet delivered.
func (s *Scenario) PendingDeliveries() []*Delivery {
	out := make([]*Delivery, 0, len(s.Deliveries))
	for _, d := range s.Deliveries {
		if !d.Delivered {
			out = append(out, d)
		}
	}
	return out
}

// Reset returns every drone and delivery to its declared, unplanned state.
func (s *Scenario) Reset() {
	for _, d := range s.Drones {
		d.Reset()
	}
	for _, d := range s.Deliveries {
		d.Reset()
	}
}

// Positions maps every drone start and delivery destination to its node id.
func (s *Scenario) Positions() map[NodeID]Position {
	out := make(map[NodeID]Position, len(s.Drones)+len(s.Deliveries))
	for _, d := range s.Drones {
		out[d.Node()] = d.Start
	}
	for _, d := range s.Deliveries {
		out[d.Node()] = d.Pos
	}
	return out
}

// DroneIndex maps drone id to record. Built once per run so lookups by id
// never scan the fleet.
func (s *Scenario) DroneIndex() map[int]*Drone {
	out := make(map[int]*Drone, len(s.Drones))
	for _, d := range s.Drones {
		out[d.ID] = d
	}
	return out
}

func (s *Scenario) DeliveryIndex() map[int]*Delivery {
	out := make(map[int]*Delivery, len(s.Deliveries))
	for _, d := range s.Deliveries {
		out[d.ID] = d
	}
	return out
}
