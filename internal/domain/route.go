package domain

import "fmt"

// Represents the planned flight of a single drone to its assigned delivery.
// Path is the node sequence returned by the path finder; distance and energy
// are derived from it, arrival time from the drone speed.
type RoutePlan struct {
	DroneID        int
	DeliveryID     int
	Path           []NodeID
	DistanceMeters float64
	Energy         float64
	DepartAt       TimeOfDay
	ArriveAt       TimeOfDay
}

// Represents the output of one planning run.
// A Plan is immutable planning data; Apply is the only operation with side
// effects and it acts on the caller's drones and deliveries.
type Plan struct {
	RunID       string
	Scenario    string
	Algorithm   string
	CurrentTime TimeOfDay
	Assignment  Solution
	Fitness     float64
	Routes      []RoutePlan
	Generations int
	StopReason  string
}

// Empty reports whether the run found no valid assignment.
func (p *Plan) Empty() bool { return len(p.Assignment) == 0 }

// Apply marks the planned deliveries as assigned and delivered and draws the
// route energy from each drone.
func (p *Plan) Apply(drones map[int]*Drone, deliveries map[int]*Delivery) error {
	for _, r := range p.Routes {
		drone, ok := drones[r.DroneID]
		if !ok {
			return fmt.Errorf("apply plan: unknown drone %d", r.DroneID)
		}
		delivery, ok := deliveries[r.DeliveryID]
		if !ok {
			return fmt.Errorf("apply plan: unknown delivery %d", r.DeliveryID)
		}
		if delivery.Delivered {
			return fmt.Errorf("apply plan: delivery %d already delivered", r.DeliveryID)
		}

		if err := drone.Consume(r.Energy); err != nil {
			return fmt.Errorf("apply plan: %w", err)
		}

		droneID := drone.ID
		delivery.AssignedDroneID = &droneID
		delivery.Delivered = true
	}

	return nil
}
