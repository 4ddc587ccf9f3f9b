package domain

import "fmt"

// Delivery drone with its physical limits and operational state.
type Drone struct {
	ID               int
	MaxWeight        float64 // kg
	Battery          float64 // capacity, energy units
	RemainingBattery float64
	Speed            float64 // m/s
	Start            Position
	Active           bool
}

func NewDrone(id int, maxWeight, battery, speed float64, start Position) *Drone {
	return &Drone{
		ID:               id,
		MaxWeight:        maxWeight,
		Battery:          battery,
		RemainingBattery: battery,
		Speed:            speed,
		Start:            start,
		Active:           true,
	}
}

func (d *Drone) Node() NodeID { return DroneNode(d.ID) }

// Reset restores the drone to its declared state.
func (d *Drone) Reset() {
	d.RemainingBattery = d.Battery
	d.Active = true
}

// Consume draws energy for a completed flight.
func (d *Drone) Consume(energy float64) error {
	if energy < 0 {
		return fmt.Errorf("consume drone %d: negative energy %g", d.ID, energy)
	}
	if energy > d.RemainingBattery {
		return fmt.Errorf("consume drone %d: energy %g exceeds remaining battery %g", d.ID, energy, d.RemainingBattery)
	}
	d.RemainingBattery -= energy
	return nil
}

func (d *Drone) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("drone: invalid id %d", d.ID)
	}
	if d.MaxWeight < 0 {
		return fmt.Errorf("drone %d: max weight must be >= 0", d.ID)
	}
	if d.Battery < 0 || d.RemainingBattery < 0 {
		return fmt.Errorf("drone %d: battery must be >= 0", d.ID)
	}
	if d.RemainingBattery > d.Battery {
		return fmt.Errorf("drone %d: remaining battery exceeds capacity", d.ID)
	}
	if d.Speed <= 0 {
		return fmt.Errorf("drone %d: speed must be > 0", d.ID)
	}
	return nil
}
