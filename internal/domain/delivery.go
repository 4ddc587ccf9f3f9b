package domain

import "fmt"

// Represents a single delivery task: a package of some weight that must be
// dropped at a destination within a time window. Priority is ordinal,
// higher is more valuable. Assignment state is populated after a plan has
// been applied.
type Delivery struct {
	ID              int
	Pos             Position
	Weight          float64 // kg
	Priority        int
	Window          Window
	AssignedDroneID *int
	Delivered       bool
}

func (d *Delivery) Node() NodeID { return DeliveryNode(d.ID) }

// Reset clears the assignment state left by an applied plan.
func (d *Delivery) Reset() {
	d.AssignedDroneID = nil
	d.Delivered = false
}

func (d *Delivery) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("delivery: invalid id %d", d.ID)
	}
	if d.Weight < 0 {
		return fmt.Errorf("delivery %d: weight must be >= 0", d.ID)
	}
	if err := d.Window.Validate(); err != nil {
		return fmt.Errorf("delivery %d: %w", d.ID, err)
	}
	return nil
}
