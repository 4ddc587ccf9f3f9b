package dto

type ListScenarioResponse struct {
	Scenarios []string `json:"scenarios"`
}

type ScenarioResponse struct {
	Name        string `json:"name"`
	CurrentTime string `json:"current_time"`
	Drones      int    `json:"drones"`
	Deliveries  int    `json:"deliveries"`
	NoFlyZones  int    `json:"no_fly_zones"`
}

type FeasibilityRequest struct {
	Scenario    string  `json:"scenario"`
	DroneID     int     `json:"drone_id"`
	DeliveryID  int     `json:"delivery_id"`
	CurrentTime *string `json:"current_time"`
}

type FeasibilityResponse struct {
	Feasible         bool    `json:"feasible"`
	FailedConstraint string  `json:"failed_constraint,omitempty"`
	ZoneID           *int    `json:"zone_id,omitempty"`
	Distance         float64 `json:"distance"`
	Energy           float64 `json:"energy"`
	AvailableBattery float64 `json:"available_battery"`
}

type PathRequest struct {
	Scenario string `json:"scenario"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Cost is null when the destination is unreachable.
type PathResponse struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Reachable bool     `json:"reachable"`
	Cost      *float64 `json:"cost"`
	Path      []string `json:"path"`
}
