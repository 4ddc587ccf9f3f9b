package dto

import "drone-delivery-service/internal/domain"

type PlanRequest struct {
	Scenario       string  `json:"scenario"`
	Algorithm      string  `json:"algorithm"`
	Generations    *int    `json:"generations"`
	PopulationSize *int    `json:"population_size"`
	Seed           uint64  `json:"seed"`
	CurrentTime    *string `json:"current_time"`
}

type PairResponse struct {
	DroneID    int `json:"drone_id"`
	DeliveryID int `json:"delivery_id"`
}

type RouteResponse struct {
	DroneID        int      `json:"drone_id"`
	DeliveryID     int      `json:"delivery_id"`
	Path           []string `json:"path"`
	DistanceMeters float64  `json:"distance_meters"`
	Energy         float64  `json:"energy"`
	DepartAt       string   `json:"depart_at"`
	ArriveAt       string   `json:"arrive_at"`
}

type PlanResponse struct {
	RunID       string          `json:"run_id"`
	Scenario    string          `json:"scenario"`
	Algorithm   string          `json:"algorithm"`
	CurrentTime string          `json:"current_time"`
	Fitness     float64         `json:"fitness"`
	Generations int             `json:"generations"`
	StopReason  string          `json:"stop_reason"`
	Assignments []PairResponse  `json:"assignments"`
	Routes      []RouteResponse `json:"routes"`
}

func NewPlanResponse(p *domain.Plan) PlanResponse {
	res := PlanResponse{
		RunID:       p.RunID,
		Scenario:    p.Scenario,
		Algorithm:   p.Algorithm,
		CurrentTime: p.CurrentTime.String(),
		Fitness:     p.Fitness,
		Generations: p.Generations,
		StopReason:  p.StopReason,
		Assignments: make([]PairResponse, 0, len(p.Assignment)),
		Routes:      make([]RouteResponse, 0, len(p.Routes)),
	}
	for _, a := range p.Assignment {
		res.Assignments = append(res.Assignments, PairResponse{DroneID: a.DroneID, DeliveryID: a.DeliveryID})
	}
	for _, r := range p.Routes {
		path := make([]string, 0, len(r.Path))
		for _, n := range r.Path {
			path = append(path, string(n))
		}
		res.Routes = append(res.Routes, RouteResponse{
			DroneID:        r.DroneID,
			DeliveryID:     r.DeliveryID,
			Path:           path,
			DistanceMeters: r.DistanceMeters,
			Energy:         r.Energy,
			DepartAt:       r.DepartAt.String(),
			ArriveAt:       r.ArriveAt.String(),
		})
	}
	return res
}

// StreamMessage is one websocket frame of /plans/stream.
// Type is "generation", "plan" or "error".
type StreamMessage struct {
	Type        string        `json:"type"`
	Generation  int           `json:"generation,omitempty"`
	BestFitness float64       `json:"best_fitness,omitempty"`
	MeanFitness float64       `json:"mean_fitness,omitempty"`
	Feasible    int           `json:"feasible,omitempty"`
	Plan        *PlanResponse `json:"plan,omitempty"`
	Error       string        `json:"error,omitempty"`
}
