package services

import (
	"fmt"

	"drone-delivery-service/internal/domain"
)

// Environment holds the read-only structures built once per planning run.
type Environment struct {
	Scenario   *domain.Scenario
	Now        domain.TimeOfDay
	Positions  map[domain.NodeID]domain.Position
	Graph      *Graph
	Finder     *AStar
	Checker    *Checker
	Drones     map[int]*domain.Drone
	Deliveries map[int]*domain.Delivery
}

// NewEnvironment validates the scenario and builds the complete graph, path
// finder and checker for it.
func NewEnvironment(s *domain.Scenario, now domain.TimeOfDay, energyPerDistance float64) (*Environment, error) {
	if s == nil {
		return nil, fmt.Errorf("new environment: scenario is nil")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("new environment: %w", err)
	}

	positions := s.Positions()
	g, err := BuildCompleteGraph(positions)
	if err != nil {
		return nil, fmt.Errorf("new environment: %w", err)
	}

	checker, err := NewChecker(s.Zones, energyPerDistance)
	if err != nil {
		return nil, fmt.Errorf("new environment: %w: %w", domain.ErrInvalidScenario, err)
	}

	return &Environment{
		Scenario:   s,
		Now:        now,
		Positions:  positions,
		Graph:      g,
		Finder:     NewAStar(g, positions),
		Checker:    checker,
		Drones:     s.DroneIndex(),
		Deliveries: s.DeliveryIndex(),
	}, nil
}

// CheckPair runs the feasibility checker for one drone/delivery pair.
func (e *Environment) CheckPair(droneID, deliveryID int) (Diagnostic, error) {
	drone, ok := e.Drones[droneID]
	if !ok {
		return Diagnostic{}, fmt.Errorf("check pair: drone %d: %w", droneID, ErrUnknownNode)
	}
	delivery, ok := e.Deliveries[deliveryID]
	if !ok {
		return Diagnostic{}, fmt.Errorf("check pair: delivery %d: %w", deliveryID, ErrUnknownNode)
	}
	return e.Checker.Check(drone, delivery, e.Now), nil
}

func (e *Environment) droneNodes() []domain.NodeID {
	drones := e.Scenario.AvailableDrones()
	out := make([]domain.NodeID, 0, len(drones))
	for _, d := range drones {
		out = append(out, d.Node())
	}
	return out
}

func (e *Environment) deliveryNodes() []domain.NodeID {
	deliveries := e.Scenario.PendingDeliveries()
	out := make([]domain.NodeID, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, d.Node())
	}
	return out
}
