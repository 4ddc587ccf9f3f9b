package services

import (
	"testing"

	"drone-delivery-service/internal/domain"
)

func TestGreedyAssignPicksCheapestFeasible(t *testing.T) {
	s := &domain.Scenario{
		Name:        "greedy",
		CurrentTime: domain.MustParseTimeOfDay("09:00"),
		Drones: []*domain.Drone{
			domain.NewDrone(1, 5, 1000, 10, domain.Position{X: 0, Y: 0}),
			domain.NewDrone(2, 5, 1000, 10, domain.Position{X: 0, Y: 0}),
			domain.NewDrone(3, 1, 1000, 10, domain.Position{X: 0, Y: 0}),
		},
	}
	window := domain.Window{Start: domain.MustParseTimeOfDay("08:00"), End: domain.MustParseTimeOfDay("10:00")}
	s.Deliveries = []*domain.Delivery{
		{ID: 3, Pos: domain.Position{X: 5, Y: 0}, Weight: 2, Priority: 1, Window: window},
		{ID: 2, Pos: domain.Position{X: -5, Y: 0}, Weight: 2, Priority: 1, Window: window},
		{ID: 1, Pos: domain.Position{X: 20, Y: 0}, Weight: 2, Priority: 1, Window: window},
	}

	env, err := NewEnvironment(s, s.CurrentTime, 1)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}

	sol, err := GreedyAssign(s.Drones, s.Deliveries, s.CurrentTime, env.Checker, env.Finder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal costs go to the lower delivery id; drone 3 cannot lift anything.
	want := domain.Solution{{DroneID: 1, DeliveryID: 2}, {DroneID: 2, DeliveryID: 3}}
	if len(sol) != len(want) {
		t.Fatalf("solution = %v, want %v", sol, want)
	}
	for i := range want {
		if sol[i] != want[i] {
			t.Fatalf("solution = %v, want %v", sol, want)
		}
	}
}

func TestFirstFeasibleAssignUsesEachDeliveryOnce(t *testing.T) {
	s := fleetScenario()
	checker := mustChecker(t, nil)

	sol := FirstFeasibleAssign(s.Drones, s.Deliveries, s.CurrentTime, checker)
	if len(sol) == 0 {
		t.Fatal("expected assignments")
	}
	if sol.HasDuplicateDrone() || sol.HasDuplicateDelivery() {
		t.Fatalf("duplicate use in %v", sol)
	}
	drones, deliveries := s.DroneIndex(), s.DeliveryIndex()
	for _, p := range sol {
		if !checker.IsFeasible(drones[p.DroneID], deliveries[p.DeliveryID], s.CurrentTime) {
			t.Fatalf("infeasible pair %v", p)
		}
	}
}

func TestFirstFeasibleAssignEmpty(t *testing.T) {
	checker := mustChecker(t, nil)
	if sol := FirstFeasibleAssign(nil, []*domain.Delivery{testDelivery()}, 0, checker); len(sol) != 0 {
		t.Fatalf("solution = %v, want empty", sol)
	}
}
