package services

import (
	"context"
	"errors"
	"testing"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
)

type stubRepo struct {
	scenarios map[string]*domain.Scenario
}

func (r stubRepo) ListScenarios(context.Context) ([]string, error) {
	out := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		out = append(out, name)
	}
	return out, nil
}

func (r stubRepo) LoadScenario(_ context.Context, name string) (*domain.Scenario, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return nil, ports.ErrScenarioNotFound
	}
	return s, nil
}

func planRequest(algo string) PlanDeliveriesRequest {
	return PlanDeliveriesRequest{
		Scenario:          "single",
		Algorithm:         algo,
		EnergyPerDistance: 1,
		Optimizer:         seeded(42),
	}
}

func TestPlanDeliveries(t *testing.T) {
	repo := stubRepo{scenarios: map[string]*domain.Scenario{"single": singlePairScenario()}}

	for _, algo := range []string{"", AlgorithmGenetic, AlgorithmGreedy} {
		t.Run("algo="+algo, func(t *testing.T) {
			cache := newMemCache()
			plan, err := PlanDeliveries(context.Background(), planRequest(algo), repo, cache)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if plan.RunID == "" {
				t.Fatal("expected a run id")
			}
			if len(plan.Assignment) != 1 || plan.Assignment[0] != (domain.Pair{DroneID: 1, DeliveryID: 1}) {
				t.Fatalf("assignment = %v, want [(1,1)]", plan.Assignment)
			}
			if plan.Fitness != 290 {
				t.Fatalf("fitness = %g, want 290", plan.Fitness)
			}
			if len(plan.Routes) != 1 || plan.Routes[0].DistanceMeters != 10 {
				t.Fatalf("routes = %+v, want one 10 m route", plan.Routes)
			}
			if len(cache.data) != 1 {
				t.Fatalf("cached costs = %d, want 1", len(cache.data))
			}
		})
	}
}

func TestPlanDeliveriesCurrentTimeOverride(t *testing.T) {
	repo := stubRepo{scenarios: map[string]*domain.Scenario{"single": singlePairScenario()}}

	req := planRequest(AlgorithmGenetic)
	late := domain.MustParseTimeOfDay("20:00")
	req.CurrentTime = &late

	plan, err := PlanDeliveries(context.Background(), req, repo, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("assignment = %v, want empty outside the delivery window", plan.Assignment)
	}
	if plan.CurrentTime != late {
		t.Fatalf("current time = %s, want %s", plan.CurrentTime, late)
	}
}

func TestPlanDeliveriesErrors(t *testing.T) {
	repo := stubRepo{scenarios: map[string]*domain.Scenario{"single": singlePairScenario()}}

	_, err := PlanDeliveries(context.Background(), planRequest("annealing"), repo, nil)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("err = %v, want ErrUnknownAlgorithm", err)
	}

	req := planRequest(AlgorithmGenetic)
	req.Scenario = "missing"
	_, err = PlanDeliveries(context.Background(), req, repo, nil)
	if !errors.Is(err, ports.ErrScenarioNotFound) {
		t.Fatalf("err = %v, want ErrScenarioNotFound", err)
	}

	req = planRequest(AlgorithmGenetic)
	req.Optimizer.PopulationSize = 0
	if _, err := PlanDeliveries(context.Background(), req, repo, nil); err == nil {
		t.Fatal("expected error for invalid optimizer config")
	}
}
