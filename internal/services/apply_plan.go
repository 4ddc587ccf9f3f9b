package services

import (
	"context"
	"errors"
	"fmt"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
)

// ApplyPlan records a finished plan against its stored scenario: planned
// deliveries become delivered and each assigned drone pays the route
// energy. The updated scenario is saved and returned, so the next plan only
// sees the remaining work.
func ApplyPlan(ctx context.Context, store ports.ScenarioWriter, plan *domain.Plan) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "plan.apply")(&err)

	if plan == nil {
		return nil, errors.New("apply plan: plan is nil")
	}

	s, err := store.LoadScenario(ctx, plan.Scenario)
	if err != nil {
		return nil, fmt.Errorf("apply plan: %w", err)
	}
	if err := plan.Apply(s.DroneIndex(), s.DeliveryIndex()); err != nil {
		return nil, fmt.Errorf("apply plan %s: %w", plan.RunID, err)
	}
	if err := store.SaveScenario(ctx, s); err != nil {
		return nil, fmt.Errorf("apply plan: %w", err)
	}
	return s, nil
}

// ResetScenario undoes every applied plan of a stored scenario.
func ResetScenario(ctx context.Context, store ports.ScenarioWriter, name string) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.reset")(&err)

	s, err := store.LoadScenario(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reset scenario: %w", err)
	}
	s.Reset()
	if err := store.SaveScenario(ctx, s); err != nil {
		return nil, fmt.Errorf("reset scenario: %w", err)
	}
	return s, nil
}
