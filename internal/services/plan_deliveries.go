package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/platform/metrics"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	AlgorithmGenetic = "genetic"
	AlgorithmGreedy  = "greedy"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

type PlanDeliveriesRequest struct {
	Scenario          string
	Algorithm         string            // genetic (default) or greedy
	CurrentTime       *domain.TimeOfDay // overrides the scenario time when set
	EnergyPerDistance float64
	Optimizer         Config
}

// PlanDeliveries loads a scenario, builds its planning environment, warms
// the path cost table and runs the requested algorithm. The returned plan
// carries the assignment, its fitness and one route per assigned drone.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.ScenarioRepository,
	cache ports.PathCostCache,
) (_ *domain.Plan, err error) {
	ctx, span := otel.Tracer("drone-delivery-service/services").Start(ctx, "plan.deliveries")
	defer span.End()
	defer obs.Time(ctx, "plan.deliveries")(&err)

	algo := req.Algorithm
	if algo == "" {
		algo = AlgorithmGenetic
	}
	if algo != AlgorithmGenetic && algo != AlgorithmGreedy {
		return nil, fmt.Errorf("plan deliveries: %q: %w", algo, ErrUnknownAlgorithm)
	}
	span.SetAttributes(attribute.String("plan.scenario", req.Scenario), attribute.String("plan.algorithm", algo))

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OptimizerRuns.WithLabelValues(algo, outcome).Inc()
		metrics.OptimizerDuration.WithLabelValues(algo).Observe(time.Since(start).Seconds())
	}()

	scenario, err := repo.LoadScenario(ctx, req.Scenario)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: load scenario: %w", err)
	}

	now := scenario.CurrentTime
	if req.CurrentTime != nil {
		now = *req.CurrentTime
	}

	env, err := NewEnvironment(scenario, now, req.EnergyPerDistance)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	table := NewCostTable(env.Finder)
	if err := table.Warm(ctx, cache, Fingerprint(env.Positions), env.droneNodes(), env.deliveryNodes()); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	opt, err := NewOptimizer(scenario.Drones, scenario.Deliveries, now, env.Checker, table, req.Optimizer)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plan := &domain.Plan{
		RunID:       uuid.NewString(),
		Scenario:    scenario.Name,
		Algorithm:   algo,
		CurrentTime: now,
	}

	switch algo {
	case AlgorithmGreedy:
		sol, err := GreedyAssign(scenario.Drones, scenario.Deliveries, now, env.Checker, table)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
		plan.Assignment = sol
		plan.Fitness, _ = opt.Fitness(sol)
		plan.StopReason = "complete"
	default:
		res, err := opt.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
		plan.Assignment = res.Best
		plan.Fitness = res.Fitness
		plan.Generations = res.Generations
		plan.StopReason = res.StopReason
	}

	plan.Routes, err = PlanRoutes(plan.Assignment, env.Drones, env.Deliveries, env.Finder, req.EnergyPerDistance, now)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	metrics.OptimizerBestFitness.WithLabelValues(algo).Set(plan.Fitness)
	span.SetAttributes(attribute.String("plan.run_id", plan.RunID), attribute.Float64("plan.fitness", plan.Fitness))

	return plan, nil
}
