package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"drone-delivery-service/internal/adapters/repositories"
	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/config"
	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/services"
)

// plan runs one optimization from the command line and prints the assignment.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	scenarioPath := flag.String("scenario", "", "scenario file (.yaml, .yml or .json); empty generates a synthetic one")
	algorithm := flag.String("algorithm", services.AlgorithmGenetic, "genetic or greedy")
	at := flag.String("time", "", "current time HH:MM, defaults to the scenario time")
	generations := flag.Int("generations", cfg.Generations, "generations")
	population := flag.Int("population", cfg.PopulationSize, "population size")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	asJSON := flag.Bool("json", false, "print the full plan as JSON")
	apply := flag.Bool("apply", false, "mark the planned deliveries done and write the scenario file back")
	flag.Parse()

	if *apply && *scenarioPath == "" {
		log.Fatal("-apply needs -scenario")
	}

	var (
		s   *domain.Scenario
		err error
	)
	if *scenarioPath != "" {
		s, err = repositories.ReadScenarioFile(*scenarioPath)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		s = repositories.GenerateScenario("synthetic", repositories.DefaultSyntheticOptions())
	}

	opt := cfg.OptimizerConfig()
	opt.Generations = *generations
	opt.PopulationSize = *population
	opt.Seed = *seed

	req := services.PlanDeliveriesRequest{
		Scenario:          s.Name,
		Algorithm:         *algorithm,
		EnergyPerDistance: cfg.EnergyPerDistance,
		Optimizer:         opt,
	}
	if *at != "" {
		t, err := domain.ParseTimeOfDay(*at)
		if err != nil {
			log.Fatal(err)
		}
		req.CurrentTime = &t
	}

	ctx := context.Background()
	repo := repositories.NewMemoryScenarioRepository(s)
	plan, err := services.PlanDeliveries(ctx, req, repo, nil)
	if err != nil {
		log.Fatal(err)
	}

	if *apply {
		applied, err := services.ApplyPlan(ctx, repo, plan)
		if err != nil {
			log.Fatal(err)
		}
		if err := repositories.WriteScenarioFile(*scenarioPath, applied); err != nil {
			log.Fatal(err)
		}
		log.Printf("applied run=%s deliveries=%d pending=%d path=%s",
			plan.RunID, len(plan.Routes), len(applied.PendingDeliveries()), *scenarioPath)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.NewPlanResponse(plan)); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Printf("Scenario %s at %s (%s, fitness %.2f)\n", plan.Scenario, plan.CurrentTime, plan.Algorithm, plan.Fitness)
	if plan.Empty() {
		fmt.Println("No feasible assignment.")
		return
	}
	fmt.Println("Best Assignment (drone_id, delivery_id):")
	for _, r := range plan.Routes {
		fmt.Printf("  Drone %d → Delivery %d  %.1f m, arrives %s\n", r.DroneID, r.DeliveryID, r.DistanceMeters, r.ArriveAt)
	}
}
