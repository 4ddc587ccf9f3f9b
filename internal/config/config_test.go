package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "GA_GENERATIONS", "ENERGY_PER_DISTANCE", "PLAN_TIME_BUDGET"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.Generations != 30 || cfg.PopulationSize != 10 {
		t.Fatalf("GA defaults = %d/%d, want 30/10", cfg.Generations, cfg.PopulationSize)
	}
	if cfg.PlanTimeBudget != 30*time.Second {
		t.Fatalf("PlanTimeBudget = %s, want 30s", cfg.PlanTimeBudget)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("GA_GENERATIONS", "50")
	t.Setenv("GA_MUTATION_RATE", "0.35")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("PLAN_TIME_BUDGET", "5s")

	cfg := Load()
	if cfg.DBDriver != "postgres" {
		t.Fatalf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.Generations != 50 {
		t.Fatalf("Generations = %d, want 50", cfg.Generations)
	}
	if cfg.MutationRate != 0.35 {
		t.Fatalf("MutationRate = %g, want 0.35", cfg.MutationRate)
	}
	if !cfg.TracingEnabled {
		t.Fatal("TracingEnabled = false, want true")
	}
	if cfg.PlanTimeBudget != 5*time.Second {
		t.Fatalf("PlanTimeBudget = %s, want 5s", cfg.PlanTimeBudget)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GA_GENERATIONS", "many")
	t.Setenv("GA_PENALTY_FACTOR", "x")
	t.Setenv("TRACING_ENABLED", "maybe")

	if got := GetInt("GA_GENERATIONS", 7); got != 7 {
		t.Fatalf("GetInt = %d, want 7", got)
	}
	if got := GetFloat("GA_PENALTY_FACTOR", 1.5); got != 1.5 {
		t.Fatalf("GetFloat = %g, want 1.5", got)
	}
	if got := GetBool("TRACING_ENABLED", false); got {
		t.Fatal("GetBool = true, want false")
	}
}

func TestOptimizerConfigIsValid(t *testing.T) {
	for _, k := range []string{"GA_GENERATIONS", "GA_POPULATION_SIZE", "GA_MUTATION_RATE", "GA_TOP_K"} {
		t.Setenv(k, "")
	}

	oc := Load().OptimizerConfig()
	if err := oc.Validate(); err != nil {
		t.Fatalf("default optimizer config invalid: %v", err)
	}
	if oc.TopK != 5 || oc.PriorityWeight != 100 {
		t.Fatalf("TopK/PriorityWeight = %d/%g, want 5/100", oc.TopK, oc.PriorityWeight)
	}
}
