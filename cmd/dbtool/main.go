package main

import (
	"context"
	"flag"
	"log"

	"drone-delivery-service/internal/adapters/repositories"
	"drone-delivery-service/internal/config"
	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/platform/db"
	"drone-delivery-service/internal/services"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	importPath := flag.String("import", config.Get("SEED_PATH", ""), "scenario file (.yaml, .yml or .json) to import")
	synthetic := flag.String("synthetic", "", "generate a synthetic scenario with this name")
	drones := flag.Int("drones", 5, "synthetic: number of drones")
	deliveries := flag.Int("deliveries", 10, "synthetic: number of deliveries")
	zones := flag.Int("zones", 2, "synthetic: number of no-fly zones")
	seed := flag.Uint64("seed", 1, "synthetic: random seed")
	out := flag.String("out", "", "synthetic: write the scenario to this file instead of the database")
	reset := flag.String("reset", "", "undo applied plans of this stored scenario")
	flag.Parse()

	ctx := context.Background()

	var s *domain.Scenario
	switch {
	case *synthetic != "":
		opts := repositories.DefaultSyntheticOptions()
		opts.Drones, opts.Deliveries, opts.Zones, opts.Seed = *drones, *deliveries, *zones, *seed
		s = repositories.GenerateScenario(*synthetic, opts)
		if *out != "" {
			if err := repositories.WriteScenarioFile(*out, s); err != nil {
				log.Fatalf("write synthetic scenario: %v", err)
			}
			log.Printf("wrote scenario=%s path=%s", s.Name, *out)
			return
		}
	case *importPath != "":
		var err error
		if s, err = repositories.ReadScenarioFile(*importPath); err != nil {
			log.Fatalf("import failed: %v", err)
		}
	}

	conn, dialect, err := db.Connect(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Printf("Initializing database schema... driver=%s", dialect)
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	repo := repositories.NewSQLScenarioRepository(conn, dialect)

	if *reset != "" {
		rs, err := services.ResetScenario(ctx, repo, *reset)
		if err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		log.Printf("Reset scenario=%s pending=%d", rs.Name, len(rs.PendingDeliveries()))
	}

	if s == nil {
		return
	}

	log.Printf("Saving scenario=%s...", s.Name)
	if err := repo.SaveScenario(ctx, s); err != nil {
		log.Fatalf("saving failed: %v", err)
	}
	log.Printf("Saved scenario=%s drones=%d deliveries=%d zones=%d", s.Name, len(s.Drones), len(s.Deliveries), len(s.Zones))
}
