package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drone-delivery-service/internal/adapters/cache"
	"drone-delivery-service/internal/adapters/repositories"
	"drone-delivery-service/internal/api"
	"drone-delivery-service/internal/api/handlers"
	"drone-delivery-service/internal/config"
	"drone-delivery-service/internal/platform/db"
	"drone-delivery-service/internal/platform/obs"
	"drone-delivery-service/internal/ports"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, scenario files) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := obs.InitTracing(ctx, obs.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: cfg.TracingServiceName,
		Exporter:    cfg.TracingExporter,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer obs.ShutdownTracing(shutdownTracing)

	conn, dialect, err := db.Connect(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	sqlRepo := repositories.NewSQLScenarioRepository(conn, dialect)
	if err := initAndSeed(ctx, conn, sqlRepo, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	var repo ports.ScenarioRepository = sqlRepo
	if cfg.ScenarioDir != "" {
		repo = repositories.NewFileScenarioRepository(cfg.ScenarioDir)
		log.Printf("serving scenarios from dir=%s", cfg.ScenarioDir)
	}

	checks := []handlers.HealthCheck{{Name: "db", Check: conn.PingContext}}

	// Path costs are cached in Redis when configured, otherwise next to the scenarios.
	var pathCache ports.PathCostCache = cache.NewSQLPathCache(conn, dialect)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisPathCache(cfg.RedisURL, 24*time.Hour)
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Printf("redis unavailable, path costs will not be cached: %v", err)
		}
		pathCache = rc
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: rc.Ping})
	}

	var limiter *rate.Limiter
	if cfg.PlanRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PlanRateLimit), max(cfg.PlanRateBurst, 1))
	}

	router := api.NewRouter(api.Deps{
		Repo:              repo,
		Cache:             pathCache,
		Optimizer:         cfg.OptimizerConfig(),
		EnergyPerDistance: cfg.EnergyPerDistance,
		PlanLimiter:       limiter,
		HealthChecks:      checks,
	})

	// WriteTimeout leaves room for a full optimizer run within PLAN_TIME_BUDGET.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PlanTimeBudget + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s driver=%s", cfg.Port, dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, repo *repositories.SQLScenarioRepository, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file not found, skipping: path=%s", seedPath)
		return nil
	}

	s, err := repositories.ReadScenarioFile(seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := repo.SaveScenario(ctx, s); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("seeded scenario=%s drones=%d deliveries=%d zones=%d", s.Name, len(s.Drones), len(s.Deliveries), len(s.Zones))

	return nil
}
