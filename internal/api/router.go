package api

import (
	"net/http"

	"drone-delivery-service/internal/api/handlers"
	"drone-delivery-service/internal/platform/metrics"
	"drone-delivery-service/internal/ports"
	"drone-delivery-service/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the adapters and settings the HTTP API needs.
type Deps struct {
	Repo              ports.ScenarioRepository
	Cache             ports.PathCostCache // optional
	Optimizer         services.Config
	EnergyPerDistance float64
	PlanLimiter       *rate.Limiter // optional, shared by /plans and /plans/stream
	HealthChecks      []handlers.HealthCheck
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.HealthChecks}
	scenarioHandler := &handlers.ScenarioHandler{
		Repo:              deps.Repo,
		EnergyPerDistance: deps.EnergyPerDistance,
	}
	planHandler := &handlers.PlanHandler{
		Repo:              deps.Repo,
		Cache:             deps.Cache,
		Defaults:          deps.Optimizer,
		EnergyPerDistance: deps.EnergyPerDistance,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/scenarios", scenarioHandler.List)
	mux.HandleFunc("/scenarios/{name}", scenarioHandler.Get)
	mux.Handle("/plans", rateLimit(deps.PlanLimiter, http.HandlerFunc(planHandler.Plan)))
	mux.Handle("/plans/stream", rateLimit(deps.PlanLimiter, http.HandlerFunc(planHandler.Stream)))
	mux.HandleFunc("/feasibility", scenarioHandler.Feasibility)
	mux.HandleFunc("/paths", scenarioHandler.Path)

	return requestIDMiddleware(loggingMiddleware(mux))
}
