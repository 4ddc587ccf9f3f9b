package handlers

import (
	"net/http"
	"strings"

	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/ports"
	"drone-delivery-service/internal/services"
)

const (
	maxGenerations    = 1000
	maxPopulationSize = 500
)

type PlanHandler struct {
	Repo              ports.ScenarioRepository
	Cache             ports.PathCostCache // optional
	Defaults          services.Config
	EnergyPerDistance float64
}

// Plan runs one optimization over a stored scenario and returns the
// assignment with per-drone routes.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	svcReq, msg := h.serviceRequest(req)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	plan, err := services.PlanDeliveries(r.Context(), svcReq, h.Repo, h.Cache)
	if err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}

// serviceRequest validates the request against the handler defaults. A
// non-empty message is a client error.
func (h *PlanHandler) serviceRequest(req dto.PlanRequest) (services.PlanDeliveriesRequest, string) {
	scenario := strings.TrimSpace(req.Scenario)
	if scenario == "" {
		return services.PlanDeliveriesRequest{}, "scenario is required"
	}

	algo := strings.ToLower(strings.TrimSpace(req.Algorithm))
	if algo == "" {
		algo = services.AlgorithmGenetic
	}
	if algo != services.AlgorithmGenetic && algo != services.AlgorithmGreedy {
		return services.PlanDeliveriesRequest{}, "algorithm must be genetic or greedy"
	}

	cfg := h.Defaults
	if req.Generations != nil {
		if *req.Generations < 0 || *req.Generations > maxGenerations {
			return services.PlanDeliveriesRequest{}, "generations must be between 0 and 1000"
		}
		cfg.Generations = *req.Generations
	}
	if req.PopulationSize != nil {
		if *req.PopulationSize < 1 || *req.PopulationSize > maxPopulationSize {
			return services.PlanDeliveriesRequest{}, "population_size must be between 1 and 500"
		}
		cfg.PopulationSize = *req.PopulationSize
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	now, err := parseClock(req.CurrentTime)
	if err != nil {
		return services.PlanDeliveriesRequest{}, "current_time must be HH:MM"
	}

	return services.PlanDeliveriesRequest{
		Scenario:          scenario,
		Algorithm:         algo,
		CurrentTime:       now,
		EnergyPerDistance: h.EnergyPerDistance,
		Optimizer:         cfg,
	}, ""
}
