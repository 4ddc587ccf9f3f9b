package handlers

import (
	"context"
	"net/http"
	"strings"

	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
	"drone-delivery-service/internal/services"
)

// ScenarioHandler serves read-only views of stored scenarios.
type ScenarioHandler struct {
	Repo              ports.ScenarioRepository
	EnergyPerDistance float64
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	names, err := h.Repo.ListScenarios(r.Context())
	if err != nil {
		writeServiceError(w, r, "list scenarios", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListScenarioResponse{Scenarios: names})
}

func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	s, err := h.Repo.LoadScenario(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, "get scenario", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ScenarioResponse{
		Name:        s.Name,
		CurrentTime: s.CurrentTime.String(),
		Drones:      len(s.Drones),
		Deliveries:  len(s.Deliveries),
		NoFlyZones:  len(s.Zones),
	})
}

// environment loads a scenario and builds its planning structures at the
// given time, or at the scenario time when now is nil.
func (h *ScenarioHandler) environment(ctx context.Context, name string, now *domain.TimeOfDay) (*services.Environment, error) {
	s, err := h.Repo.LoadScenario(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	t := s.CurrentTime
	if now != nil {
		t = *now
	}
	return services.NewEnvironment(s, t, h.EnergyPerDistance)
}
