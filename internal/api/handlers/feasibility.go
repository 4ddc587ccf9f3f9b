package handlers

import (
	"net/http"
	"strings"

	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/services"
)

// Feasibility explains whether one drone may fly one delivery.
func (h *ScenarioHandler) Feasibility(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.FeasibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		writeError(w, r, http.StatusBadRequest, "scenario is required")
		return
	}
	now, err := parseClock(req.CurrentTime)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "current_time must be HH:MM")
		return
	}

	env, err := h.environment(r.Context(), req.Scenario, now)
	if err != nil {
		writeServiceError(w, r, "feasibility", err)
		return
	}

	diag, err := env.CheckPair(req.DroneID, req.DeliveryID)
	if err != nil {
		writeServiceError(w, r, "feasibility", err)
		return
	}

	res := dto.FeasibilityResponse{
		Feasible:         diag.Feasible,
		Distance:         diag.Distance,
		Energy:           diag.Energy,
		AvailableBattery: diag.Available,
	}
	if !diag.Feasible {
		res.FailedConstraint = diag.Failed.String()
	}
	if diag.Failed == services.ConstraintNoFlyZone {
		id := diag.ZoneID
		res.ZoneID = &id
	}

	writeJSON(w, r, http.StatusOK, res)
}
