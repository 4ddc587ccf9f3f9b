package handlers

import (
	"net/http"
	"strings"

	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/domain"
)

// Path returns the shortest path between two nodes of a scenario graph.
// Nodes are named "drone:<id>" or "delivery:<id>".
func (h *ScenarioHandler) Path(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Scenario) == "" {
		writeError(w, r, http.StatusBadRequest, "scenario is required")
		return
	}

	from, err := domain.ParseNodeID(req.From)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from must be drone:<id> or delivery:<id>")
		return
	}
	to, err := domain.ParseNodeID(req.To)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to must be drone:<id> or delivery:<id>")
		return
	}

	env, err := h.environment(r.Context(), req.Scenario, nil)
	if err != nil {
		writeServiceError(w, r, "path", err)
		return
	}

	found := env.Finder.FindPath(from, to)
	res := dto.PathResponse{From: string(from), To: string(to), Reachable: found.Reachable(), Path: []string{}}
	if res.Reachable {
		cost := found.Cost
		res.Cost = &cost
		for _, n := range found.Path {
			res.Path = append(res.Path, string(n))
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
