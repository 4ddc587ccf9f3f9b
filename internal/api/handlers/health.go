package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	Checks []HealthCheck
}

// Health reports liveness plus the status of each dependency. Any failing
// check turns the response into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := map[string]string{"status": "ok"}
	for _, c := range h.Checks {
		if err := c.Check(ctx); err != nil {
			log.Printf("health check failed: name=%s err=%v", c.Name, err)
			res[c.Name] = "down"
			res["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res[c.Name] = "ok"
	}

	writeJSON(w, r, status, res)
}
