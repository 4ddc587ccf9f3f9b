package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"drone-delivery-service/internal/domain"
	"drone-delivery-service/internal/ports"
	"drone-delivery-service/internal/services"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// parseClock parses an optional "HH:MM" value.
func parseClock(s *string) (*domain.TimeOfDay, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// serviceErrorStatus maps service errors to a status code and a message
// that is safe to show to clients.
func serviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ports.ErrScenarioNotFound):
		return http.StatusNotFound, "scenario not found"
	case errors.Is(err, services.ErrUnknownNode):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrUnknownAlgorithm):
		return http.StatusBadRequest, "algorithm must be genetic or greedy"
	case errors.Is(err, domain.ErrInvalidScenario):
		return http.StatusUnprocessableEntity, invalidScenarioMessage(err)
	}
	return http.StatusInternalServerError, "internal server error"
}

// invalidScenarioMessage drops the operation prefixes, which may name
// server-side file paths, and keeps the description of the bad input.
func invalidScenarioMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidScenario.Error()); i >= 0 {
		return msg[i:]
	}
	return domain.ErrInvalidScenario.Error()
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s failed: %v", op, err)
	}
	writeError(w, r, status, msg)
}
