package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"drone-delivery-service/internal/api/dto"
	"drone-delivery-service/internal/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

const streamWriteTimeout = 5 * time.Second

// Stream runs a plan like Plan but reports every generation over a
// websocket. Parameters come from the query string:
// scenario, algorithm, generations, population_size, seed, current_time.
// The last frame is either the plan or an error.
func (h *PlanHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	req, msg := planRequestFromQuery(r)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	svcReq, msg := h.serviceRequest(req)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Printf("stream upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read loop only processes control frames and notices a client
	// going away; that cancels the run.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	write := func(m dto.StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(m)
	}

	// OnGeneration runs on this goroutine, so it is the only writer.
	svcReq.Optimizer.OnGeneration = func(p services.Progress) {
		if err := write(dto.StreamMessage{
			Type:        "generation",
			Generation:  p.Generation,
			BestFitness: p.BestFitness,
			MeanFitness: p.MeanFitness,
			Feasible:    p.Feasible,
		}); err != nil {
			cancel()
		}
	}

	plan, err := services.PlanDeliveries(ctx, svcReq, h.Repo, h.Cache)
	if err != nil {
		log.Printf("stream plan failed: %v", err)
		_ = write(dto.StreamMessage{Type: "error", Error: streamError(err)})
	} else {
		res := dto.NewPlanResponse(plan)
		_ = write(dto.StreamMessage{Type: "plan", Plan: &res})
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func planRequestFromQuery(r *http.Request) (dto.PlanRequest, string) {
	q := r.URL.Query()
	req := dto.PlanRequest{Scenario: q.Get("scenario"), Algorithm: q.Get("algorithm")}

	intParam := func(name string) (*int, bool) {
		v := q.Get(name)
		if v == "" {
			return nil, true
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, false
		}
		return &n, true
	}

	var ok bool
	if req.Generations, ok = intParam("generations"); !ok {
		return req, "generations must be an integer"
	}
	if req.PopulationSize, ok = intParam("population_size"); !ok {
		return req, "population_size must be an integer"
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, "seed must be a non-negative integer"
		}
		req.Seed = seed
	}
	if v := q.Get("current_time"); v != "" {
		req.CurrentTime = &v
	}
	return req, ""
}

func streamError(err error) string {
	_, msg := serviceErrorStatus(err)
	return msg
}
