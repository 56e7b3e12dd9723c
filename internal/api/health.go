// Package api provides the HTTP handlers for the roompanel API
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/navikt/roompanel/internal/dispatch"
)

// readyTimeout bounds how long a readiness probe waits for the dispatch loop
const readyTimeout = 2 * time.Second

// HealthResponse represents the response for health check endpoints
type HealthResponse struct {
	Status string `json:"status"`
}

func writeHealth(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(HealthResponse{Status: status})
}

// HealthLiveHandler handles Kubernetes liveness probe requests
func HealthLiveHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, "UP")
}

// HealthReadyHandler reports ready once the dispatch loop answers. A loop that
// is stuck in a callback makes the panels unresponsive, so the probe fails.
func HealthReadyHandler(loop dispatch.Caller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := loop.Call(ctx, func() {}); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, "DOWN")
			return
		}
		writeHealth(w, http.StatusOK, "UP")
	}
}
