package web

import (
	"net/http"

	"github.com/navikt/roompanel/internal/logging"
)

// ServeEvents handles GET /panels/events?stream={panel}: a server-sent event
// stream of the panel's changes, one "change" event per output write
func (h *Hub) ServeEvents(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("stream")
	if key == "" {
		http.Error(w, "Missing stream parameter", http.StatusBadRequest)
		return
	}
	if _, ok := h.panels.Panel(key); !ok {
		http.Error(w, "Panel not found", http.StatusNotFound)
		return
	}

	h.log.Debug("panel observer request",
		"panel", key,
		"remote", r.RemoteAddr,
		"proto", r.Proto,
		"user_agent", logging.Sanitize(r.UserAgent()))

	// Allow dashboards on other origins to observe
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no")

	h.events.ServeHTTP(w, r)
}
