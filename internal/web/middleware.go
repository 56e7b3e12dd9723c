package web

import (
	"net/http"
	"strings"
)

// EventsPath is the observer stream endpoint
const EventsPath = "/panels/events"

// HTTPProtocolMiddleware prevents HTTP/3 QUIC protocol issues in cloud environments.
// Browsers that try HTTP/3 through some proxies drop long-lived streams.
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Disable HTTP/3 QUIC protocol advertising globally
		w.Header().Set("Alt-Svc", "clear")

		// Keep observer streams on HTTP/1.1 semantics
		if strings.HasPrefix(r.URL.Path, EventsPath) {
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Force-HTTP1", "true")
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes registers the panel transports on mux and wraps it with the
// protocol middleware
func SetupRoutes(mux *http.ServeMux, hub *Hub) http.Handler {
	mux.HandleFunc("GET "+EventsPath, hub.ServeEvents)
	mux.HandleFunc("GET /panels/{panel}", hub.ServeSnapshot)
	mux.HandleFunc("GET /panels/{panel}/ws", hub.ServeWs)

	return HTTPProtocolMiddleware(mux)
}
