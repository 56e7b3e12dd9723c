package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/navikt/roompanel/internal/logging"
)

// Configure the websocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 16 * 1024,

	// Panels connect from the room network without an Origin of ours
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWs handles GET /panels/{panel}/ws. The connection first receives the
// panel snapshot, then every change; it may send Input messages.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("panel")
	p, ok := h.panels.Panel(key)
	if !ok {
		h.log.Debug("unknown panel requested", "panel", logging.Sanitize(key))
		http.Error(w, "Panel not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.log.Warn("failed to upgrade panel connection", "panel", key, "error", err)
		return
	}

	client := &Client{
		id:    uuid.NewString(),
		hub:   h,
		panel: p,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
	}

	var regErr error
	if err := h.loop.Call(r.Context(), func() { regErr = h.register(client) }); err != nil || regErr != nil {
		h.log.Warn("failed to register panel client", "panel", key, "error", errors.Join(err, regErr))
		conn.Close()
		return
	}
	h.log.Info("panel client connected", "panel", key, "client", client.id, "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}

// ServeSnapshot handles GET /panels/{panel}: the current outputs as one snapshot message
func (h *Hub) ServeSnapshot(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("panel")
	p, ok := h.panels.Panel(key)
	if !ok {
		http.Error(w, "Panel not found", http.StatusNotFound)
		return
	}

	var msg Message
	if err := h.loop.Call(r.Context(), func() { msg = snapshotMessage(p) }); err != nil {
		http.Error(w, "Error reading panel", http.StatusInternalServerError)
		return
	}
	writeJSON(w, msg)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}
