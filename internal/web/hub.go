// Package web serves the touch panels: an interactive websocket per panel
// and a read-only server-sent event stream for observers
package web

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/r3labs/sse/v2"

	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/panel"
)

// Message types sent to clients
const (
	MessageSnapshot = "snapshot"
	MessageChange   = "change"
)

// Message is one server-to-client frame. A snapshot carries every current
// output of the panel; a change carries a single output write.
type Message struct {
	Type    string         `json:"type"`
	Panel   string         `json:"panel"`
	Changes []panel.Change `json:"changes"`
}

// PanelFinder looks up the configured panels
type PanelFinder interface {
	Panels() []*panel.Panel
	Panel(key string) (*panel.Panel, bool)
}

// Hub fans the output changes of every panel out to the websocket clients
// and the observer streams of that panel
type Hub struct {
	panels PanelFinder
	loop   dispatch.Caller
	events *sse.Server
	log    *slog.Logger

	mu      sync.Mutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

// NewHub creates a hub watching every panel of panels
func NewHub(panels PanelFinder, loop dispatch.Caller, log *slog.Logger) *Hub {
	h := &Hub{
		panels:  panels,
		loop:    loop,
		log:     log,
		clients: make(map[string]map[*Client]struct{}),
	}

	h.events = sse.New()
	h.events.AutoReplay = false
	h.events.OnSubscribe = func(stream string, _ *sse.Subscriber) {
		h.log.Info("panel observer connected", "panel", stream)
	}
	h.events.OnUnsubscribe = func(stream string, _ *sse.Subscriber) {
		h.log.Info("panel observer disconnected", "panel", stream)
	}

	for _, p := range panels.Panels() {
		h.events.CreateStream(p.Key())
		p.Watch(h.broadcast)
	}
	return h
}

// broadcast runs on the dispatch context for every panel output write
func (h *Hub) broadcast(panelKey string, c panel.Change) {
	data, err := json.Marshal(Message{Type: MessageChange, Panel: panelKey, Changes: []panel.Change{c}})
	if err != nil {
		h.log.Error("encoding panel change", "panel", panelKey, "error", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	for client := range h.clients[panelKey] {
		select {
		case client.send <- data:
		default:
			// Slow clients are dropped and start over from a snapshot
			h.log.Warn("panel client too slow, dropping", "panel", panelKey, "client", client.id)
			h.removeLocked(client)
		}
	}
	h.mu.Unlock()

	h.events.Publish(panelKey, &sse.Event{Event: []byte(MessageChange), Data: data})
}

// register adds c and queues the panel snapshot as its first message. It
// must run on the dispatch context so no change falls between the
// snapshot and the registration.
func (h *Hub) register(c *Client) error {
	data, err := json.Marshal(snapshotMessage(c.panel))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errHubClosed
	}
	key := c.panel.Key()
	if h.clients[key] == nil {
		h.clients[key] = make(map[*Client]struct{})
	}
	h.clients[key][c] = struct{}{}
	c.send <- data
	return nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	clients := h.clients[c.panel.Key()]
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
}

// ClientCount returns the number of websocket clients of the panel
func (h *Hub) ClientCount(panelKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[panelKey])
}

// Close disconnects every client and observer
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for _, clients := range h.clients {
		for c := range clients {
			h.removeLocked(c)
		}
	}
	h.mu.Unlock()

	h.events.Close()
}

func snapshotMessage(p *panel.Panel) Message {
	return Message{Type: MessageSnapshot, Panel: p.Key(), Changes: p.Snapshot()}
}
