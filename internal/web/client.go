package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/navikt/roompanel/internal/panel"
)

const (
	// Time allowed to write a message to the panel.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the panel.
	pongWait = 60 * time.Second

	// Send pings to the panel with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum input message size allowed from the panel.
	maxMessageSize = 4 * 1024

	// Outbound messages buffered per client
	sendBuffer = 256
)

var (
	errHubClosed = errors.New("hub closed")

	// ErrUnknownInput is returned for input messages of an unknown type
	ErrUnknownInput = errors.New("unknown input type")
)

// Input message types sent by panels
const (
	InputPress     = "press"
	InputBool      = "bool"
	InputUshort    = "ushort"
	InputListPress = "list_press"
)

// Input is one client-to-server frame: a button press, a raw button state,
// an analog value or a list button press
type Input struct {
	Type  string          `json:"type"`
	Join  panel.Join      `json:"join,omitempty"`
	List  panel.ListID    `json:"list,omitempty"`
	Slot  int             `json:"slot,omitempty"`
	Field int             `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Apply delivers the input to p. It reports whether an action was
// registered for the addressed signal. Must run on the dispatch context.
func (in Input) Apply(p *panel.Panel) (bool, error) {
	switch in.Type {
	case InputPress:
		return p.Press(in.Join), nil
	case InputBool:
		var v bool
		if err := json.Unmarshal(in.Value, &v); err != nil {
			return false, fmt.Errorf("bool input %d: %w", in.Join, err)
		}
		return p.SetInputBool(in.Join, v), nil
	case InputUshort:
		var v uint16
		if err := json.Unmarshal(in.Value, &v); err != nil {
			return false, fmt.Errorf("ushort input %d: %w", in.Join, err)
		}
		return p.SetInputUshort(in.Join, v), nil
	case InputListPress:
		return p.PressListItem(panel.ListSig{List: in.List, Slot: in.Slot, Field: in.Field}), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownInput, in.Type)
	}
}

// Client is a wrapper for a single panel websocket connection
type Client struct {
	id    string
	hub   *Hub
	panel *panel.Panel
	conn  *websocket.Conn

	// send is a buffered channel of encoded outbound messages. The hub
	// writes to it and closes it; writePump drains it.
	send chan []byte
}

// readPump forwards panel input to the dispatch context.
//
// There is at most one reader on a connection; readPump is that reader.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log := c.hub.log.With("panel", c.panel.Key(), "client", c.id)
	for {
		var in Input
		if err := c.conn.ReadJSON(&in); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Debug("ignoring malformed input", "error", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("panel connection closed", "error", err)
			}
			return
		}

		c.hub.loop.Post(func() {
			handled, err := in.Apply(c.panel)
			switch {
			case err != nil:
				log.Debug("rejected input", "type", in.Type, "error", err)
			case !handled:
				log.Debug("no action for input", "type", in.Type, "join", in.Join, "list", in.List, "slot", in.Slot)
			}
		})
	}
}

// writePump writes hub messages and keepalive pings to the connection.
//
// There is at most one writer on a connection; writePump is that writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Debug("panel write failed", "client", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
