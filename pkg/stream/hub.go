// Package stream pushes scan output to websocket subscribers: new bet
// candidates, significant line movement, and scan status.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event types pushed to subscribers.
const (
	EventCandidate = "candidate"
	EventMovement  = "movement"
	EventStatus    = "status"
	EventError     = "error"
	EventHeartbeat = "heartbeat"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = 54 * time.Second
	heartbeatInterval = 30 * time.Second
	sendBuffer        = 64
)

// Event is the wire envelope.
type Event struct {
	Type    string      `json:"type"`
	Time    time.Time   `json:"time"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to connected clients. A client whose send buffer
// fills is evicted rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	count      chan chan int
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewHub builds a hub; call Run before serving connections.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		count:      make(chan chan int),
		log:        logger.With().Str("component", "stream").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Run owns the client set until ctx is cancelled. All membership
// changes go through this loop, so no locking elsewhere.
func (h *Hub) Run(ctx context.Context) {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug().Int("clients", len(h.clients)).Msg("subscriber connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.log.Debug().Int("clients", len(h.clients)).Msg("subscriber disconnected")

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
					h.log.Warn().Msg("evicted slow subscriber")
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-heartbeat.C:
			h.Broadcast(EventHeartbeat, nil)

		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Broadcast queues an event for every subscriber. Drops the event if
// the hub's queue is full rather than blocking the caller.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	raw, err := json.Marshal(Event{Type: eventType, Time: time.Now().UTC(), Payload: payload})
	if err != nil {
		h.log.Error().Err(err).Str("type", eventType).Msg("marshaling event")
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.log.Warn().Str("type", eventType).Msg("broadcast queue full, dropping event")
	}
}

// ClientCount returns the connected subscriber count.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-time.After(time.Second):
		return 0
	}
}

// ServeWS upgrades an HTTP request to a subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

// readPump drains inbound frames so pongs are processed, and tears the
// client down on any read error.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
