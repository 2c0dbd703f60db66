package realtime

import (
	"encoding/json"

	"github.com/storefront/catalog/internal/infrastructure/logger"
)

// Channel events. Server-to-client events carry full state or an error
// string; client-to-server events are a message payload or a bare signal.
const (
	EventMessages  = "messages"
	EventProducts  = "products"
	EventMsgError  = "msgError"
	EventProdError = "prodError"

	EventNewMessage   = "newMessage"
	EventProductEvent = "productEvent"
)

// Envelope is the wire format for both directions: an event name plus an
// arbitrary JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub owns the set of connected clients and fans frames out to them.
// The run loop is the only goroutine touching the client set, so no
// locking is needed around it.
// outbound is a fan-out: the encoded frame plus its event name for the
// broadcast log line.
type outbound struct {
	event string
	frame []byte
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	logger     *logger.Logger

	// onConnect and onEvent are set by the Coordinator before Run.
	onConnect func(*Client)
	onEvent   func(*Client, Envelope)
}

// NewHub creates a hub. Run must be started before clients are served.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 16),
		logger:     logger.WithComponent("realtime"),
	}
}

// Run processes registrations and broadcasts until the hub is no longer
// needed. Intended to run on its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debugw("Client connected", "clients", len(h.clients))
			if h.onConnect != nil {
				go h.onConnect(client)
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.shutdown()
				h.logger.Debugw("Client disconnected", "clients", len(h.clients))
			}
		case out := <-h.broadcast:
			for client := range h.clients {
				if !client.tryQueue(out.frame) {
					// Slow client: drop it rather than stall the fan-out.
					delete(h.clients, client)
					client.shutdown()
				}
			}
			h.logger.LogBroadcast(out.event, len(h.clients))
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	frame, err := encodeEnvelope(event, data)
	if err != nil {
		h.logger.Errorw("Broadcast encode failed", "event", event, "error", err.Error())
		return
	}
	h.broadcast <- outbound{event: event, frame: frame}
}

func encodeEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
