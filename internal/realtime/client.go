package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The page and the channel are served from the same origin; cross
	// origin clients are allowed the same way the HTTP API is.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection. Frames to the peer go through the
// buffered send channel; the write pump is the only writer on the
// underlying connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu guards closed. SendEvent runs on connect and read goroutines
	// while the hub shuts the channel down, so every enqueue and the
	// close itself go through the lock.
	mu     sync.Mutex
	closed bool
}

// ServeClient upgrades the request and attaches the connection to the hub.
func ServeClient(hub *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// SendEvent queues an event for this client only. A full send buffer
// drops the frame; the broadcast path will catch the client up.
func (c *Client) SendEvent(event string, data any) error {
	frame, err := encodeEnvelope(event, data)
	if err != nil {
		return err
	}
	c.tryQueue(frame)
	return nil
}

// tryQueue enqueues a frame unless the client has already been shut
// down. Reports false only when the buffer is full, so the hub can
// drop the client as slow.
func (c *Client) tryQueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once, ending the write pump.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads frames off the connection and hands decoded envelopes
// to the hub's event handler. A malformed frame is reported back to the
// client but never tears down the connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
			c.SendEvent(EventMsgError, "malformed event frame")
			continue
		}
		if c.hub.onEvent != nil {
			c.hub.onEvent(c, env)
		}
	}
}

// writePump drains the send channel onto the connection and keeps the
// peer alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
