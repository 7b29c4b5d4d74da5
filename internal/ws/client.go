package ws

import (
	"sync"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// SubscribeFunc opens a snapshot stream that hands encoded frames to deliver.
// deliver must not block. The returned cancel stops the stream.
type SubscribeFunc func(deliver func([]byte)) (cancel func())

// Conn the part of *websocket.Conn the pumps use
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a single WebSocket connection watching one collection
type Client struct {
	hub       *Hub
	conn      Conn
	send      chan []byte
	kind      domain.Kind
	subscribe SubscribeFunc

	mu        sync.Mutex
	cancelSub func()
	closed    bool
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn Conn, kind domain.Kind, subscribe SubscribeFunc) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		kind:      kind,
		subscribe: subscribe,
	}
}

// start opens the store subscription (hub goroutine)
func (c *Client) start() {
	cancel := c.subscribe(c.enqueue)
	c.mu.Lock()
	c.cancelSub = cancel
	c.mu.Unlock()
}

// enqueue runs on the subscription goroutine; a client that cannot keep up is
// disconnected rather than allowed to stall the stream
func (c *Client) enqueue(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		c.conn.Close() //nolint:errcheck
	}
}

// shutdown stops the subscription, then closes send so WritePump exits.
// Called from the hub goroutine only.
func (c *Client) shutdown() {
	c.mu.Lock()
	cancel := c.cancelSub
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// ReadPump reads messages from the WebSocket (handles pong/close)
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close() //nolint:errcheck
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		// Client messages are ignored (server-push only)
	}
}

// WritePump sends messages to the WebSocket
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
