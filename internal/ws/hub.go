package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/agyouthrise/rise-backend/internal/domain"
)

// Message a snapshot pushed to WebSocket clients
type Message struct {
	Type     string      `json:"type"` // "snapshot"
	Kind     domain.Kind `json:"kind"`
	Degraded bool        `json:"degraded"`
	Items    interface{} `json:"items"`
}

// EncodeSnapshot renders one snapshot frame
func EncodeSnapshot(kind domain.Kind, degraded bool, items interface{}) ([]byte, error) {
	return json.Marshal(&Message{Type: "snapshot", Kind: kind, Degraded: degraded, Items: items})
}

// Hub tracks connected clients per collection and shuts them down together
type Hub struct {
	// Registered clients grouped by collection
	clients map[domain.Kind]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[domain.Kind]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		stopped:    make(chan struct{}),
	}
}

// Register adds a client to the hub. Returns false once the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.kind] == nil {
				h.clients[client.kind] = make(map[*Client]bool)
			}
			h.clients[client.kind][client] = true
			h.mu.Unlock()
			client.start()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.kind]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.clients, client.kind)
					}
					client.shutdown()
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			h.mu.Lock()
			for kind, clients := range h.clients {
				for client := range clients {
					client.shutdown()
				}
				delete(h.clients, kind)
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount number of connected clients watching a collection
func (h *Hub) ClientCount(kind domain.Kind) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[kind])
}

// Stop gracefully shuts down the hub and every client
func (h *Hub) Stop() {
	h.cancel()
	<-h.stopped
}
