package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/agyouthrise/rise-backend/internal/ws"
	"github.com/agyouthrise/rise-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler streams collection snapshots over WebSocket
type WSHandler struct {
	hub            *ws.Hub
	streams        map[domain.Kind]ws.SubscribeFunc
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, client *store.Client, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub: hub,
		streams: map[domain.Kind]ws.SubscribeFunc{
			domain.KindPosts: snapshotStream[domain.Post](client.Posts, domain.KindPosts, func(items []domain.Post) interface{} {
				return items
			}),
			domain.KindEpisodes: snapshotStream[domain.Episode](client.Episodes, domain.KindEpisodes, func(items []domain.Episode) interface{} {
				return service.NumberEpisodes(items)
			}),
			domain.KindGallery: snapshotStream[domain.GalleryItem](client.Gallery, domain.KindGallery, func(items []domain.GalleryItem) interface{} {
				return items
			}),
		},
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// lister the live-list half of a store collection
type lister[T any] interface {
	List(ctx context.Context, onUpdate func(domain.Snapshot[T])) (cancel func())
}

// snapshotStream adapts a store subscription to encoded WebSocket frames.
// The subscription outlives the upgrade request, so it is bound to the
// client's lifetime (cancel) rather than the request context.
func snapshotStream[T any](l lister[T], kind domain.Kind, render func([]T) interface{}) ws.SubscribeFunc {
	return func(deliver func([]byte)) func() {
		return l.List(context.Background(), func(snap domain.Snapshot[T]) {
			frame, err := ws.EncodeSnapshot(kind, snap.Degraded, render(snap.Items))
			if err != nil {
				logger.WithCollection(kind.String()).Error().Err(err).Msg("encode snapshot frame")
				return
			}
			deliver(frame)
		})
	}
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" && trimmed != "*" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}

	// If no allowed origins configured, allow all (development mode)
	if len(h.allowedOrigins) == 0 {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Connect handles GET /ws/:kind — WebSocket upgrade
func (h *WSHandler) Connect(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithCollection(kind.String()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, kind, h.streams[kind])
	if !h.hub.Register(client) {
		conn.Close() //nolint:errcheck
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
