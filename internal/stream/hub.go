// Package stream relays the engine's Redis pub/sub feed to dashboard
// WebSocket clients: live vehicle snapshots on every mutation and alert
// events as they are created.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"fleet-telemetry/engine/internal/store"
	"fleet-telemetry/engine/pkg/logger"
)

const writeTimeout = 5 * time.Second

type Hub struct {
	redis *redis.Client
	log   logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

func NewHub(client *redis.Client, log logger.Logger) *Hub {
	return &Hub{
		redis:   client,
		log:     log,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard origins are enforced upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run subscribes to the telemetry and alert channels and fans every
// message out to connected clients until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.redis.Subscribe(ctx, store.TelemetryChannel, store.AlertChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(msg)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// ServeWS upgrades the request and registers the client. The read loop
// exists only to notice disconnects; clients never send data.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.Debug("stream client connected", "remote", r.RemoteAddr)

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) broadcast(msg *redis.Message) {
	frame, err := json.Marshal(map[string]interface{}{
		"channel": msg.Channel,
		"data":    json.RawMessage(msg.Payload),
	})
	if err != nil {
		h.log.Warn("stream frame marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
			// Slow or gone; drop it rather than stall the feed.
			h.drop(c)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
	h.mu.Unlock()
}
