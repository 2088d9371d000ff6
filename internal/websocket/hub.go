package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"deal-intake-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans pipeline events out to websocket watchers. Clients are grouped by
// the session they watch; a session can have any number of watchers. When a
// Redis connection is configured, events are relayed across instances so a
// watcher connected to one node still sees a run executing on another.
type Hub struct {
	// SessionID -> watchers of that session
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance relay (optional)
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Watcher registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSession delivers one serialized event to every local watcher of
// the session and relays it to other instances over Redis.
func (h *Hub) BroadcastToSession(sessionID string, data []byte) {
	h.sendLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_session_id": sessionID,
			"message":           json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "intake_cluster_events", payload)
	}
}

func (h *Hub) sendLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Watcher too slow; drop it rather than stalling the event fan-out.
			h.logger.Warn("Hub", "Watcher send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionID,
			})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "intake_cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		h.sendLocal(payload.TargetSessionID, payload.Message)
	}
}
