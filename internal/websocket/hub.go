package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/fernwell/choreboard/internal/model"
)

// Event is a live chore-lifecycle notification pushed to all clients so
// open boards refresh without polling.
type Event struct {
	Type     string       `json:"type"`
	ChoreID  int64        `json:"chore_id,omitempty"`
	Status   model.Status `json:"status,omitempty"`
	FamilyID *int64       `json:"family_id,omitempty"`
}

// ChoreEvent builds an Event for a chore mutation; action is e.g.
// "created", "completed", "verified".
func ChoreEvent(action string, c *model.Chore) Event {
	e := Event{Type: "chore_" + action}
	if c != nil {
		e.ChoreID = c.ID
		e.Status = c.Status
		e.FamilyID = c.FamilyID
	}
	return e
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full; drop rather than block the broadcaster
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
