// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gate-pass-api-server/internal/logger"
)

// Named events delivered over the push channel.
const (
	EventNewRequest       = "new-request"
	EventRequestUpdated   = "request-updated"
	EventRequestApproved  = "request-approved"
	EventRequestRejected  = "request-rejected"
	EventRequestCompleted = "request-completed"
	EventBulkUpdate       = "bulk-update"
	EventNotification     = "notification"
)

// Event is the wire shape of a push notification.
type Event struct {
	Name      string      `json:"event"`
	RefNo     string      `json:"refNo,omitempty"`
	Status    string      `json:"status,omitempty"`
	ServiceNo string      `json:"serviceNo,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Conn is the slice of *websocket.Conn the hub needs.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Room name helpers. Every socket joins its user room, its role room and
// one room per branch; a reconnect re-joins all three by construction.
func UserRoom(serviceNo string) string { return "user:" + serviceNo }
func RoleRoom(role string) string      { return "role:" + role }
func BranchRoom(branch string) string  { return "branch:" + branch }

// Hub tracks all connected WebSocket clients and their room memberships.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]Conn            // connection ID -> conn
	rooms   map[string]map[string]bool // room -> set of connection IDs
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]Conn),
		rooms:   make(map[string]map[string]bool),
	}
}

// Register adds a client and joins it to its rooms.
func (h *Hub) Register(connID string, conn Conn, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[connID] = conn
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[string]bool)
		}
		h.rooms[room][connID] = true
	}
	logger.GetLogger().Info("WebSocket client registered", zap.String("connID", connID), zap.Strings("rooms", rooms))
}

// Unregister removes a client from the hub and every room it joined.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; !ok {
		return
	}
	delete(h.clients, connID)
	for room, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	logger.GetLogger().Info("WebSocket client unregistered", zap.String("connID", connID))
}

// Broadcast sends an event to every client in the given rooms. A client in
// more than one of the rooms receives the event once. Write failures are
// logged and skipped; delivery is best-effort.
func (h *Hub) Broadcast(event Event, rooms ...string) {
	message, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().Error("Failed to marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	for _, room := range rooms {
		for connID := range h.rooms[room] {
			if seen[connID] {
				continue
			}
			seen[connID] = true
			conn, ok := h.clients[connID]
			if !ok {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.GetLogger().Warn("Failed to push event to client",
					zap.String("connID", connID), zap.String("event", event.Name), zap.Error(err))
			}
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
