package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
)

// Event types pushed to dashboard clients.
const (
	TypeStockUpdate    = "stock_update"
	TypeSaleCreated    = "sale_created"
	TypeCustomerUpdate = "customer_update"
	TypeMaintenance    = "maintenance_logged"
)

// Event is the JSON envelope broadcast to every connected client.
type Event struct {
	Type    string          `json:"type"`
	Action  string          `json:"action"`
	Data    interface{}     `json:"data,omitempty"`
	User    *model.Identity `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
	At      time.Time       `json:"at"`
}

// Client is the part of a websocket connection the hub needs.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const textMessage = 1

type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 256),
	}
}

// Publish queues the event for broadcast. It never blocks the caller; when the
// buffer is full the event is dropped and logged.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		logger.Warnw("ws_event_marshal_failed", "type", event.Type, "error", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.Warnw("ws_event_dropped", "type", event.Type, "action", event.Action)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Run serves register, unregister and broadcast requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Debugw("ws_client_connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(textMessage, message); err != nil {
					_ = conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.Clients {
		_ = conn.Close()
		delete(h.Clients, conn)
	}
}
