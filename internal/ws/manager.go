package ws

import (
	"sync"

	"fixrx_backend/internal/logger"
)

// Event is a real-time notification addressed to one user.
type Event struct {
	Type    string      `json:"type"`
	UserID  string      `json:"-"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventRequestCreated   = "connection.created"
	EventRequestAccepted  = "connection.accepted"
	EventRequestDeclined  = "connection.declined"
	EventRequestCancelled = "connection.cancelled"
	EventNewMessage       = "message.new"
)

// Hub tracks connected clients per user and fans events out to them.
// Publish never blocks the caller: slow clients get dropped, not the
// publisher.
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan Event
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			logger.Debug("ws client connected", "user_id", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			logger.Debug("ws client disconnected", "user_id", client.userID)

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// Publish queues an event for delivery. Fire-and-forget: if the queue
// is full the event is dropped and logged, never propagated back to
// the emitting operation.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		logger.Warn("ws event queue full, dropping event", "type", event.Type, "user_id", event.UserID)
	}
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[event.UserID] {
		select {
		case client.send <- event:
		default:
			// Slow consumer; the write pump will clean it up.
			logger.Warn("ws client send buffer full", "user_id", event.UserID)
		}
	}
}
