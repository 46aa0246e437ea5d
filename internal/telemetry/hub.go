package telemetry

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"papertrader/internal/domain"
)

// Hub fans lifecycle events out to websocket clients and in-process
// subscribers. It implements domain.EventSink; Publish never blocks the
// engine, a full subscriber simply misses the event.
type Hub struct {
	mu          sync.Mutex
	clients     map[*websocket.Conn]bool
	subscribers []chan domain.LifecycleEvent
	broadcast   chan domain.LifecycleEvent
	done        chan struct{}
}

// NewHub creates a new event hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan domain.LifecycleEvent, 64),
		done:      make(chan struct{}),
	}
}

// Run pumps events to all clients and subscribers until Close is called
func (h *Hub) Run() {
	for {
		select {
		case event := <-h.broadcast:
			h.deliver(event)
		case <-h.done:
			return
		}
	}
}

// Publish queues a lifecycle event for broadcast. Drops the event if the
// hub's buffer is full rather than stalling the caller.
func (h *Hub) Publish(event domain.LifecycleEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[WARN] Event hub buffer full, dropping %s event", event.Type)
	}
}

// Subscribe returns a channel that receives every broadcast event. Intended
// for in-process consumers like the Telegram notifier.
func (h *Hub) Subscribe() <-chan domain.LifecycleEvent {
	ch := make(chan domain.LifecycleEvent, 16)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Register attaches a websocket client to the broadcast set
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

// Close stops the pump and disconnects all clients
func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}

func (h *Hub) deliver(event domain.LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to encode %s event: %v", event.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}

	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
