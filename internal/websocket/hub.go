package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dom/patch-meta/internal/events"
)

const broadcastBuffer = 256

// Hub broadcasts progress events to every connected client and keeps the
// most recent ones for replay. It implements events.Emitter.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	history    []events.Event
	replaySize int
	mu         sync.RWMutex
}

// NewHub creates a hub that replays up to replaySize recent events on request.
func NewHub(replaySize int) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		replaySize: replaySize,
	}
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				close(client.send)
			} else {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				h.trySend(client, data)
			}
			h.mu.RUnlock()
		}
	}
}

// Stop gracefully shuts down the hub and closes every client.
// It blocks until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done // Wait for Run() to finish
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Emit queues e for every client as a LOG_MESSAGE frame. Frames are dropped
// when the broadcast queue is full.
func (h *Hub) Emit(e events.Event) {
	msg, err := NewMessage(MessageTypeLogMessage, e)
	if err != nil {
		log.Printf("ERROR [websocket.Emit] marshal event: %v", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ERROR [websocket.Emit] marshal message: %v", err)
		return
	}

	h.mu.Lock()
	if h.replaySize > 0 {
		h.history = append(h.history, e)
		if len(h.history) > h.replaySize {
			h.history = h.history[len(h.history)-h.replaySize:]
		}
	}
	stopped := h.stopped
	h.mu.Unlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("WARN [websocket.Emit] broadcast queue full, dropping event")
	}
}

// Replay sends the retained events to one client as a single EVENT_SYNC frame.
func (h *Hub) Replay(client *Client) {
	h.mu.RLock()
	history := append([]events.Event{}, h.history...)
	h.mu.RUnlock()

	msg, err := NewMessage(MessageTypeEventSync, history)
	if err != nil {
		log.Printf("ERROR [websocket.Replay] marshal history: %v", err)
		return
	}
	client.Send(msg)
}

// deliver sends data to a client if it is still registered.
func (h *Hub) deliver(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client] {
		h.trySend(client, data)
	}
}

// trySend must be called with h.mu held.
func (h *Hub) trySend(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Buffer full, skip
	}
}
