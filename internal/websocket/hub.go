package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Message is the envelope pushed to clients.
type Message struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
	At    time.Time       `json:"at"`
}

// Hub fans out snapshots per topic. The last message of every topic is kept
// and sent to clients when they register.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	last    map[string][]byte
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		last:    make(map[string][]byte),
	}
}

func (h *Hub) Register(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[*Client]struct{})
	}
	h.clients[topic][client] = struct{}{}
	if payload, ok := h.last[topic]; ok {
		client.offer(payload)
	}
}

func (h *Hub) Unregister(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		return
	}
	delete(h.clients[topic], client)
	if len(h.clients[topic]) == 0 {
		delete(h.clients, topic)
	}
}

// Broadcast marshals v and queues it for every client of topic. Clients
// that are behind drop their oldest queued message.
func (h *Hub) Broadcast(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "topic", topic, "error", err)
		return
	}
	payload, _ := json.Marshal(Message{Topic: topic, Data: data, At: time.Now().UTC()})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[topic] = payload
	for client := range h.clients[topic] {
		client.offer(payload)
	}
}

// Last returns the most recent payload of topic.
func (h *Hub) Last(topic string) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	payload, ok := h.last[topic]
	return payload, ok
}

func (h *Hub) Clients(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
