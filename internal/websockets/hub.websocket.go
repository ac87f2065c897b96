package websockets

import (
	"context"
	"sync"
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, SEND_CHANNEL_SIZE),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) run(ctx context.Context, m *Manager) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[client.ID] = client
}

// remove is idempotent; readPump and HandleWebSocket both unregister.
func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

func (h *Hub) count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// sendTo delivers to a single client if it is still registered.
func (h *Hub) sendTo(client *Client, message Message) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, ok := h.clients[client.ID]; !ok {
		return false
	}
	return trySend(client, message)
}

func trySend(client *Client, message Message) bool {
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		log.Debug("No active clients to broadcast to", "messageID", message.ID)
		return
	}

	sent := 0
	for _, client := range h.clients {
		if trySend(client, message) {
			sent++
			continue
		}
		log.Warn("Client send channel full, dropping message", "clientID", client.ID)
	}

	log.Debug("Broadcast complete", "messageID", message.ID, "sentTo", sent, "totalClients", len(h.clients))
}
