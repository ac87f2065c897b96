package websockets

import (
	"context"
	"crate/internal/events"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING     = "ping"
	MESSAGE_TYPE_PONG     = "pong"
	MESSAGE_TYPE_PROGRESS = "import_progress"
	MESSAGE_TYPE_EVENT    = "import_event"
	MESSAGE_TYPE_ERROR    = "error"
	PING_INTERVAL         = 30 * time.Second
	PONG_TIMEOUT          = 60 * time.Second
	WRITE_TIMEOUT         = 10 * time.Second
	PROGRESS_INTERVAL     = 2 * time.Second
	MAX_MESSAGE_SIZE      = 64 * 1024
	SEND_CHANNEL_SIZE     = 64
	IMPORT_WS_CHANNEL     = "import"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ProgressSource reports the state of the running (or last) import as a
// flat map suitable for a message payload.
type ProgressSource interface {
	ProgressSnapshot(ctx context.Context) (map[string]any, error)
}

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

// Manager fans import events and periodic progress snapshots out to every
// connected client.
type Manager struct {
	hub         *Hub
	progress    ProgressSource
	eventBus    *events.EventBus
	unsubscribe func()
	log         logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(eventBus *events.EventBus, progress ProgressSource) *Manager {
	log := logger.New("websockets")
	ctx, cancel := context.WithCancel(context.Background())

	manager := &Manager{
		hub:      newHub(),
		progress: progress,
		eventBus: eventBus,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(ctx, manager)
	go manager.progressLoop(ctx)

	if eventBus != nil {
		manager.unsubscribe = eventBus.Subscribe(events.IMPORT_CHANNEL, manager.handleImportEvent)
	}

	return manager
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if snapshot, ok := m.progressMessage(m.ctx); ok {
		client.send <- snapshot
	}

	log.Info("Client connected", "clientID", client.ID)
	m.hub.register <- client
	defer func() {
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err, "clientID", client.ID)
		}
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) Broadcast(message Message) {
	log := m.log.Function("Broadcast")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (m *Manager) ClientCount() int {
	return m.hub.count()
}

func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.cancel()
}

func (m *Manager) handleImportEvent(event events.Event) error {
	m.Broadcast(Message{
		ID:        event.ID,
		Type:      MESSAGE_TYPE_EVENT,
		Channel:   IMPORT_WS_CHANNEL,
		Action:    string(event.Type),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	})
	return nil
}

func (m *Manager) progressMessage(ctx context.Context) (Message, bool) {
	log := m.log.Function("progressMessage")

	if m.progress == nil {
		return Message{}, false
	}

	data, err := m.progress.ProgressSnapshot(ctx)
	if err != nil {
		log.Er("failed to read import progress", err)
		return Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_ERROR,
			Channel:   IMPORT_WS_CHANNEL,
			Data:      map[string]any{"error": err.Error()},
			Timestamp: time.Now(),
		}, true
	}

	return Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_PROGRESS,
		Channel:   IMPORT_WS_CHANNEL,
		Action:    "progress",
		Data:      data,
		Timestamp: time.Now(),
	}, true
}

func (m *Manager) progressLoop(ctx context.Context) {
	ticker := time.NewTicker(PROGRESS_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.hub.count() == 0 {
				continue
			}
			if message, ok := m.progressMessage(ctx); ok {
				m.Broadcast(message)
			}
		}
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.Manager.hub.sendTo(c, Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now(),
			})
			continue
		}

		log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
