package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	IMPORT_CHANNEL Channel = "catalog.import"
)

type MessageType string

const (
	IMPORT_PROGRESS MessageType = "import_progress"
	IMPORT_COMPLETE MessageType = "import_complete"
	IMPORT_ERROR    MessageType = "import_error"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus publishes events over valkey pub/sub and fans them out to local
// handlers. Without a client it only notifies local handlers.
type EventBus struct {
	client    valkey.Client
	log       logger.Logger
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		log:       logger.New("EventBus"),
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Publish(ctx context.Context, channel Channel, event Event) error {
	log := eb.log.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	if eb.client == nil {
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err("failed to publish event to valkey", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

// PublishImport publishes an import lifecycle event on IMPORT_CHANNEL.
func (eb *EventBus) PublishImport(ctx context.Context, eventType MessageType, data map[string]any) error {
	return eb.Publish(ctx, IMPORT_CHANNEL, Event{Type: eventType, Data: data})
}

// Subscribe registers handler for channel. The returned function removes it.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) func() {
	log := eb.log.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	index := len(eb.handlers[channel]) - 1
	startListener := eb.client != nil && !eb.listening[channel]
	eb.listening[channel] = eb.listening[channel] || startListener
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if startListener {
		go eb.listenToChannel(channel)
	}

	return func() {
		eb.mutex.Lock()
		defer eb.mutex.Unlock()
		if handlers := eb.handlers[channel]; index < len(handlers) {
			handlers[index] = nil
		}
	}
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.log.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		if handler == nil {
			continue
		}
		if err := handler(event); err != nil {
			log.Er("handler failed", err, "channel", channel, "eventID", event.ID, "handlerIndex", i)
		}
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.log.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}

	eb.mutex.Lock()
	eb.listening[channel] = false
	eb.mutex.Unlock()
}

func (eb *EventBus) Close() error {
	log := eb.log.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
