package websockets

import (
	"context"
	"crate/internal/events"
	"errors"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProgress struct {
	data map[string]any
	err  error
}

func (s stubProgress) ProgressSnapshot(ctx context.Context) (map[string]any, error) {
	return s.data, s.err
}

func newTestClient(m *Manager, id string) *Client {
	return &Client{ID: id, Manager: m, send: make(chan Message, SEND_CHANNEL_SIZE)}
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case message := <-client.send:
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestManager_ForwardsImportEvents(t *testing.T) {
	bus := events.New(nil)
	m := New(bus, nil)
	defer m.Close()

	client := newTestClient(m, "client-1")
	m.hub.register <- client
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	err := bus.PublishImport(context.Background(), events.IMPORT_COMPLETE, map[string]any{"imported": 4})
	require.NoError(t, err)

	message := receive(t, client)
	assert.Equal(t, MESSAGE_TYPE_EVENT, message.Type)
	assert.Equal(t, IMPORT_WS_CHANNEL, message.Channel)
	assert.Equal(t, string(events.IMPORT_COMPLETE), message.Action)
	assert.Equal(t, 4, message.Data["imported"])
}

func TestManager_ProgressMessage(t *testing.T) {
	m := New(nil, stubProgress{data: map[string]any{"percentage": 50.0}})
	defer m.Close()

	message, ok := m.progressMessage(context.Background())
	require.True(t, ok)
	assert.Equal(t, MESSAGE_TYPE_PROGRESS, message.Type)
	assert.Equal(t, 50.0, message.Data["percentage"])

	m.progress = stubProgress{err: errors.New("db down")}
	message, ok = m.progressMessage(context.Background())
	require.True(t, ok)
	assert.Equal(t, MESSAGE_TYPE_ERROR, message.Type)
	assert.Equal(t, "db down", message.Data["error"])

	m.progress = nil
	_, ok = m.progressMessage(context.Background())
	assert.False(t, ok)
}

func TestHub_RemoveIsIdempotent(t *testing.T) {
	h := newHub()
	client := &Client{ID: "a", send: make(chan Message, 1)}

	h.add(client)
	assert.Equal(t, 1, h.count())

	h.remove(client)
	h.remove(client)
	assert.Equal(t, 0, h.count())

	_, open := <-client.send
	assert.False(t, open)
	assert.False(t, h.sendTo(client, Message{Type: MESSAGE_TYPE_PONG}))
}

func TestHub_BroadcastSkipsFullClients(t *testing.T) {
	m := &Manager{hub: newHub(), log: logger.New("websockets")}
	full := &Client{ID: "full", send: make(chan Message)}
	ready := &Client{ID: "ready", send: make(chan Message, 1)}
	m.hub.add(full)
	m.hub.add(ready)

	m.hub.broadcastMessage(Message{ID: "1", Type: MESSAGE_TYPE_PROGRESS}, m)

	assert.Equal(t, "1", (<-ready.send).ID)
	assert.Equal(t, 2, m.hub.count())
}
