package ws

import (
	"testing"
	"time"

	"lancehub_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClients(t *testing.T, manager *WebSocketManager, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return manager.GetClientCount() == want
	}, time.Second, 5*time.Millisecond)
}

func TestManager_RegisterAndUnregister(t *testing.T) {
	t.Parallel()

	manager := NewWebSocketManager()
	go manager.Run()

	client := &Client{ID: "u1", Send: make(chan Event, 1), Manager: manager}
	manager.register <- client
	waitForClients(t, manager, 1)
	assert.True(t, manager.IsClientConnected("u1"))

	manager.unregister <- client
	waitForClients(t, manager, 0)
	assert.False(t, manager.IsClientConnected("u1"))
}

// Новое соединение того же пользователя вытесняет старое
func TestManager_ReplacesExistingConnection(t *testing.T) {
	t.Parallel()

	manager := NewWebSocketManager()
	go manager.Run()

	first := &Client{ID: "u1", Send: make(chan Event, 1), Manager: manager}
	second := &Client{ID: "u1", Send: make(chan Event, 1), Manager: manager}

	manager.register <- first
	waitForClients(t, manager, 1)
	manager.register <- second
	require.Eventually(t, func() bool {
		select {
		case _, open := <-first.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, manager.GetClientCount())
}

func TestManager_MessageSent(t *testing.T) {
	t.Parallel()

	manager := NewWebSocketManager()
	go manager.Run()

	client := &Client{ID: "u1", Send: make(chan Event, 4), Manager: manager}
	manager.register <- client
	waitForClients(t, manager, 1)

	message := &dto.MessageResponse{ID: "m1", ConversationID: "conv1", Text: "hello"}
	manager.MessageSent([]string{"u1", "offline-user"}, message)

	select {
	case event := <-client.Send:
		assert.Equal(t, EventTypeMessage, event.Type)
		assert.Equal(t, message, event.Data)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered to the client")
	}
}

func TestManager_ConversationRead(t *testing.T) {
	t.Parallel()

	manager := NewWebSocketManager()
	go manager.Run()

	client := &Client{ID: "u2", Send: make(chan Event, 4), Manager: manager}
	manager.register <- client
	waitForClients(t, manager, 1)

	manager.ConversationRead([]string{"u2"}, "conv1", "u1")

	select {
	case event := <-client.Send:
		assert.Equal(t, EventTypeConversationRead, event.Type)
		payload, ok := event.Data.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "conv1", payload["conversation_id"])
		assert.Equal(t, "u1", payload["reader_id"])
	case <-time.After(time.Second):
		t.Fatal("event was not delivered to the client")
	}
}
