package ws

import (
	"sync"

	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/services/dto"
)

// Event - исходящее событие для клиента
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventTypeMessage          = "message"
	EventTypeConversationRead = "conversation_read"
)

// WebSocketManager держит живые соединения, по одному на пользователя.
// Реализует services.ChatEvents: сервисы шлют события, не зная о транспорте.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			// Новое соединение вытесняет старое с тем же userID.
			if old, ok := manager.clients[client.ID]; ok {
				close(old.Send)
			}
			manager.clients[client.ID] = client
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Info("ws client registered", "user_id", client.ID, "total", total)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if current, ok := manager.clients[client.ID]; ok && current == client {
				close(client.Send)
				delete(manager.clients, client.ID)
			}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Info("ws client unregistered", "user_id", client.ID, "total", total)
		}
	}
}

// MessageSent рассылает новое сообщение всем участникам диалога.
func (manager *WebSocketManager) MessageSent(participantIDs []string, message *dto.MessageResponse) {
	manager.sendToUsers(participantIDs, Event{Type: EventTypeMessage, Data: message})
}

// ConversationRead сообщает участникам, что диалог прочитан.
func (manager *WebSocketManager) ConversationRead(participantIDs []string, conversationID, readerID string) {
	manager.sendToUsers(participantIDs, Event{
		Type: EventTypeConversationRead,
		Data: map[string]string{
			"conversation_id": conversationID,
			"reader_id":       readerID,
		},
	})
}

func (manager *WebSocketManager) sendToUsers(userIDs []string, event Event) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for _, userID := range userIDs {
		client, ok := manager.clients[userID]
		if !ok {
			continue
		}
		select {
		case client.Send <- event:
		default:
			// Канал забит - клиент не читает, отключаем.
			go func(c *Client) {
				manager.unregister <- c
			}(client)
		}
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// IsClientConnected проверяет, подключен ли пользователь
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}
