package dto

import "time"

// OpenConversationRequest - открыть (или найти) диалог с пользователем
type OpenConversationRequest struct {
	ParticipantID string  `json:"participant_id" binding:"required,uuid"`
	JobID         *string `json:"job_id,omitempty" binding:"omitempty,uuid"`
}

// SendMessageRequest - отправка сообщения в диалог.
// Type опционален; через API принимается только "text".
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1,max=5000"`
	Type string `json:"type,omitempty" binding:"omitempty,max=20"`
}

// MessageResponse - сообщение в выдаче
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Type           string    `json:"type"`
	Text           string    `json:"text"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationResponse - диалог в списке чатов
type ConversationResponse struct {
	ID              string     `json:"id"`
	JobID           *string    `json:"job_id,omitempty"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	Peer            PeerDTO    `json:"peer"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PeerDTO - собеседник в списке диалогов
type PeerDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ConversationListResponse - все диалоги пользователя
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	TotalUnread   int64                  `json:"total_unread"`
}

// MessageListResponse - окно сообщений диалога (старые первыми)
type MessageListResponse struct {
	ConversationID string            `json:"conversation_id"`
	Messages       []MessageResponse `json:"messages"`
}

// UnreadCountResponse - суммарный счетчик непрочитанных по всем диалогам
type UnreadCountResponse struct {
	TotalUnread int64 `json:"total_unread"`
}

// MarkReadResponse - результат отметки диалога прочитанным
type MarkReadResponse struct {
	ConversationID string `json:"conversation_id"`
	MarkedCount    int64  `json:"marked_count"`
}
