package chat

import "time"

// ConversationParticipant - участник диалога со своим счетчиком
// непрочитанных. В диалоге всегда ровно две записи.
type ConversationParticipant struct {
	ID             string `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ConversationID string `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_user"`
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_user;index"`
	UnreadCount    int    `gorm:"default:0"`
	LastReadAt     *time.Time
	CreatedAt      time.Time `gorm:"default:now()"`
}

func (ConversationParticipant) TableName() string {
	return "chat.conversation_participants"
}
