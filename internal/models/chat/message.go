package chat

import "time"

type MessageType string

const MessageTypeText MessageType = "text"

type Message struct {
	ID             string      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ConversationID string      `gorm:"type:uuid;not null;index:idx_conversation_created"`
	SenderID       string      `gorm:"type:uuid;not null;index"`
	SenderName     string
	Type           MessageType `gorm:"type:varchar(20);default:'text'"`
	Text           string      `gorm:"type:text;not null"`
	Read           bool        `gorm:"default:false"`
	CreatedAt      time.Time   `gorm:"default:now();index:idx_conversation_created"`
}

func (Message) TableName() string {
	return "chat.messages"
}
