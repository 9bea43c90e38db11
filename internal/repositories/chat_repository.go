package repositories

import (
	"errors"
	"time"

	"lancehub_backend/internal/models/chat"

	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationExists   = errors.New("conversation with this pair key already exists")
)

type ChatRepository interface {
	// Conversation operations
	CreateConversation(db *gorm.DB, conversation *chat.Conversation) error
	FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error)
	FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error)
	FindUserConversations(db *gorm.DB, userID string) ([]chat.Conversation, error)
	UpdateLastMessage(db *gorm.DB, conversationID, text string, at time.Time) error

	// Participant operations
	AddParticipants(db *gorm.DB, participants []*chat.ConversationParticipant) error
	IncrementUnread(db *gorm.DB, conversationID, userID string) error
	ResetUnread(db *gorm.DB, conversationID, userID string, at time.Time) error

	// Message operations
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindRecentMessages(db *gorm.DB, conversationID string, limit int) ([]chat.Message, error)
	MarkMessagesAsRead(db *gorm.DB, conversationID, readerID string) (int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

func (r *ChatRepositoryImpl) CreateConversation(db *gorm.DB, conversation *chat.Conversation) error {
	err := db.Create(conversation).Error
	if err != nil && isUniqueViolation(err) {
		return ErrConversationExists
	}
	return err
}

func (r *ChatRepositoryImpl) FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.Preload("Participants").First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.Preload("Participants").First(&conversation, "pair_key = ?", pairKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindUserConversations(db *gorm.DB, userID string) ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := db.Preload("Participants").
		Joins("JOIN chat.conversation_participants cp ON cp.conversation_id = \"chat\".\"conversations\".id").
		Where("cp.user_id = ?", userID).
		Order("last_message_time DESC NULLS LAST").
		Find(&conversations).Error
	return conversations, err
}

func (r *ChatRepositoryImpl) UpdateLastMessage(db *gorm.DB, conversationID, text string, at time.Time) error {
	return db.Model(&chat.Conversation{}).Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message":      text,
			"last_message_time": at,
		}).Error
}

func (r *ChatRepositoryImpl) AddParticipants(db *gorm.DB, participants []*chat.ConversationParticipant) error {
	return db.Create(participants).Error
}

func (r *ChatRepositoryImpl) IncrementUnread(db *gorm.DB, conversationID, userID string) error {
	// Атомарный инкремент, без read-modify-write.
	return db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("unread_count", gorm.Expr("unread_count + 1")).Error
}

func (r *ChatRepositoryImpl) ResetUnread(db *gorm.DB, conversationID, userID string, at time.Time) error {
	return db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Updates(map[string]interface{}{
			"unread_count": 0,
			"last_read_at": at,
		}).Error
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

// FindRecentMessages возвращает последние limit сообщений диалога
// в хронологическом порядке (старые первыми).
func (r *ChatRepositoryImpl) FindRecentMessages(db *gorm.DB, conversationID string, limit int) ([]chat.Message, error) {
	var messages []chat.Message
	err := db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// Переворачиваем: запрос отдал новые первыми.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkMessagesAsRead помечает прочитанными все чужие сообщения диалога.
func (r *ChatRepositoryImpl) MarkMessagesAsRead(db *gorm.DB, conversationID, readerID string) (int64, error) {
	result := db.Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = false", conversationID, readerID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

// CountUnread суммирует непрочитанные по всем диалогам пользователя.
func (r *ChatRepositoryImpl) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.Model(&chat.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	return total, err
}
