package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Conversation - диалог между двумя пользователями, опционально
// привязанный к вакансии. PairKey детерминирован для пары участников,
// поэтому повторный запрос "открыть чат" всегда попадает в тот же диалог.
type Conversation struct {
	ID              string     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PairKey         string     `gorm:"uniqueIndex;not null"`
	JobID           *string    `gorm:"type:uuid;index"`
	LastMessage     *string    `gorm:"type:text"`
	LastMessageTime *time.Time `gorm:"index"`
	CreatedAt       time.Time  `gorm:"default:now()"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID"`
}

func (Conversation) TableName() string {
	return "chat.conversations"
}

// PairKeyFor строит детерминированный ключ диалога: порядок участников
// не важен, пустой jobID и jobID="" дают один и тот же ключ.
func PairKeyFor(userA, userB string, jobID *string) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	raw := lo + ":" + hi
	if jobID != nil && *jobID != "" {
		raw += ":" + *jobID
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
