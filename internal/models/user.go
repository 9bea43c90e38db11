package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;not null"`
	PasswordHash      string     `gorm:"not null"`
	Name              string     `gorm:"not null"`
	Role              UserRole   `gorm:"type:varchar(20);not null"`
	Status            UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified        bool       `gorm:"default:false"`
	VerificationToken string
	ResetToken        string
	ResetTokenExp     *time.Time
	AvatarURL         *string

	// Сохраненные вакансии пользователя (множество ID).
	BookmarkedJobs pq.StringArray `gorm:"type:text[]"`

	// Денормализация: ID вакансий, на которые фрилансер уже откликнулся.
	// Источник истины — таблица applications.
	AppliedJobs pq.StringArray `gorm:"type:text[]"`

	// Relations
	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:UserID"`
	ClientProfile     *ClientProfile     `gorm:"foreignKey:UserID"`
	RefreshTokens     []RefreshToken     `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
