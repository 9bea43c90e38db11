package models

import (
	"gorm.io/datatypes"
)

// FreelancerProfile - публичный профиль фрилансера
type FreelancerProfile struct {
	BaseModel
	UserID     string `gorm:"not null;uniqueIndex"`
	Title      string
	Bio        string         `gorm:"type:text"`
	Skills     datatypes.JSON `gorm:"type:jsonb"` // ["React", "Go", ...]
	HourlyRate *float64
	Location   string
}

// ClientProfile - профиль заказчика
type ClientProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	CompanyName string
	Website     *string
	Location    string
	About       string `gorm:"type:text"`
}
