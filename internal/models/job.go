package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	ClientID    string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"index"`
	Budget      float64
	Duration    string
	Location    string         `gorm:"default:'Remote'"`
	Skills      datatypes.JSON `gorm:"type:jsonb"` // ["React", "Node.js", ...]
	Status      JobStatus      `gorm:"type:varchar(20);default:'open';index"`
	Deadline    *time.Time
	Views       int `gorm:"default:0"`

	// Денормализация для карточки вакансии: список ID откликов и их
	// количество. Источник истины — таблица applications.
	Applications      pq.StringArray `gorm:"type:text[]"`
	ApplicationsCount int            `gorm:"default:0"`
}
