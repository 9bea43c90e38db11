package dto

import (
	"time"

	"lancehub_backend/internal/models"
)

// CreateJobRequest - публикация вакансии
type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required,min=5,max=150"`
	Description string   `json:"description" binding:"required,min=20,max=10000"`
	Category    string   `json:"category" binding:"required" validate:"job_category"`
	Budget      float64  `json:"budget" binding:"required,gt=0"`
	Duration    string   `json:"duration" binding:"omitempty,max=60"`
	Location    string   `json:"location" binding:"omitempty,max=120"`
	Skills      []string `json:"skills" binding:"omitempty,max=20,dive,min=1,max=50"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateJobRequest - частичное редактирование вакансии владельцем
type UpdateJobRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=5,max=150"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=20,max=10000"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,job_category"`
	Budget      *float64 `json:"budget,omitempty" binding:"omitempty,gt=0"`
	Duration    *string  `json:"duration,omitempty" binding:"omitempty,max=60"`
	Location    *string  `json:"location,omitempty" binding:"omitempty,max=120"`
	Skills      []string `json:"skills,omitempty" binding:"omitempty,max=20,dive,min=1,max=50"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// JobFilter - параметры каталога вакансий
type JobFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" validate:"job_category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
}

// JobResponse - вакансия в выдаче
type JobResponse struct {
	ID                string           `json:"id"`
	ClientID          string           `json:"client_id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Budget            float64          `json:"budget"`
	Duration          string           `json:"duration,omitempty"`
	Location          string           `json:"location"`
	Skills            []string         `json:"skills"`
	Status            models.JobStatus `json:"status"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	Views             int              `json:"views"`
	ApplicationsCount int              `json:"applications_count"`
	CreatedAt         time.Time        `json:"created_at"`
}

// JobListResponse - страница каталога вакансий
type JobListResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
}
