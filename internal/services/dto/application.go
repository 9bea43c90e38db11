package dto

import (
	"time"

	"lancehub_backend/internal/models"
)

// ApplyRequest - отклик на вакансию
type ApplyRequest struct {
	Message string `json:"message" binding:"omitempty,max=3000"`
}

// UpdateApplicationStatusRequest - смена статуса отклика владельцем вакансии
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=accepted rejected"`
}

// ApplicationResponse - отклик в выдаче
type ApplicationResponse struct {
	ID             string                   `json:"id"`
	JobID          string                   `json:"job_id"`
	FreelancerID   string                   `json:"freelancer_id"`
	FreelancerName string                   `json:"freelancer_name"`
	Message        string                   `json:"message,omitempty"`
	Status         models.ApplicationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
}

// AppliedJobResponse - отклик вместе с вакансией (кабинет фрилансера)
type AppliedJobResponse struct {
	Application ApplicationResponse `json:"application"`
	Job         *JobResponse        `json:"job,omitempty"`
}
