package models

// Application - отклик фрилансера на вакансию.
// Неизменяем после создания (кроме статуса).
// Уникальный индекс (job_id, freelancer_id) страхует локальную
// проверку "уже откликался" на стороне клиента.
type Application struct {
	BaseModel
	JobID          string `gorm:"not null;index;uniqueIndex:idx_job_freelancer"`
	FreelancerID   string `gorm:"not null;index;uniqueIndex:idx_job_freelancer"`
	FreelancerName string
	Message        string            `gorm:"type:text"`
	Status         ApplicationStatus `gorm:"type:varchar(20);default:'pending'"`
}
