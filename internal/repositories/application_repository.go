package repositories

import (
	"errors"

	"lancehub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists for this job")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.Application, error)
	Exists(db *gorm.DB, jobID, freelancerID string) (bool, error)
	UpdateStatus(db *gorm.DB, applicationID string, status models.ApplicationStatus) error
	CountByJob(db *gorm.DB, jobID string) (int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	err := db.Create(application).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateApplication
	}
	return err
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Where("freelancer_id = ?", freelancerID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) Exists(db *gorm.DB, jobID, freelancerID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, applicationID string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", applicationID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) CountByJob(db *gorm.DB, jobID string) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}
