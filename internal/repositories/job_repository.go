package repositories

import (
	"errors"

	"lancehub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	Delete(db *gorm.DB, id string) error

	// FindOpen возвращает все открытые вакансии, новые первыми.
	// Фильтрация по тексту и пагинация делаются на сервисном уровне.
	FindOpen(db *gorm.DB) ([]models.Job, error)
	FindByClient(db *gorm.DB, clientID string) ([]models.Job, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error)

	UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error
	IncrementViews(db *gorm.DB, jobID string) error
	AppendApplication(db *gorm.DB, jobID, applicationID string) error

	// CloseExpired закрывает открытые вакансии с истекшим дедлайном.
	CloseExpired(db *gorm.DB) (int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Job{}, "id = ?", id).Error
}

func (r *JobRepositoryImpl) FindOpen(db *gorm.DB) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("status = ?", models.JobStatusOpen).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindByClient(db *gorm.DB, clientID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error) {
	var jobs []models.Job
	if len(ids) == 0 {
		return jobs, nil
	}
	err := db.Where("id IN ?", ids).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error {
	result := db.Model(&models.Job{}).Where("id = ?", jobID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *JobRepositoryImpl) AppendApplication(db *gorm.DB, jobID, applicationID string) error {
	// Атомарно: добавляем ID отклика в массив и увеличиваем счетчик.
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"applications":       gorm.Expr("array_append(applications, ?)", applicationID),
			"applications_count": gorm.Expr("applications_count + 1"),
		}).Error
}

func (r *JobRepositoryImpl) CloseExpired(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < now()", models.JobStatusOpen).
		Update("status", models.JobStatusClosed)
	return result.RowsAffected, result.Error
}
