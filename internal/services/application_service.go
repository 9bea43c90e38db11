package services

import (
	"slices"

	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/models"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(db *gorm.DB, freelancerID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	GetJobApplications(db *gorm.DB, clientID, jobID string) ([]dto.ApplicationResponse, error)
	GetMyApplications(db *gorm.DB, freelancerID string) ([]dto.AppliedJobResponse, error)
	UpdateStatus(db *gorm.DB, clientID, applicationID string, status models.ApplicationStatus) (*dto.ApplicationResponse, error)
	Withdraw(db *gorm.DB, freelancerID, applicationID string) error
}

type ApplicationServiceImpl struct {
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Apply - отклик фрилансера на вакансию.
// Локальная проверка по applied_jobs отсекает повторы до записи,
// уникальный индекс (job_id, freelancer_id) страхует гонку.
func (s *ApplicationServiceImpl) Apply(db *gorm.DB, freelancerID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound("job", jobID)
		}
		return nil, apperrors.InternalError(err)
	}

	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobClosed
	}
	if job.ClientID == freelancerID {
		return nil, apperrors.ErrInvalidOperation("cannot apply to own job")
	}

	user, err := s.userRepo.FindByID(db, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleFreelancer {
		return nil, apperrors.NewForbiddenError("only freelancers can apply to jobs")
	}
	if slices.Contains(user.AppliedJobs, jobID) {
		return nil, apperrors.ErrAlreadyApplied
	}

	application := &models.Application{
		JobID:          jobID,
		FreelancerID:   freelancerID,
		FreelancerName: user.Name,
		Message:        req.Message,
		Status:         models.ApplicationStatusPending,
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.applicationRepo.Create(tx, application); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.AppendApplication(tx, jobID, application.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	appliedJobs := append([]string(user.AppliedJobs), jobID)
	if err := s.userRepo.SetAppliedJobs(tx, freelancerID, pq.StringArray(appliedJobs)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationService.NotifyNewApplication(db, job, application); err != nil {
		logger.Warn("failed to notify client about application",
			"job_id", jobID, "client_id", job.ClientID, "error", err)
	}

	resp := toApplicationResponse(application)
	return &resp, nil
}

// GetJobApplications - отклики на вакансию, доступны только владельцу
func (s *ApplicationServiceImpl) GetJobApplications(db *gorm.DB, clientID, jobID string) ([]dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound("job", jobID)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.NewForbiddenError("job belongs to another client")
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, toApplicationResponse(&applications[i]))
	}
	return responses, nil
}

// GetMyApplications - отклики фрилансера вместе с вакансиями
func (s *ApplicationServiceImpl) GetMyApplications(db *gorm.DB, freelancerID string) ([]dto.AppliedJobResponse, error) {
	applications, err := s.applicationRepo.FindByFreelancer(db, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	jobIDs := make([]string, 0, len(applications))
	for i := range applications {
		jobIDs = append(jobIDs, applications[i].JobID)
	}
	jobs, err := s.jobRepo.FindByIDs(db, jobIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	jobsByID := make(map[string]*models.Job, len(jobs))
	for i := range jobs {
		jobsByID[jobs[i].ID] = &jobs[i]
	}

	responses := make([]dto.AppliedJobResponse, 0, len(applications))
	for i := range applications {
		item := dto.AppliedJobResponse{
			Application: toApplicationResponse(&applications[i]),
		}
		if job, ok := jobsByID[applications[i].JobID]; ok {
			resp := toJobResponse(job)
			item.Job = &resp
		}
		responses = append(responses, item)
	}
	return responses, nil
}

// UpdateStatus - принятие или отклонение отклика владельцем вакансии
func (s *ApplicationServiceImpl) UpdateStatus(db *gorm.DB, clientID, applicationID string, status models.ApplicationStatus) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound("application", applicationID)
		}
		return nil, apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(db, application.JobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.NewForbiddenError("job belongs to another client")
	}

	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrInvalidOperation("application is no longer pending")
	}

	if err := s.applicationRepo.UpdateStatus(db, applicationID, status); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = status

	resp := toApplicationResponse(application)
	return &resp, nil
}

// Withdraw - отзыв собственного отклика фрилансером
func (s *ApplicationServiceImpl) Withdraw(db *gorm.DB, freelancerID, applicationID string) error {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotFound("application", applicationID)
		}
		return apperrors.InternalError(err)
	}
	if application.FreelancerID != freelancerID {
		return apperrors.NewForbiddenError("application belongs to another freelancer")
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrInvalidOperation("only pending applications can be withdrawn")
	}

	if err := s.applicationRepo.UpdateStatus(db, applicationID, models.ApplicationStatusWithdrawn); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func toApplicationResponse(application *models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:             application.ID,
		JobID:          application.JobID,
		FreelancerID:   application.FreelancerID,
		FreelancerName: application.FreelancerName,
		Message:        application.Message,
		Status:         application.Status,
		CreatedAt:      application.CreatedAt,
	}
}
