package services

import (
	"encoding/json"
	"strings"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error)
	UpdateJob(db *gorm.DB, clientID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	CloseJob(db *gorm.DB, clientID, jobID string) error
	DeleteJob(db *gorm.DB, clientID, jobID string) error
	ListJobs(db *gorm.DB, filter *dto.JobFilter) (*dto.JobListResponse, error)
	GetClientJobs(db *gorm.DB, clientID string) ([]dto.JobResponse, error)
}

type JobServiceImpl struct {
	jobRepo  repositories.JobRepository
	pageSize int
}

func NewJobService(jobRepo repositories.JobRepository, pageSize int) JobService {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &JobServiceImpl{
		jobRepo:  jobRepo,
		pageSize: pageSize,
	}
}

// CreateJob - публикация вакансии заказчиком
func (s *JobServiceImpl) CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	skills, err := encodeSkills(req.Skills)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	location := req.Location
	if location == "" {
		location = "Remote"
	}

	job := &models.Job{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Duration:    req.Duration,
		Location:    location,
		Skills:      skills,
		Status:      models.JobStatusOpen,
		Deadline:    req.Deadline,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toJobResponse(job)
	return &resp, nil
}

// GetJob - карточка вакансии. Каждый просмотр увеличивает счетчик.
func (s *JobServiceImpl) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound("job", jobID)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.IncrementViews(db, jobID); err == nil {
		job.Views++
	}

	resp := toJobResponse(job)
	return &resp, nil
}

// UpdateJob - редактирование вакансии владельцем
func (s *JobServiceImpl) UpdateJob(db *gorm.DB, clientID, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.findOwnedJob(db, clientID, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.Budget != nil {
		job.Budget = *req.Budget
	}
	if req.Duration != nil {
		job.Duration = *req.Duration
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Skills != nil {
		skills, err := encodeSkills(req.Skills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.Skills = skills
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toJobResponse(job)
	return &resp, nil
}

// CloseJob - снять вакансию с публикации
func (s *JobServiceImpl) CloseJob(db *gorm.DB, clientID, jobID string) error {
	if _, err := s.findOwnedJob(db, clientID, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.UpdateStatus(db, jobID, models.JobStatusClosed); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// DeleteJob - удаление вакансии владельцем
func (s *JobServiceImpl) DeleteJob(db *gorm.DB, clientID, jobID string) error {
	if _, err := s.findOwnedJob(db, clientID, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(db, jobID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ListJobs - каталог открытых вакансий с поиском и пагинацией.
// Фильтр по тексту применяется в памяти к выбранному открытому набору:
// поиск идет по подстроке в заголовке, описании и навыках без учета
// регистра, категория сравнивается точно.
func (s *JobServiceImpl) ListJobs(db *gorm.DB, filter *dto.JobFilter) (*dto.JobListResponse, error) {
	jobs, err := s.jobRepo.FindOpen(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	filtered := filterJobs(jobs, filter.Search, filter.Category)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageJobs, totalPages := paginateJobs(filtered, page, s.pageSize)

	responses := make([]dto.JobResponse, 0, len(pageJobs))
	for i := range pageJobs {
		responses = append(responses, toJobResponse(&pageJobs[i]))
	}

	return &dto.JobListResponse{
		Jobs:       responses,
		Total:      len(filtered),
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// GetClientJobs - все вакансии заказчика (включая закрытые)
func (s *JobServiceImpl) GetClientJobs(db *gorm.DB, clientID string) ([]dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindByClient(db, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, toJobResponse(&jobs[i]))
	}
	return responses, nil
}

func (s *JobServiceImpl) findOwnedJob(db *gorm.DB, clientID, jobID string) (*models.Job, error) {
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
	return job, nil
}

// filterJobs отбирает вакансии по поисковой строке и категории.
func filterJobs(jobs []models.Job, search, category string) []models.Job {
	if search == "" && category == "" {
		return jobs
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		if category != "" && job.Category != category {
			continue
		}
		if needle != "" && !jobMatchesSearch(job, needle) {
			continue
		}
		filtered = append(filtered, *job)
	}
	return filtered
}

func jobMatchesSearch(job *models.Job, needle string) bool {
	if strings.Contains(strings.ToLower(job.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(job.Description), needle) {
		return true
	}
	for _, skill := range decodeSkills(job.Skills) {
		if strings.Contains(strings.ToLower(skill), needle) {
			return true
		}
	}
	return false
}

// paginateJobs режет выдачу на страницы. Страница за пределами выдачи
// дает пустой список, не ошибку.
func paginateJobs(jobs []models.Job, page, pageSize int) ([]models.Job, int) {
	totalPages := (len(jobs) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(jobs) {
		return []models.Job{}, totalPages
	}
	end := start + pageSize
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end], totalPages
}

func encodeSkills(skills []string) (datatypes.JSON, error) {
	if skills == nil {
		skills = []string{}
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func toJobResponse(job *models.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:                job.ID,
		ClientID:          job.ClientID,
		Title:             job.Title,
		Description:       job.Description,
		Category:          job.Category,
		Budget:            job.Budget,
		Duration:          job.Duration,
		Location:          job.Location,
		Skills:            decodeSkills(job.Skills),
		Status:            job.Status,
		Deadline:          job.Deadline,
		Views:             job.Views,
		ApplicationsCount: job.ApplicationsCount,
		CreatedAt:         job.CreatedAt,
	}
}
