package services

import (
	"testing"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplicationFixture() (*fakeApplicationRepo, *fakeJobRepo, *fakeUserRepo, ApplicationService) {
	applicationRepo := newFakeApplicationRepo()
	jobRepo := newFakeJobRepo()
	userRepo := newFakeUserRepo()
	service := NewApplicationService(applicationRepo, jobRepo, userRepo, &fakeNotificationService{})
	return applicationRepo, jobRepo, userRepo, service
}

func TestApply_JobNotFound(t *testing.T) {
	t.Parallel()

	_, _, _, service := newApplicationFixture()

	_, err := service.Apply(nil, "f1", "missing", &dto.ApplyRequest{Message: "hi"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestApply_JobClosed(t *testing.T) {
	t.Parallel()

	_, jobRepo, _, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	job.Status = models.JobStatusClosed
	jobRepo.jobs["j1"] = &job

	_, err := service.Apply(nil, "f1", "j1", &dto.ApplyRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrJobClosed)
}

func TestApply_OwnJob(t *testing.T) {
	t.Parallel()

	_, jobRepo, _, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job

	_, err := service.Apply(nil, "c1", "j1", &dto.ApplyRequest{Message: "hi"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestApply_RequiresFreelancerRole(t *testing.T) {
	t.Parallel()

	_, jobRepo, userRepo, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job
	userRepo.users["u1"] = &models.User{
		BaseModel: models.BaseModel{ID: "u1"},
		Name:      "Client Two",
		Role:      models.UserRoleClient,
	}

	_, err := service.Apply(nil, "u1", "j1", &dto.ApplyRequest{Message: "hi"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

// Повторный отклик отсекается локальной проверкой по applied_jobs -
// до хранилища дело не доходит.
func TestApply_AlreadyApplied(t *testing.T) {
	t.Parallel()

	applicationRepo, jobRepo, userRepo, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job
	userRepo.users["f1"] = &models.User{
		BaseModel:   models.BaseModel{ID: "f1"},
		Name:        "Freelancer One",
		Role:        models.UserRoleFreelancer,
		AppliedJobs: []string{"j1"},
	}

	_, err := service.Apply(nil, "f1", "j1", &dto.ApplyRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
	assert.Zero(t, applicationRepo.createCalls)
}

func TestGetJobApplications_ForbiddenForOtherClient(t *testing.T) {
	t.Parallel()

	_, jobRepo, _, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job

	_, err := service.GetJobApplications(nil, "c2", "j1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestUpdateStatus_OnlyPending(t *testing.T) {
	t.Parallel()

	applicationRepo, jobRepo, _, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job
	applicationRepo.applications["a1"] = &models.Application{
		BaseModel:    models.BaseModel{ID: "a1"},
		JobID:        "j1",
		FreelancerID: "f1",
		Status:       models.ApplicationStatusAccepted,
	}

	_, err := service.UpdateStatus(nil, "c1", "a1", models.ApplicationStatusRejected)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestUpdateStatus_Accept(t *testing.T) {
	t.Parallel()

	applicationRepo, jobRepo, _, service := newApplicationFixture()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job
	applicationRepo.applications["a1"] = &models.Application{
		BaseModel:    models.BaseModel{ID: "a1"},
		JobID:        "j1",
		FreelancerID: "f1",
		Status:       models.ApplicationStatusPending,
	}

	resp, err := service.UpdateStatus(nil, "c1", "a1", models.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, resp.Status)
}

func TestWithdraw_OnlyOwner(t *testing.T) {
	t.Parallel()

	applicationRepo, _, _, service := newApplicationFixture()
	applicationRepo.applications["a1"] = &models.Application{
		BaseModel:    models.BaseModel{ID: "a1"},
		JobID:        "j1",
		FreelancerID: "f1",
		Status:       models.ApplicationStatusPending,
	}

	err := service.Withdraw(nil, "f2", "a1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestWithdraw_Pending(t *testing.T) {
	t.Parallel()

	applicationRepo, _, _, service := newApplicationFixture()
	applicationRepo.applications["a1"] = &models.Application{
		BaseModel:    models.BaseModel{ID: "a1"},
		JobID:        "j1",
		FreelancerID: "f1",
		Status:       models.ApplicationStatusPending,
	}

	err := service.Withdraw(nil, "f1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusWithdrawn, applicationRepo.applications["a1"].Status)
}
