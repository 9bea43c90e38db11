package services

import (
	"fmt"
	"testing"

	"lancehub_backend/internal/models"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterJobs(t *testing.T) {
	t.Parallel()

	jobs := []models.Job{
		newTestJob("j1", "c1", "React Developer", "SPA for a fintech startup", "web-development", []string{"React", "TypeScript"}),
		newTestJob("j2", "c1", "Logo Design", "Brand identity refresh", "design", []string{"Figma"}),
		newTestJob("j3", "c2", "Backend Engineer", "Build REST API with Go", "web-development", []string{"Go", "PostgreSQL"}),
	}

	t.Run("без фильтров возвращает все", func(t *testing.T) {
		filtered := filterJobs(jobs, "", "")
		assert.Len(t, filtered, 3)
	})

	t.Run("поиск по заголовку без учета регистра", func(t *testing.T) {
		filtered := filterJobs(jobs, "REACT", "")
		require.Len(t, filtered, 1)
		assert.Equal(t, "j1", filtered[0].ID)
	})

	t.Run("поиск по описанию", func(t *testing.T) {
		filtered := filterJobs(jobs, "rest api", "")
		require.Len(t, filtered, 1)
		assert.Equal(t, "j3", filtered[0].ID)
	})

	t.Run("поиск по навыкам", func(t *testing.T) {
		filtered := filterJobs(jobs, "postgres", "")
		require.Len(t, filtered, 1)
		assert.Equal(t, "j3", filtered[0].ID)
	})

	t.Run("категория сравнивается точно", func(t *testing.T) {
		filtered := filterJobs(jobs, "", "design")
		require.Len(t, filtered, 1)
		assert.Equal(t, "j2", filtered[0].ID)

		assert.Empty(t, filterJobs(jobs, "", "desig"))
	})

	t.Run("поиск и категория вместе", func(t *testing.T) {
		filtered := filterJobs(jobs, "developer", "web-development")
		require.Len(t, filtered, 1)
		assert.Equal(t, "j1", filtered[0].ID)
	})

	t.Run("нет совпадений", func(t *testing.T) {
		assert.Empty(t, filterJobs(jobs, "kubernetes", ""))
	})
}

func TestPaginateJobs(t *testing.T) {
	t.Parallel()

	jobs := make([]models.Job, 12)
	for i := range jobs {
		jobs[i] = newTestJob(fmt.Sprintf("j%d", i), "c1", "Job", "", "other", nil)
	}

	page1, totalPages := paginateJobs(jobs, 1, 5)
	assert.Len(t, page1, 5)
	assert.Equal(t, 3, totalPages)

	page3, _ := paginateJobs(jobs, 3, 5)
	assert.Len(t, page3, 2)

	// Страница за пределами выдачи - пустой список, не ошибка
	page4, totalPages := paginateJobs(jobs, 4, 5)
	assert.Empty(t, page4)
	assert.Equal(t, 3, totalPages)

	_, totalPages = paginateJobs(nil, 1, 5)
	assert.Equal(t, 0, totalPages)
}

func TestListJobs_Pagination(t *testing.T) {
	t.Parallel()

	jobRepo := newFakeJobRepo()
	for i := 0; i < 12; i++ {
		jobRepo.openJobs = append(jobRepo.openJobs,
			newTestJob(fmt.Sprintf("j%d", i), "c1", fmt.Sprintf("Job %d", i), "", "other", nil))
	}
	service := NewJobService(jobRepo, 5)

	resp, err := service.ListJobs(nil, &dto.JobFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 5)
	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasMore)

	last, err := service.ListJobs(nil, &dto.JobFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Jobs, 2)
	assert.False(t, last.HasMore)

	beyond, err := service.ListJobs(nil, &dto.JobFilter{Page: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Jobs)
	assert.Equal(t, 12, beyond.Total)
}

func TestListJobs_PageDefaultsToFirst(t *testing.T) {
	t.Parallel()

	jobRepo := newFakeJobRepo()
	jobRepo.openJobs = []models.Job{newTestJob("j1", "c1", "Job", "", "other", nil)}
	service := NewJobService(jobRepo, 0) // нулевой размер страницы заменяется дефолтом

	resp, err := service.ListJobs(nil, &dto.JobFilter{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 5, resp.PageSize)
}

func TestGetJob_NotFound(t *testing.T) {
	t.Parallel()

	service := NewJobService(newFakeJobRepo(), 5)

	_, err := service.GetJob(nil, "missing")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
