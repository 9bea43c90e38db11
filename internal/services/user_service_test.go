package services

import (
	"testing"

	"lancehub_backend/internal/models"
	"lancehub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleBookmark(t *testing.T) {
	t.Parallel()

	jobRepo := newFakeJobRepo()
	job := newTestJob("j1", "c1", "Job", "", "other", nil)
	jobRepo.jobs["j1"] = &job

	userRepo := newFakeUserRepo()
	userRepo.users["u1"] = &models.User{
		BaseModel: models.BaseModel{ID: "u1"},
		Name:      "User One",
		Role:      models.UserRoleFreelancer,
	}

	service := NewUserService(userRepo, jobRepo)

	// Первый вызов добавляет закладку
	resp, err := service.ToggleBookmark(nil, "u1", "j1")
	require.NoError(t, err)
	assert.True(t, resp.Bookmarked)
	assert.Equal(t, []string{"j1"}, resp.Bookmarks)

	// Повторный вызов снимает ее
	resp, err = service.ToggleBookmark(nil, "u1", "j1")
	require.NoError(t, err)
	assert.False(t, resp.Bookmarked)
	assert.Empty(t, resp.Bookmarks)

	require.Len(t, userRepo.bookmarkCalls, 2)
}

func TestToggleBookmark_JobNotFound(t *testing.T) {
	t.Parallel()

	service := NewUserService(newFakeUserRepo(), newFakeJobRepo())

	_, err := service.ToggleBookmark(nil, "u1", "missing")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetFreelancer_HidesOtherRoles(t *testing.T) {
	t.Parallel()

	userRepo := newFakeUserRepo()
	userRepo.users["u1"] = &models.User{
		BaseModel: models.BaseModel{ID: "u1"},
		Name:      "Client One",
		Role:      models.UserRoleClient,
	}
	service := NewUserService(userRepo, newFakeJobRepo())

	// Заказчик не должен отдаваться как фрилансер
	_, err := service.GetFreelancer(nil, "u1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestDecodeSkills(t *testing.T) {
	t.Parallel()

	encoded, err := encodeSkills([]string{"Go", "React"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "React"}, decodeSkills(encoded))

	// Пустая и битая колонки дают пустой список
	assert.Empty(t, decodeSkills(nil))
	assert.Empty(t, decodeSkills([]byte("not-json")))
}
