package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrNotFound(t *testing.T) {
	t.Parallel()

	err := ErrNotFound("job", "j1")
	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPCode)
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	appErr, ok := AsAppError(ErrJobClosed)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidStatus, appErr.Code)

	// Обернутая AppError тоже распознается
	wrapped := fmt.Errorf("service: %w", ErrAlreadyApplied)
	appErr, ok = AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, appErr.Code)

	_, ok = AsAppError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestInternalError_PreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := InternalError(cause)

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.ErrorIs(t, err, cause)
}

func TestSentinelIdentity(t *testing.T) {
	t.Parallel()

	// Сентинелы сравниваются через errors.Is по указателю
	assert.True(t, Is(ErrAlreadyApplied, ErrAlreadyApplied))
	assert.False(t, Is(ErrAlreadyApplied, ErrJobClosed))
}
