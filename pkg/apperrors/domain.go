package apperrors

import (
	"fmt"
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок.
Сервисы не должны возвращать "сырые" ошибки репозитория наружу —
только AppError с корректным HTTP-кодом.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(resource, id string) *AppError {
	return New(CodeNotFound, resource, fmt.Sprintf("%s not found", resource), http.StatusNotFound).
		WithDetails(map[string]string{"id": id})
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(message string) *AppError {
	return New(CodeInvalidOperation, "business_logic", message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- Jobs & Applications ---

var ErrJobClosed = New(
	CodeInvalidStatus,
	"jobs",
	"Job is no longer open for applications",
	http.StatusConflict,
)

// ErrAlreadyApplied - повторный отклик на ту же вакансию.
// Ловится локальной проверкой ДО обращения к хранилищу.
var ErrAlreadyApplied = New(
	CodeConflict,
	"applications",
	"You have already applied to this job",
	http.StatusConflict,
)

// --- Messaging ---

var ErrConversationNotFound = New(
	CodeNotFound,
	"messaging",
	"Conversation not found",
	http.StatusNotFound,
)

var ErrConversationAccessDenied = New(
	CodeForbidden,
	"messaging",
	"You are not a participant of this conversation",
	http.StatusForbidden,
)

var ErrSelfConversation = New(
	CodeInvalidOperation,
	"messaging",
	"Cannot start a conversation with yourself",
	http.StatusBadRequest,
)

var ErrEmptyMessage = New(
	CodeValidationFailed,
	"messaging",
	"Message content must not be empty",
	http.StatusBadRequest,
)

var ErrInvalidMessageType = New(
	CodeValidationFailed,
	"messaging",
	"Unsupported message type",
	http.StatusBadRequest,
)

// --- Uploads & Files ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
