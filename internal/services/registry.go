package services

import (
	"lancehub_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	JobService          JobService
	ApplicationService  ApplicationService
	ChatService         ChatService
	NotificationService NotificationService
	UploadService       UploadService
	EmailService        email.Provider
}
