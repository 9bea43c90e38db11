package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
}
