package app

import (
	"context"
	"errors"
	"fmt"

	"lancehub_backend/database"
	"lancehub_backend/internal/auth"
	"lancehub_backend/internal/config"
	"lancehub_backend/internal/email"
	"lancehub_backend/internal/handlers"
	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/middleware"
	"lancehub_backend/internal/models"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/routes"
	"lancehub_backend/internal/services"
	"lancehub_backend/internal/storage"
	"lancehub_backend/internal/validator"
	"lancehub_backend/internal/workers"
	"lancehub_backend/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.InitTokens(cfg.JWT.Secret, cfg.JWT.TTL)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа (проблемы с БД и т.д.) - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	jobWorker := workers.NewJobWorker(gormDB, repositories.NewJobRepository())
	jobWorker.Start(context.Background())

	tokenWorker := workers.NewTokenWorker(gormDB, repositories.NewUserRepository())
	tokenWorker.Start(context.Background())

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. WebSocket-менеджер поднимаем первым: ChatService шлет через него события
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()

	// 2. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, storageInstance, wsManager)

	// 3. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	wsHandler := ws.NewWebSocketHandler(wsManager)

	// 4. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, wsManager *ws.WebSocketManager) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" && cfg.Email.SMTPUsername != "" {
		smtpProvider, err := email.NewSMTPProvider(email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail),
			BaseURL:  cfg.Server.FrontendURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailService = smtpProvider
	} else {
		logger.Warn("SMTP is not configured, emails will be logged instead of sent")
		emailService = email.NewNoopProvider()
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	notificationRepo := repositories.NewNotificationRepository()
	chatRepo := repositories.NewChatRepository()

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(userRepo, emailService)
	userService := services.NewUserService(userRepo, jobRepo)
	jobService := services.NewJobService(jobRepo, cfg.Listing.JobsPageSize)
	notificationService := services.NewNotificationService(notificationRepo)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo, userRepo, notificationService)
	chatService := services.NewChatService(chatRepo, userRepo, jobRepo, notificationService, wsManager, cfg.Listing.MessageWindow)
	uploadService := services.NewUploadService(userRepo, storageInstance, services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		ImageQuality: cfg.Upload.ImageQuality,
	})

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		JobService:          jobService,
		ApplicationService:  applicationService,
		ChatService:         chatService,
		NotificationService: notificationService,
		UploadService:       uploadService,
		EmailService:        emailService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		JobHandler:          handlers.NewJobHandler(baseHandler, container.JobService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.ChatService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, container.UploadService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		tx.Rollback()
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: string(hashedPassword),
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)

	return tx.Commit().Error
}
