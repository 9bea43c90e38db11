package database

import (
	"fmt"
	"log"

	"lancehub_backend/internal/config"
	"lancehub_backend/internal/models"
	chatmodels "lancehub_backend/internal/models/chat"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из config.yaml
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	// Расширение для uuid_generate_v4 и схема для chat-моделей.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS chat`).Error; err != nil {
		return fmt.Errorf("failed to create chat schema: %w", err)
	}

	// Миграция
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.FreelancerProfile{},
		&models.ClientProfile{},
		&models.Job{},
		&models.Application{},
		&models.Notification{},
		// chat модуль
		&chatmodels.Conversation{},
		&chatmodels.ConversationParticipant{},
		&chatmodels.Message{},
	)

	if err != nil {
		log.Fatalf("AutoMigrate ошибка: %v", err)
	}

	log.Println("AutoMigrate успешно завершен.")
	return nil
}
