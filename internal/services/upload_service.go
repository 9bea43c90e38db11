package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"lancehub_backend/internal/imageprocessor"
	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/repositories"
	"lancehub_backend/internal/services/dto"
	"lancehub_backend/internal/storage"
	"lancehub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UploadConfig - лимиты загрузки
type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	ImageQuality int
}

type UploadService interface {
	// UploadAvatar загружает аватар, ужимает его и прописывает URL пользователю.
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type UploadServiceImpl struct {
	userRepo  repositories.UserRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
}

func NewUploadService(userRepo repositories.UserRepository, store storage.Storage, config UploadConfig) UploadService {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 5 * 1024 * 1024
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = []string{"image/jpeg", "image/png"}
	}
	return &UploadServiceImpl{
		userRepo:  userRepo,
		storage:   store,
		processor: imageprocessor.NewProcessor(config.ImageQuality),
		config:    config,
	}
}

func (s *UploadServiceImpl) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromFilename(file.Filename)
	}
	if !isAllowedType(mimeType, s.config.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	resized, err := s.processor.Process(src, imageprocessor.SizeMedium)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	fileName := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), randomSuffix(8), ext)
	path := filepath.Join("avatars", userID, fileName)

	if err := s.storage.Save(ctx, path, resized, mimeType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	oldAvatar := user.AvatarURL
	user.AvatarURL = &url
	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Старый аватар подчищаем в фоне, ошибки не фатальны.
	if oldAvatar != nil {
		if oldPath, ok := storagePathFromURL(*oldAvatar); ok {
			go func() {
				if err := s.storage.Delete(context.Background(), oldPath); err != nil {
					logger.Warn("failed to delete old avatar", "path", oldPath, "error", err)
				}
			}()
		}
	}

	return &dto.UploadResponse{
		URL:      url,
		FileName: fileName,
		Size:     file.Size,
		MimeType: mimeType,
	}, nil
}

func isAllowedType(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if t == mimeType {
			return true
		}
	}
	return false
}

func mimeTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return "application/octet-stream"
}

// storagePathFromURL вытаскивает путь внутри хранилища из публичного URL.
func storagePathFromURL(url string) (string, bool) {
	idx := strings.Index(url, "avatars/")
	if idx < 0 {
		return "", false
	}
	return url[idx:], true
}

func randomSuffix(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}
