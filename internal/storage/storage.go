package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage - абстракция файлового хранилища.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL файла.
	GetURL(ctx context.Context, path string) (string, error)

	// GetSignedURL возвращает временный подписанный URL.
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Config - настройки хранилища
type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // для local
	BaseURL   string // публичный базовый URL
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // для R2 или кастомного S3
}

// NewStorage выбирает реализацию по конфигурации.
// R2 совместим с S3, поэтому обе ветки обслуживает один клиент.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
