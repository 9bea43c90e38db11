package workers

import (
	"context"
	"time"

	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/repositories"

	"gorm.io/gorm"
)

// TokenWorker удаляет refresh-токены с истекшим сроком.
type TokenWorker struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
}

func NewTokenWorker(db *gorm.DB, userRepo repositories.UserRepository) *TokenWorker {
	return &TokenWorker{db: db, userRepo: userRepo}
}

// Start запускает фоновую чистку токенов
func (w *TokenWorker) Start(ctx context.Context) {
	go w.cleanExpiredTokens(ctx)
}

// cleanExpiredTokens раз в сутки подчищает протухшие refresh-токены
func (w *TokenWorker) cleanExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("token worker stopped")
			return
		case <-ticker.C:
			err := w.userRepo.CleanExpiredRefreshTokens(w.db)
			logger.WorkerLog("token_worker", "clean_expired_refresh_tokens", err)
		}
	}
}
