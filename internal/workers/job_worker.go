package workers

import (
	"context"
	"time"

	"lancehub_backend/internal/logger"
	"lancehub_backend/internal/repositories"

	"gorm.io/gorm"
)

// JobWorker закрывает вакансии с прошедшим дедлайном.
type JobWorker struct {
	db      *gorm.DB
	jobRepo repositories.JobRepository
}

func NewJobWorker(db *gorm.DB, jobRepo repositories.JobRepository) *JobWorker {
	return &JobWorker{db: db, jobRepo: jobRepo}
}

// Start запускает фоновые задачи для вакансий
func (w *JobWorker) Start(ctx context.Context) {
	go w.autoCloseJobs(ctx)
}

// autoCloseJobs раз в час переводит просроченные вакансии в closed
func (w *JobWorker) autoCloseJobs(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job worker stopped")
			return
		case <-ticker.C:
			closed, err := w.jobRepo.CloseExpired(w.db)
			logger.WorkerLog("job_worker", "auto_close_jobs", err)
			if err == nil && closed > 0 {
				logger.Info("auto-closed expired jobs", "count", closed)
			}
		}
	}
}
