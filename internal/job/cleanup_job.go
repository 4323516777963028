package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"task-board-api/internal/service"
)

// CleanupJob removes read notifications that have aged past the retention
// window. Unread notifications are never touched.
type CleanupJob struct {
	notificationService service.NotificationService
	retentionDays       int
	logger              *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(notificationService service.NotificationService, retentionDays int, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		notificationService: notificationService,
		retentionDays:       retentionDays,
		logger:              logger,
	}
}

// Run executes the cleanup job
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	j.logger.Info("Starting notification cleanup job",
		zap.Int("retention_days", j.retentionDays),
	)

	deleted, err := j.notificationService.CleanupOld(ctx, j.retentionDays)
	if err != nil {
		j.logger.Error("Notification cleanup job failed", zap.Error(err))
		return
	}

	j.logger.Info("Notification cleanup job completed",
		zap.Int64("deleted", deleted),
	)
}
