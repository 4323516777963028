package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-board-api/internal/domain"
)

// ReadStatusRepository defines the interface for read tracking data access
type ReadStatusRepository interface {
	Upsert(ctx context.Context, readStatus *domain.SubtaskReadStatus) error
	Find(ctx context.Context, subTaskID, userID uuid.UUID) (*domain.SubtaskReadStatus, error)
	FindForUser(ctx context.Context, userID uuid.UUID, subTaskIDs []uuid.UUID) ([]*domain.SubtaskReadStatus, error)
}

// readStatusRepositoryImpl is the GORM implementation of ReadStatusRepository
type readStatusRepositoryImpl struct {
	db *gorm.DB
}

// NewReadStatusRepository creates a new instance of ReadStatusRepository
func NewReadStatusRepository(db *gorm.DB) ReadStatusRepository {
	return &readStatusRepositoryImpl{db: db}
}

// Upsert inserts the user's read marker for a sub-task or advances an
// existing one. The (sub_task_id, user_id) pair is unique so repeated reads
// only move last_read_at forward.
func (r *readStatusRepositoryImpl) Upsert(ctx context.Context, readStatus *domain.SubtaskReadStatus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sub_task_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_read_at", "last_comment_id", "updated_at",
		}),
	}).Create(readStatus).Error
}

// Find returns the user's read marker for a sub-task
func (r *readStatusRepositoryImpl) Find(ctx context.Context, subTaskID, userID uuid.UUID) (*domain.SubtaskReadStatus, error) {
	var readStatus domain.SubtaskReadStatus
	if err := r.db.WithContext(ctx).
		Where("sub_task_id = ? AND user_id = ?", subTaskID, userID).
		First(&readStatus).Error; err != nil {
		return nil, err
	}
	return &readStatus, nil
}

// FindForUser returns the user's read markers for the given sub-tasks
func (r *readStatusRepositoryImpl) FindForUser(ctx context.Context, userID uuid.UUID, subTaskIDs []uuid.UUID) ([]*domain.SubtaskReadStatus, error) {
	if len(subTaskIDs) == 0 {
		return []*domain.SubtaskReadStatus{}, nil
	}

	var readStatuses []*domain.SubtaskReadStatus
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND sub_task_id IN ?", userID, subTaskIDs).
		Find(&readStatuses).Error; err != nil {
		return nil, err
	}
	return readStatuses, nil
}
