package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

// SubTaskRepository defines the interface for sub-task data access
type SubTaskRepository interface {
	Create(ctx context.Context, subTask *domain.SubTask) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubTask, error)
	FindByIDWithCard(ctx context.Context, id uuid.UUID) (*domain.SubTask, error)
	FindByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.SubTask, error)
	Update(ctx context.Context, subTask *domain.SubTask) error
	UpdateGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64) error
	ToggleGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64, history *domain.SubTaskHistory) (*domain.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCard(ctx context.Context, cardID uuid.UUID) (total, completed int64, err error)
	AppendHistory(ctx context.Context, history *domain.SubTaskHistory) error
	FindHistories(ctx context.Context, subTaskID uuid.UUID) ([]*domain.SubTaskHistory, error)
}

// subTaskRepositoryImpl is the GORM implementation of SubTaskRepository
type subTaskRepositoryImpl struct {
	db *gorm.DB
}

// NewSubTaskRepository creates a new instance of SubTaskRepository
func NewSubTaskRepository(db *gorm.DB) SubTaskRepository {
	return &subTaskRepositoryImpl{db: db}
}

// Create creates a new sub-task
func (r *subTaskRepositoryImpl) Create(ctx context.Context, subTask *domain.SubTask) error {
	if err := r.db.WithContext(ctx).Create(subTask).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a sub-task by its ID
func (r *subTaskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	var subTask domain.SubTask
	if err := r.db.WithContext(ctx).First(&subTask, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subTask, nil
}

// FindByIDWithCard finds a sub-task with its parent card and the card's
// collaborators preloaded
func (r *subTaskRepositoryImpl) FindByIDWithCard(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	var subTask domain.SubTask
	if err := r.db.WithContext(ctx).
		Preload("Card").
		Preload("Card.Collaborators").
		First(&subTask, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subTask, nil
}

// FindByCard finds all sub-tasks of a card, oldest first
func (r *subTaskRepositoryImpl) FindByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.SubTask, error) {
	var subTasks []*domain.SubTask
	if err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at ASC").
		Find(&subTasks).Error; err != nil {
		return nil, err
	}
	return subTasks, nil
}

// Update saves the full sub-task record
func (r *subTaskRepositoryImpl) Update(ctx context.Context, subTask *domain.SubTask) error {
	if err := r.db.WithContext(ctx).Save(subTask).Error; err != nil {
		return err
	}
	return nil
}

// UpdateGuarded updates the sub-task's editable fields only if the stored
// version still matches expectedVersion, incrementing the version on success.
// Returns ErrVersionMismatch when another writer got there first.
func (r *subTaskRepositoryImpl) UpdateGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64) error {
	result := r.db.WithContext(ctx).Model(&domain.SubTask{}).
		Where("id = ? AND version = ?", subTask.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":        subTask.Name,
			"description": subTask.Description,
			"is_done":     subTask.IsDone,
			"is_closed":   subTask.IsClosed,
			"closed_at":   subTask.ClosedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.SubTask{}).
			Where("id = ?", subTask.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrVersionMismatch
	}
	subTask.Version = expectedVersion + 1
	return nil
}

// ToggleGuarded writes the sub-task's flipped completion state, appends the
// audit history row and re-derives the parent card's status in one
// transaction, so readers never see the sub-task and the card out of sync.
// The write is version guarded like UpdateGuarded.
func (r *subTaskRepositoryImpl) ToggleGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64, history *domain.SubTaskHistory) (*domain.Card, error) {
	var card *domain.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.SubTask{}).
			Where("id = ? AND version = ?", subTask.ID, expectedVersion).
			Updates(map[string]interface{}{
				"is_done": subTask.IsDone,
				"version": gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.SubTask{}).
				Where("id = ?", subTask.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrVersionMismatch
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		var txErr error
		card, txErr = recalculateStatusTx(tx, subTask.CardID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	subTask.Version = expectedVersion + 1
	return card, nil
}

// Delete soft deletes a sub-task by ID
func (r *subTaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.SubTask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByCard returns the total and completed sub-task counts of a card
func (r *subTaskRepositoryImpl) CountByCard(ctx context.Context, cardID uuid.UUID) (int64, int64, error) {
	var total, completed int64
	if err := r.db.WithContext(ctx).Model(&domain.SubTask{}).
		Where("card_id = ?", cardID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.SubTask{}).
		Where("card_id = ? AND is_done = ?", cardID, true).Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// AppendHistory appends an audit record of a sub-task toggle
func (r *subTaskRepositoryImpl) AppendHistory(ctx context.Context, history *domain.SubTaskHistory) error {
	if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
		return err
	}
	return nil
}

// FindHistories finds all toggle records of a sub-task, newest first
func (r *subTaskRepositoryImpl) FindHistories(ctx context.Context, subTaskID uuid.UUID) ([]*domain.SubTaskHistory, error) {
	var histories []*domain.SubTaskHistory
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("sub_task_id = ?", subTaskID).
		Order("created_at DESC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
