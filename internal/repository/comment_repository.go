package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindBySubTask(ctx context.Context, subTaskID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (int64, error)
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FirstUnreadID(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (*uuid.UUID, error)
	LatestID(ctx context.Context, subTaskID uuid.UUID) (*uuid.UUID, error)
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a comment by its ID with the author preloaded
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindBySubTask finds all comments of a sub-task in chronological order
func (r *commentRepositoryImpl) FindBySubTask(ctx context.Context, subTaskID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Parent").
		Where("sub_task_id = ?", subTaskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update saves the full comment record
func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	return nil
}

// Delete soft deletes a comment by ID
func (r *commentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// unreadScope filters to comments on the sub-task that are newer than the
// user's last read time and were not written by the user themselves.
func (r *commentRepositoryImpl) unreadScope(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("sub_task_id = ? AND author_id <> ?", subTaskID, userID)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}
	return query
}

// CountUnread counts the sub-task's comments the user has not read yet.
// A nil since means the user has never read the thread.
func (r *commentRepositoryImpl) CountUnread(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (int64, error) {
	var count int64
	if err := r.unreadScope(ctx, subTaskID, userID, since).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnreadForUser counts unread comments across every card the user owns
// or collaborates on. Comments written by the user never count, and a
// sub-task with no read marker counts all of its foreign comments.
func (r *commentRepositoryImpl) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Joins("JOIN sub_tasks st ON st.id = comments.sub_task_id AND st.deleted_at IS NULL").
		Joins("JOIN cards c ON c.id = st.card_id AND c.deleted_at IS NULL").
		Where("comments.author_id <> ?", userID).
		Where("c.owner_id = ? OR c.id IN (SELECT card_id FROM card_collaborators WHERE user_id = ?)", userID, userID).
		Where(`comments.created_at > COALESCE(
			(SELECT rs.last_read_at FROM subtask_read_statuses rs
			 WHERE rs.sub_task_id = comments.sub_task_id AND rs.user_id = ?), ?)`,
			userID, time.Unix(0, 0).UTC()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FirstUnreadID returns the ID of the oldest unread comment, or nil when
// everything has been read
func (r *commentRepositoryImpl) FirstUnreadID(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (*uuid.UUID, error) {
	var comment domain.Comment
	err := r.unreadScope(ctx, subTaskID, userID, since).
		Order("created_at ASC").
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comment.ID, nil
}

// LatestID returns the ID of the newest comment on the sub-task, or nil when
// the thread is empty
func (r *commentRepositoryImpl) LatestID(ctx context.Context, subTaskID uuid.UUID) (*uuid.UUID, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("sub_task_id = ?", subTaskID).
		Order("created_at DESC").
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &comment.ID, nil
}
