package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// messagePreviewLimit is the maximum number of characters carried into a
// notification before the message is cut off.
const messagePreviewLimit = 50

// NotificationService defines the interface for notification business logic
type NotificationService interface {
	NotifyNewComment(ctx context.Context, actor *domain.User, card *domain.Card, subTask *domain.SubTask, comment *domain.Comment) error
	List(ctx context.Context, actorID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, actorID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, actorID uuid.UUID) (*dto.MarkAllReadResponse, error)
	UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error)
	Delete(ctx context.Context, actorID, notificationID uuid.UUID) error
	CleanupOld(ctx context.Context, retentionDays int) (int64, error)
}

// notificationServiceImpl is the implementation of NotificationService
type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepository
	cardRepo         repository.CardRepository
	redisClient      *redis.Client
	cacheTTL         time.Duration
	logger           *zap.Logger
}

// NewNotificationService creates a new instance of NotificationService.
// redisClient may be nil, which disables caching and pub/sub fan-out.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	cardRepo repository.CardRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		cardRepo:         cardRepo,
		redisClient:      redisClient,
		cacheTTL:         cacheTTL,
		logger:           logger,
	}
}

func unreadNotificationsKey(userID uuid.UUID) string {
	return fmt.Sprintf("unread:notifications:%s", userID)
}

// previewOf truncates a comment's content for the notification feed. File
// comments without a message fall back to the file name.
func previewOf(comment *domain.Comment) string {
	var text string
	if comment.Message != nil && *comment.Message != "" {
		text = *comment.Message
	} else if comment.FileName != nil {
		text = *comment.FileName
	}
	runes := []rune(text)
	if len(runes) <= messagePreviewLimit {
		return text
	}
	return string(runes[:messagePreviewLimit]) + "..."
}

// NotifyNewComment fans a new comment out to everyone involved with the
// card: the owner, all collaborators and the sub-task's creator, minus the
// comment author. Each recipient gets their own notification row.
func (s *notificationServiceImpl) NotifyNewComment(ctx context.Context, actor *domain.User, card *domain.Card, subTask *domain.SubTask, comment *domain.Comment) error {
	recipients := map[uuid.UUID]struct{}{
		card.OwnerID: {},
	}
	collaboratorIDs, err := s.cardRepo.CollaboratorIDs(ctx, card.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve collaborators: %w", err)
	}
	for _, id := range collaboratorIDs {
		recipients[id] = struct{}{}
	}
	if subTask.CreatorID != nil {
		recipients[*subTask.CreatorID] = struct{}{}
	}
	delete(recipients, actor.ID)

	if len(recipients) == 0 {
		return nil
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"commentId":   comment.ID,
		"commentType": comment.Type,
	})
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	preview := previewOf(comment)
	notifications := make([]*domain.Notification, 0, len(recipients))
	for recipientID := range recipients {
		notifications = append(notifications, &domain.Notification{
			RecipientID:    recipientID,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			Action:         domain.NotificationNewComment,
			CardID:         card.ID,
			CardTitle:      card.Title,
			SubTaskID:      subTask.ID,
			SubTaskName:    subTask.Name,
			MessagePreview: preview,
			Metadata:       datatypes.JSON(metadata),
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	s.publish(ctx, notifications)
	return nil
}

// publish pushes fresh notifications onto each recipient's Redis channel
// and drops their cached unread counters. Delivery is best effort; the
// rows are already stored.
func (s *notificationServiceImpl) publish(ctx context.Context, notifications []*domain.Notification) {
	if s.redisClient == nil {
		return
	}
	for _, notification := range notifications {
		payload, err := json.Marshal(dto.ToNotificationResponse(notification))
		if err != nil {
			s.logger.Warn("Failed to encode notification for publish", zap.Error(err))
			continue
		}
		channel := fmt.Sprintf("notifications:%s", notification.RecipientID)
		if err := s.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
			s.logger.Warn("Failed to publish notification",
				zap.String("channel", channel),
				zap.Error(err))
		}
		if err := s.redisClient.Del(ctx, unreadNotificationsKey(notification.RecipientID)).Err(); err != nil {
			s.logger.Warn("Failed to invalidate notification cache", zap.Error(err))
		}
	}
}

// List returns a page of the actor's notifications, newest first
func (s *notificationServiceImpl) List(ctx context.Context, actorID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := s.notificationRepo.FindByRecipient(ctx, actorID, unreadOnly, limit, offset)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch notifications", err.Error())
	}
	unread, err := s.notificationRepo.CountUnread(ctx, actorID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count unread notifications", err.Error())
	}

	return &dto.NotificationListResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		Total:         total,
		UnreadCount:   unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

// MarkAsRead acknowledges one notification. Users can only acknowledge
// their own; acknowledging twice is a no-op.
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, actorID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkAsRead(ctx, notificationID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Notification not found", "")
		}
		if errors.Is(err, repository.ErrWrongRecipient) {
			return response.NewAppError(response.ErrCodeForbidden, "This notification belongs to another user", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to mark notification as read", err.Error())
	}
	s.invalidateUnread(ctx, actorID)
	return nil
}

// Delete removes one of the actor's notifications from their feed
func (s *notificationServiceImpl) Delete(ctx context.Context, actorID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.Delete(ctx, notificationID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Notification not found", "")
		}
		if errors.Is(err, repository.ErrWrongRecipient) {
			return response.NewAppError(response.ErrCodeForbidden, "This notification belongs to another user", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete notification", err.Error())
	}
	s.invalidateUnread(ctx, actorID)
	return nil
}

// MarkAllAsRead acknowledges every unread notification of the actor
func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, actorID uuid.UUID) (*dto.MarkAllReadResponse, error) {
	marked, err := s.notificationRepo.MarkAllAsRead(ctx, actorID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to mark notifications as read", err.Error())
	}
	s.invalidateUnread(ctx, actorID)
	return &dto.MarkAllReadResponse{MarkedCount: marked}, nil
}

// UnreadCount returns the actor's unread notification badge, cached briefly
// in Redis
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	key := unreadNotificationsKey(actorID)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.notificationRepo.CountUnread(ctx, actorID)
	if err != nil {
		return 0, response.NewAppError(response.ErrCodeInternal, "Failed to count unread notifications", err.Error())
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, key, count, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache unread notification count",
				zap.String("user_id", actorID.String()),
				zap.Error(err))
		}
	}
	return count, nil
}

// CleanupOld removes read notifications older than the retention window
func (s *notificationServiceImpl) CleanupOld(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := nowUTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return deleted, nil
}

func (s *notificationServiceImpl) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, unreadNotificationsKey(userID)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate notification cache", zap.Error(err))
	}
}
