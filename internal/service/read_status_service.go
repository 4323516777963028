package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// ReadStatusService defines the interface for comment read tracking logic
type ReadStatusService interface {
	MarkRead(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.MarkReadResponse, error)
	UnreadCount(ctx context.Context, actorID, subTaskID uuid.UUID) (int64, error)
	UnreadCounts(ctx context.Context, actorID uuid.UUID, subTaskIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FirstUnreadCommentID(ctx context.Context, actorID, subTaskID uuid.UUID) (*uuid.UUID, error)
	GlobalUnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error)
	InvalidateGlobalUnread(ctx context.Context, userIDs ...uuid.UUID)
}

// readStatusServiceImpl is the implementation of ReadStatusService
type readStatusServiceImpl struct {
	readStatusRepo repository.ReadStatusRepository
	commentRepo    repository.CommentRepository
	subTaskRepo    repository.SubTaskRepository
	redisClient    *redis.Client
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewReadStatusService creates a new instance of ReadStatusService.
// redisClient may be nil, which disables the unread badge cache.
func NewReadStatusService(
	readStatusRepo repository.ReadStatusRepository,
	commentRepo repository.CommentRepository,
	subTaskRepo repository.SubTaskRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ReadStatusService {
	return &readStatusServiceImpl{
		readStatusRepo: readStatusRepo,
		commentRepo:    commentRepo,
		subTaskRepo:    subTaskRepo,
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func globalUnreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("unread:comments:%s", userID)
}

// MarkRead records that the actor has read the sub-task's comment thread up
// to now. Marking an already-read thread just advances the timestamp.
func (s *readStatusServiceImpl) MarkRead(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.MarkReadResponse, error) {
	if _, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID); err != nil {
		return nil, err
	}

	latestID, err := s.commentRepo.LatestID(ctx, subTaskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve latest comment", err.Error())
	}

	now := nowUTC()
	readStatus := &domain.SubtaskReadStatus{
		SubTaskID:     subTaskID,
		UserID:        actorID,
		LastReadAt:    now,
		LastCommentID: latestID,
	}
	if err := s.readStatusRepo.Upsert(ctx, readStatus); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update read status", err.Error())
	}

	s.InvalidateGlobalUnread(ctx, actorID)

	return &dto.MarkReadResponse{
		SubTaskID:  subTaskID,
		LastReadAt: now,
	}, nil
}

// UnreadCount counts the actor's unread comments on one sub-task
func (s *readStatusServiceImpl) UnreadCount(ctx context.Context, actorID, subTaskID uuid.UUID) (int64, error) {
	if _, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID); err != nil {
		return 0, err
	}
	since, err := s.lastReadAt(ctx, subTaskID, actorID)
	if err != nil {
		return 0, err
	}
	count, err := s.commentRepo.CountUnread(ctx, subTaskID, actorID, since)
	if err != nil {
		return 0, response.NewAppError(response.ErrCodeInternal, "Failed to count unread comments", err.Error())
	}
	return count, nil
}

// UnreadCounts counts the actor's unread comments per sub-task. Used to fill
// board listing badges, so it skips per-sub-task access checks; callers pass
// IDs they already resolved through an accessible card.
func (s *readStatusServiceImpl) UnreadCounts(ctx context.Context, actorID uuid.UUID, subTaskIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(subTaskIDs))
	if len(subTaskIDs) == 0 {
		return counts, nil
	}

	readStatuses, err := s.readStatusRepo.FindForUser(ctx, actorID, subTaskIDs)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch read statuses", err.Error())
	}
	lastRead := make(map[uuid.UUID]time.Time, len(readStatuses))
	for _, readStatus := range readStatuses {
		lastRead[readStatus.SubTaskID] = readStatus.LastReadAt
	}

	for _, subTaskID := range subTaskIDs {
		var since *time.Time
		if t, ok := lastRead[subTaskID]; ok {
			since = &t
		}
		count, err := s.commentRepo.CountUnread(ctx, subTaskID, actorID, since)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count unread comments", err.Error())
		}
		counts[subTaskID] = count
	}
	return counts, nil
}

// FirstUnreadCommentID returns where the actor should resume reading, or
// nil when the thread is fully read
func (s *readStatusServiceImpl) FirstUnreadCommentID(ctx context.Context, actorID, subTaskID uuid.UUID) (*uuid.UUID, error) {
	since, err := s.lastReadAt(ctx, subTaskID, actorID)
	if err != nil {
		return nil, err
	}
	id, err := s.commentRepo.FirstUnreadID(ctx, subTaskID, actorID, since)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve first unread comment", err.Error())
	}
	return id, nil
}

// GlobalUnreadCount counts the actor's unread comments across every card
// they own or collaborate on. The result is cached briefly in Redis since
// the badge is polled far more often than it changes.
func (s *readStatusServiceImpl) GlobalUnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	key := globalUnreadKey(actorID)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.commentRepo.CountUnreadForUser(ctx, actorID)
	if err != nil {
		return 0, response.NewAppError(response.ErrCodeInternal, "Failed to count unread comments", err.Error())
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, key, count, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache unread comment count",
				zap.String("user_id", actorID.String()),
				zap.Error(err))
		}
	}
	return count, nil
}

// InvalidateGlobalUnread drops the cached unread badge for the given users.
// Cache misses simply recompute, so failures are only logged.
func (s *readStatusServiceImpl) InvalidateGlobalUnread(ctx context.Context, userIDs ...uuid.UUID) {
	if s.redisClient == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, globalUnreadKey(userID))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("Failed to invalidate unread comment cache", zap.Error(err))
	}
}

// lastReadAt returns the actor's read marker time for a sub-task, or nil
// when they never read it
func (s *readStatusServiceImpl) lastReadAt(ctx context.Context, subTaskID, userID uuid.UUID) (*time.Time, error) {
	readStatus, err := s.readStatusRepo.Find(ctx, subTaskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch read status", err.Error())
	}
	return &readStatus.LastReadAt, nil
}
