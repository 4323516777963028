package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
)

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	CreateFunc                func(ctx context.Context, card *domain.Card) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindByIDWithRelationsFunc func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindOwnedFunc             func(ctx context.Context, ownerID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error)
	FindCollaboratingFunc     func(ctx context.Context, userID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error)
	UpdateFunc                func(ctx context.Context, card *domain.Card) error
	UpdateGuardedFunc         func(ctx context.Context, card *domain.Card, expectedVersion int64) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
	RecalculateStatusFunc     func(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	AddCollaboratorFunc       func(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveCollaboratorFunc    func(ctx context.Context, cardID, userID uuid.UUID) error
	IsCollaboratorFunc        func(ctx context.Context, cardID, userID uuid.UUID) (bool, error)
	CollaboratorIDsFunc       func(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error)
	CountByStatusFunc         func(ctx context.Context, userID uuid.UUID) ([]repository.StatusCount, error)
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	return nil
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCardRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.FindByIDWithRelationsFunc != nil {
		return m.FindByIDWithRelationsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCardRepository) FindOwned(ctx context.Context, ownerID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error) {
	if m.FindOwnedFunc != nil {
		return m.FindOwnedFunc(ctx, ownerID, search, includeClosed)
	}
	return nil, nil
}

func (m *MockCardRepository) FindCollaborating(ctx context.Context, userID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error) {
	if m.FindCollaboratingFunc != nil {
		return m.FindCollaboratingFunc(ctx, userID, search, includeClosed)
	}
	return nil, nil
}

func (m *MockCardRepository) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, card)
	}
	return nil
}

func (m *MockCardRepository) UpdateGuarded(ctx context.Context, card *domain.Card, expectedVersion int64) error {
	if m.UpdateGuardedFunc != nil {
		return m.UpdateGuardedFunc(ctx, card, expectedVersion)
	}
	return nil
}

func (m *MockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCardRepository) RecalculateStatus(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	if m.RecalculateStatusFunc != nil {
		return m.RecalculateStatusFunc(ctx, cardID)
	}
	return &domain.Card{}, nil
}

func (m *MockCardRepository) AddCollaborator(ctx context.Context, cardID, userID uuid.UUID) error {
	if m.AddCollaboratorFunc != nil {
		return m.AddCollaboratorFunc(ctx, cardID, userID)
	}
	return nil
}

func (m *MockCardRepository) RemoveCollaborator(ctx context.Context, cardID, userID uuid.UUID) error {
	if m.RemoveCollaboratorFunc != nil {
		return m.RemoveCollaboratorFunc(ctx, cardID, userID)
	}
	return nil
}

func (m *MockCardRepository) IsCollaborator(ctx context.Context, cardID, userID uuid.UUID) (bool, error) {
	if m.IsCollaboratorFunc != nil {
		return m.IsCollaboratorFunc(ctx, cardID, userID)
	}
	return false, nil
}

func (m *MockCardRepository) CollaboratorIDs(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error) {
	if m.CollaboratorIDsFunc != nil {
		return m.CollaboratorIDsFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockCardRepository) CountByStatus(ctx context.Context, userID uuid.UUID) ([]repository.StatusCount, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, userID)
	}
	return nil, nil
}

// MockSubTaskRepository is a mock implementation of SubTaskRepository
type MockSubTaskRepository struct {
	CreateFunc           func(ctx context.Context, subTask *domain.SubTask) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.SubTask, error)
	FindByIDWithCardFunc func(ctx context.Context, id uuid.UUID) (*domain.SubTask, error)
	FindByCardFunc       func(ctx context.Context, cardID uuid.UUID) ([]*domain.SubTask, error)
	UpdateFunc           func(ctx context.Context, subTask *domain.SubTask) error
	UpdateGuardedFunc    func(ctx context.Context, subTask *domain.SubTask, expectedVersion int64) error
	ToggleGuardedFunc    func(ctx context.Context, subTask *domain.SubTask, expectedVersion int64, history *domain.SubTaskHistory) (*domain.Card, error)
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	CountByCardFunc      func(ctx context.Context, cardID uuid.UUID) (int64, int64, error)
	AppendHistoryFunc    func(ctx context.Context, history *domain.SubTaskHistory) error
	FindHistoriesFunc    func(ctx context.Context, subTaskID uuid.UUID) ([]*domain.SubTaskHistory, error)
}

func (m *MockSubTaskRepository) Create(ctx context.Context, subTask *domain.SubTask) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, subTask)
	}
	return nil
}

func (m *MockSubTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSubTaskRepository) FindByIDWithCard(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	if m.FindByIDWithCardFunc != nil {
		return m.FindByIDWithCardFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSubTaskRepository) FindByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.SubTask, error) {
	if m.FindByCardFunc != nil {
		return m.FindByCardFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockSubTaskRepository) Update(ctx context.Context, subTask *domain.SubTask) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, subTask)
	}
	return nil
}

func (m *MockSubTaskRepository) UpdateGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64) error {
	if m.UpdateGuardedFunc != nil {
		return m.UpdateGuardedFunc(ctx, subTask, expectedVersion)
	}
	return nil
}

func (m *MockSubTaskRepository) ToggleGuarded(ctx context.Context, subTask *domain.SubTask, expectedVersion int64, history *domain.SubTaskHistory) (*domain.Card, error) {
	if m.ToggleGuardedFunc != nil {
		return m.ToggleGuardedFunc(ctx, subTask, expectedVersion, history)
	}
	return &domain.Card{}, nil
}

func (m *MockSubTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockSubTaskRepository) CountByCard(ctx context.Context, cardID uuid.UUID) (int64, int64, error) {
	if m.CountByCardFunc != nil {
		return m.CountByCardFunc(ctx, cardID)
	}
	return 0, 0, nil
}

func (m *MockSubTaskRepository) AppendHistory(ctx context.Context, history *domain.SubTaskHistory) error {
	if m.AppendHistoryFunc != nil {
		return m.AppendHistoryFunc(ctx, history)
	}
	return nil
}

func (m *MockSubTaskRepository) FindHistories(ctx context.Context, subTaskID uuid.UUID) ([]*domain.SubTaskHistory, error) {
	if m.FindHistoriesFunc != nil {
		return m.FindHistoriesFunc(ctx, subTaskID)
	}
	return nil, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc             func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindBySubTaskFunc      func(ctx context.Context, subTaskID uuid.UUID) ([]*domain.Comment, error)
	UpdateFunc             func(ctx context.Context, comment *domain.Comment) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
	CountUnreadFunc        func(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (int64, error)
	CountUnreadForUserFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	FirstUnreadIDFunc      func(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (*uuid.UUID, error)
	LatestIDFunc           func(ctx context.Context, subTaskID uuid.UUID) (*uuid.UUID, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindBySubTask(ctx context.Context, subTaskID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindBySubTaskFunc != nil {
		return m.FindBySubTaskFunc(ctx, subTaskID)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCommentRepository) CountUnread(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, subTaskID, userID, since)
	}
	return 0, nil
}

func (m *MockCommentRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountUnreadForUserFunc != nil {
		return m.CountUnreadForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockCommentRepository) FirstUnreadID(ctx context.Context, subTaskID, userID uuid.UUID, since *time.Time) (*uuid.UUID, error) {
	if m.FirstUnreadIDFunc != nil {
		return m.FirstUnreadIDFunc(ctx, subTaskID, userID, since)
	}
	return nil, nil
}

func (m *MockCommentRepository) LatestID(ctx context.Context, subTaskID uuid.UUID) (*uuid.UUID, error) {
	if m.LatestIDFunc != nil {
		return m.LatestIDFunc(ctx, subTaskID)
	}
	return nil, nil
}

// MockReadStatusRepository is a mock implementation of ReadStatusRepository
type MockReadStatusRepository struct {
	UpsertFunc      func(ctx context.Context, readStatus *domain.SubtaskReadStatus) error
	FindFunc        func(ctx context.Context, subTaskID, userID uuid.UUID) (*domain.SubtaskReadStatus, error)
	FindForUserFunc func(ctx context.Context, userID uuid.UUID, subTaskIDs []uuid.UUID) ([]*domain.SubtaskReadStatus, error)
}

func (m *MockReadStatusRepository) Upsert(ctx context.Context, readStatus *domain.SubtaskReadStatus) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, readStatus)
	}
	return nil
}

func (m *MockReadStatusRepository) Find(ctx context.Context, subTaskID, userID uuid.UUID) (*domain.SubtaskReadStatus, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, subTaskID, userID)
	}
	return nil, nil
}

func (m *MockReadStatusRepository) FindForUser(ctx context.Context, userID uuid.UUID, subTaskIDs []uuid.UUID) ([]*domain.SubtaskReadStatus, error) {
	if m.FindForUserFunc != nil {
		return m.FindForUserFunc(ctx, userID, subTaskIDs)
	}
	return nil, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	CreateBatchFunc      func(ctx context.Context, notifications []*domain.Notification) error
	FindByRecipientFunc  func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error)
	MarkAsReadFunc       func(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllAsReadFunc    func(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnreadFunc      func(ctx context.Context, recipientID uuid.UUID) (int64, error)
	DeleteFunc           func(ctx context.Context, id, recipientID uuid.UUID) error
	DeleteReadBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	if m.FindByRecipientFunc != nil {
		return m.FindByRecipientFunc(ctx, recipientID, unreadOnly, limit, offset)
	}
	return nil, 0, nil
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, id, recipientID)
	}
	return nil
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if m.MarkAllAsReadFunc != nil {
		return m.MarkAllAsReadFunc(ctx, recipientID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, recipientID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, recipientID)
	}
	return nil
}

func (m *MockNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteReadBeforeFunc != nil {
		return m.DeleteReadBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindByIDsFunc   func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

// MockReadStatusService is a mock implementation of ReadStatusService
type MockReadStatusService struct {
	MarkReadFunc               func(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.MarkReadResponse, error)
	UnreadCountFunc            func(ctx context.Context, actorID, subTaskID uuid.UUID) (int64, error)
	UnreadCountsFunc           func(ctx context.Context, actorID uuid.UUID, subTaskIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FirstUnreadCommentIDFunc   func(ctx context.Context, actorID, subTaskID uuid.UUID) (*uuid.UUID, error)
	GlobalUnreadCountFunc      func(ctx context.Context, actorID uuid.UUID) (int64, error)
	InvalidateGlobalUnreadFunc func(ctx context.Context, userIDs ...uuid.UUID)
}

func (m *MockReadStatusService) MarkRead(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.MarkReadResponse, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, actorID, subTaskID)
	}
	return &dto.MarkReadResponse{}, nil
}

func (m *MockReadStatusService) UnreadCount(ctx context.Context, actorID, subTaskID uuid.UUID) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, actorID, subTaskID)
	}
	return 0, nil
}

func (m *MockReadStatusService) UnreadCounts(ctx context.Context, actorID uuid.UUID, subTaskIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if m.UnreadCountsFunc != nil {
		return m.UnreadCountsFunc(ctx, actorID, subTaskIDs)
	}
	return map[uuid.UUID]int64{}, nil
}

func (m *MockReadStatusService) FirstUnreadCommentID(ctx context.Context, actorID, subTaskID uuid.UUID) (*uuid.UUID, error) {
	if m.FirstUnreadCommentIDFunc != nil {
		return m.FirstUnreadCommentIDFunc(ctx, actorID, subTaskID)
	}
	return nil, nil
}

func (m *MockReadStatusService) GlobalUnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	if m.GlobalUnreadCountFunc != nil {
		return m.GlobalUnreadCountFunc(ctx, actorID)
	}
	return 0, nil
}

func (m *MockReadStatusService) InvalidateGlobalUnread(ctx context.Context, userIDs ...uuid.UUID) {
	if m.InvalidateGlobalUnreadFunc != nil {
		m.InvalidateGlobalUnreadFunc(ctx, userIDs...)
	}
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	NotifyNewCommentFunc func(ctx context.Context, actor *domain.User, card *domain.Card, subTask *domain.SubTask, comment *domain.Comment) error
	ListFunc             func(ctx context.Context, actorID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error)
	MarkAsReadFunc       func(ctx context.Context, actorID, notificationID uuid.UUID) error
	MarkAllAsReadFunc    func(ctx context.Context, actorID uuid.UUID) (*dto.MarkAllReadResponse, error)
	UnreadCountFunc      func(ctx context.Context, actorID uuid.UUID) (int64, error)
	DeleteNotifFunc      func(ctx context.Context, actorID, notificationID uuid.UUID) error
	CleanupOldFunc       func(ctx context.Context, retentionDays int) (int64, error)
}

func (m *MockNotificationService) NotifyNewComment(ctx context.Context, actor *domain.User, card *domain.Card, subTask *domain.SubTask, comment *domain.Comment) error {
	if m.NotifyNewCommentFunc != nil {
		return m.NotifyNewCommentFunc(ctx, actor, card, subTask, comment)
	}
	return nil
}

func (m *MockNotificationService) List(ctx context.Context, actorID uuid.UUID, unreadOnly bool, limit, offset int) (*dto.NotificationListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actorID, unreadOnly, limit, offset)
	}
	return &dto.NotificationListResponse{}, nil
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, actorID, notificationID uuid.UUID) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, actorID, notificationID)
	}
	return nil
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, actorID uuid.UUID) (*dto.MarkAllReadResponse, error) {
	if m.MarkAllAsReadFunc != nil {
		return m.MarkAllAsReadFunc(ctx, actorID)
	}
	return &dto.MarkAllReadResponse{}, nil
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, actorID)
	}
	return 0, nil
}

func (m *MockNotificationService) Delete(ctx context.Context, actorID, notificationID uuid.UUID) error {
	if m.DeleteNotifFunc != nil {
		return m.DeleteNotifFunc(ctx, actorID, notificationID)
	}
	return nil
}

func (m *MockNotificationService) CleanupOld(ctx context.Context, retentionDays int) (int64, error) {
	if m.CleanupOldFunc != nil {
		return m.CleanupOldFunc(ctx, retentionDays)
	}
	return 0, nil
}
