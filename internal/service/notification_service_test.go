package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

func newNotificationService(notificationRepo *MockNotificationRepository, cardRepo *MockCardRepository) NotificationService {
	return NewNotificationService(notificationRepo, cardRepo, nil, time.Minute, zap.NewNop())
}

func TestNotifyNewComment_FansOutToParticipants(t *testing.T) {
	ownerID := uuid.New()
	collaboratorID := uuid.New()
	creatorID := uuid.New()
	actor := &domain.User{BaseModel: domain.BaseModel{ID: collaboratorID}, Name: "Jamie"}
	card := newTestCard(ownerID)
	subTask := newTestSubTask(card, creatorID)
	comment := &domain.Comment{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		SubTaskID: subTask.ID,
		AuthorID:  actor.ID,
		Type:      domain.CommentTypeText,
		Message:   strPtr("Picked up the keys"),
	}

	var stored []*domain.Notification
	notificationRepo := &MockNotificationRepository{
		CreateBatchFunc: func(ctx context.Context, notifications []*domain.Notification) error {
			stored = notifications
			return nil
		},
	}
	cardRepo := &MockCardRepository{
		CollaboratorIDsFunc: func(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error) {
			return []uuid.UUID{collaboratorID}, nil
		},
	}
	svc := newNotificationService(notificationRepo, cardRepo)

	err := svc.NotifyNewComment(context.Background(), actor, card, subTask, comment)
	require.NoError(t, err)

	// Owner and sub-task creator get notified; the acting collaborator does not.
	require.Len(t, stored, 2)
	recipients := map[uuid.UUID]bool{}
	for _, notification := range stored {
		recipients[notification.RecipientID] = true
		assert.Equal(t, actor.ID, notification.ActorID)
		assert.Equal(t, "Jamie", notification.ActorName)
		assert.Equal(t, domain.NotificationNewComment, notification.Action)
		assert.Equal(t, card.Title, notification.CardTitle)
		assert.Equal(t, subTask.Name, notification.SubTaskName)
		assert.Equal(t, "Picked up the keys", notification.MessagePreview)
	}
	assert.True(t, recipients[ownerID])
	assert.True(t, recipients[creatorID])
	assert.False(t, recipients[collaboratorID])
}

func TestNotifyNewComment_NoRecipientsIsNoOp(t *testing.T) {
	ownerID := uuid.New()
	actor := &domain.User{BaseModel: domain.BaseModel{ID: ownerID}}
	card := newTestCard(ownerID)
	subTask := newTestSubTask(card, ownerID)
	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, Message: strPtr("talking to myself")}

	created := false
	notificationRepo := &MockNotificationRepository{
		CreateBatchFunc: func(ctx context.Context, notifications []*domain.Notification) error {
			created = true
			return nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.NotifyNewComment(context.Background(), actor, card, subTask, comment)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNotifyNewComment_PreviewTruncated(t *testing.T) {
	ownerID := uuid.New()
	actorID := uuid.New()
	actor := &domain.User{BaseModel: domain.BaseModel{ID: actorID}}
	card := newTestCard(ownerID)
	subTask := newTestSubTask(card, ownerID)
	long := strings.Repeat("a", 80)
	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, Message: &long}

	var stored []*domain.Notification
	notificationRepo := &MockNotificationRepository{
		CreateBatchFunc: func(ctx context.Context, notifications []*domain.Notification) error {
			stored = notifications
			return nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.NotifyNewComment(context.Background(), actor, card, subTask, comment)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, strings.Repeat("a", 50)+"...", stored[0].MessagePreview)
}

func TestNotifyNewComment_FileCommentUsesFileName(t *testing.T) {
	ownerID := uuid.New()
	actor := &domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}}
	card := newTestCard(ownerID)
	subTask := newTestSubTask(card, ownerID)
	comment := &domain.Comment{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Type:      domain.CommentTypeFile,
		FilePath:  strPtr("comments/x/report.pdf"),
		FileName:  strPtr("report.pdf"),
	}

	var stored []*domain.Notification
	notificationRepo := &MockNotificationRepository{
		CreateBatchFunc: func(ctx context.Context, notifications []*domain.Notification) error {
			stored = notifications
			return nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.NotifyNewComment(context.Background(), actor, card, subTask, comment)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "report.pdf", stored[0].MessagePreview)
}

func TestListNotifications_ClampsLimit(t *testing.T) {
	actorID := uuid.New()
	var gotLimit int
	notificationRepo := &MockNotificationRepository{
		FindByRecipientFunc: func(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
			gotLimit = limit
			return nil, 0, nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	_, err := svc.List(context.Background(), actorID, false, 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)

	_, err = svc.List(context.Background(), actorID, false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
}

func TestMarkAllAsRead_ReportsCount(t *testing.T) {
	actorID := uuid.New()
	notificationRepo := &MockNotificationRepository{
		MarkAllAsReadFunc: func(ctx context.Context, recipientID uuid.UUID) (int64, error) {
			assert.Equal(t, actorID, recipientID)
			return 4, nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	resp, err := svc.MarkAllAsRead(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.MarkedCount)
}

func TestMarkAsRead_MissingNotificationNotFound(t *testing.T) {
	notificationRepo := &MockNotificationRepository{
		MarkAsReadFunc: func(ctx context.Context, id, recipientID uuid.UUID) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeNotFound)
}

func TestMarkAsRead_OtherUsersNotificationForbidden(t *testing.T) {
	notificationRepo := &MockNotificationRepository{
		MarkAsReadFunc: func(ctx context.Context, id, recipientID uuid.UUID) error {
			return repository.ErrWrongRecipient
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.MarkAsRead(context.Background(), uuid.New(), uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeForbidden)
}

func TestDeleteNotification_Success(t *testing.T) {
	actorID := uuid.New()
	notificationID := uuid.New()
	deleted := false
	notificationRepo := &MockNotificationRepository{
		DeleteFunc: func(ctx context.Context, id, recipientID uuid.UUID) error {
			deleted = true
			assert.Equal(t, notificationID, id)
			assert.Equal(t, actorID, recipientID)
			return nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.Delete(context.Background(), actorID, notificationID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteNotification_OtherUsersNotificationForbidden(t *testing.T) {
	notificationRepo := &MockNotificationRepository{
		DeleteFunc: func(ctx context.Context, id, recipientID uuid.UUID) error {
			return repository.ErrWrongRecipient
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeForbidden)
}

func TestDeleteNotification_MissingNotFound(t *testing.T) {
	notificationRepo := &MockNotificationRepository{
		DeleteFunc: func(ctx context.Context, id, recipientID uuid.UUID) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assertAppErrorCode(t, err, response.ErrCodeNotFound)
}

func TestCleanupOld_UsesRetentionCutoff(t *testing.T) {
	var cutoff time.Time
	notificationRepo := &MockNotificationRepository{
		DeleteReadBeforeFunc: func(ctx context.Context, c time.Time) (int64, error) {
			cutoff = c
			return 12, nil
		},
	}
	svc := newNotificationService(notificationRepo, &MockCardRepository{})

	deleted, err := svc.CleanupOld(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)

	expected := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, cutoff, time.Minute)
}
