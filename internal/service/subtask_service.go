package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// SubTaskService defines the interface for sub-task business logic
type SubTaskService interface {
	AddSubTask(ctx context.Context, actorID, cardID uuid.UUID, req *dto.CreateSubTaskRequest) (*dto.SubTaskResponse, error)
	GetSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.SubTaskDetailResponse, error)
	Toggle(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.ToggleSubTaskResponse, error)
	UpdateSubTask(ctx context.Context, actorID, subTaskID uuid.UUID, req *dto.UpdateSubTaskRequest) (*dto.SubTaskResponse, error)
	CloseSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.SubTaskResponse, error)
	DeleteSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) error
	BulkUpdate(ctx context.Context, actorID, cardID uuid.UUID, req *dto.BulkUpdateSubTasksRequest) (*dto.BulkUpdateSubTasksResponse, error)
	GetHistories(ctx context.Context, actorID, subTaskID uuid.UUID) ([]dto.SubTaskHistoryResponse, error)
}

// subTaskServiceImpl is the implementation of SubTaskService
type subTaskServiceImpl struct {
	subTaskRepo       repository.SubTaskRepository
	cardRepo          repository.CardRepository
	commentRepo       repository.CommentRepository
	readStatusService ReadStatusService
}

// NewSubTaskService creates a new instance of SubTaskService
func NewSubTaskService(
	subTaskRepo repository.SubTaskRepository,
	cardRepo repository.CardRepository,
	commentRepo repository.CommentRepository,
	readStatusService ReadStatusService,
) SubTaskService {
	return &subTaskServiceImpl{
		subTaskRepo:       subTaskRepo,
		cardRepo:          cardRepo,
		commentRepo:       commentRepo,
		readStatusService: readStatusService,
	}
}

// guardMutable rejects mutations on sub-tasks whose card or which
// themselves have been closed
func guardMutable(subTask *domain.SubTask) error {
	if subTask.Card.IsClosed() {
		return response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}
	if subTask.IsClosed {
		return response.NewAppError(response.ErrCodeResourceClosed, "Sub-task is closed", "")
	}
	return nil
}

// recalculate re-derives the parent card's status after a sub-task mutation
func (s *subTaskServiceImpl) recalculate(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cardRepo.RecalculateStatus(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Card was modified by someone else, reload and retry", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update card status", err.Error())
	}
	return card, nil
}

// AddSubTask appends a new sub-task to a card. Any participant may add;
// closed cards refuse. Adding an item to a Completed card pulls it back to
// InProgress through the status derivation.
func (s *subTaskServiceImpl) AddSubTask(ctx context.Context, actorID, cardID uuid.UUID, req *dto.CreateSubTaskRequest) (*dto.SubTaskResponse, error) {
	card, err := s.cardRepo.FindByIDWithRelations(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	if !cardAccessible(card, actorID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this card", "")
	}
	if card.IsClosed() {
		return nil, response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}

	creatorID := actorID
	subTask := &domain.SubTask{
		CardID:      cardID,
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   &creatorID,
	}
	if err := s.subTaskRepo.Create(ctx, subTask); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create sub-task", err.Error())
	}
	if _, err := s.recalculate(ctx, cardID); err != nil {
		return nil, err
	}

	resp := dto.ToSubTaskResponse(subTask)
	return &resp, nil
}

// GetSubTask retrieves a sub-task with its comment thread and the actor's
// unread position
func (s *subTaskServiceImpl) GetSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.SubTaskDetailResponse, error) {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindBySubTask(ctx, subTaskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}

	resp := &dto.SubTaskDetailResponse{
		SubTask:  dto.ToSubTaskResponse(subTask),
		Comments: dto.ToCommentResponses(comments),
	}
	if unread, err := s.readStatusService.UnreadCount(ctx, actorID, subTaskID); err == nil {
		resp.SubTask.UnreadCount = unread
	}
	if firstUnread, err := s.readStatusService.FirstUnreadCommentID(ctx, actorID, subTaskID); err == nil {
		resp.FirstUnreadCommentID = firstUnread
	}
	return resp, nil
}

// Toggle flips a sub-task's completion state, records the toggle in the
// audit history and re-derives the card status. All three writes commit in
// one transaction, so the card status never lags the sub-task.
func (s *subTaskServiceImpl) Toggle(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.ToggleSubTaskResponse, error) {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(subTask); err != nil {
		return nil, err
	}

	subTask.IsDone = !subTask.IsDone
	action := domain.HistoryActionUnchecked
	if subTask.IsDone {
		action = domain.HistoryActionChecked
	}
	history := &domain.SubTaskHistory{
		SubTaskID: subTaskID,
		UserID:    actorID,
		Action:    action,
	}

	card, err := s.subTaskRepo.ToggleGuarded(ctx, subTask, subTask.Version, history)
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Sub-task was modified by someone else, reload and retry", "")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Sub-task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to toggle sub-task", err.Error())
	}

	return &dto.ToggleSubTaskResponse{
		SubTask:    dto.ToSubTaskResponse(subTask),
		CardStatus: string(card.Status),
		IsRevised:  card.IsRevised,
	}, nil
}

// UpdateSubTask edits a sub-task's name or description. A stale version is
// a conflict.
func (s *subTaskServiceImpl) UpdateSubTask(ctx context.Context, actorID, subTaskID uuid.UUID, req *dto.UpdateSubTaskRequest) (*dto.SubTaskResponse, error) {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(subTask); err != nil {
		return nil, err
	}

	if req.Name != nil {
		subTask.Name = *req.Name
	}
	if req.Description != nil {
		subTask.Description = *req.Description
	}

	if err := s.subTaskRepo.UpdateGuarded(ctx, subTask, req.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Sub-task was modified by someone else, reload and retry", "")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Sub-task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update sub-task", err.Error())
	}

	resp := dto.ToSubTaskResponse(subTask)
	return &resp, nil
}

// CloseSubTask freezes a sub-task. Only the card owner may close; a closed
// sub-task keeps its completion state but refuses further edits.
func (s *subTaskServiceImpl) CloseSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.SubTaskResponse, error) {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return nil, err
	}
	if subTask.Card.OwnerID != actorID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the card owner can close a sub-task", "")
	}
	if err := guardMutable(subTask); err != nil {
		return nil, err
	}

	now := nowUTC()
	subTask.IsClosed = true
	subTask.ClosedAt = &now
	if err := s.subTaskRepo.UpdateGuarded(ctx, subTask, subTask.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Sub-task was modified by someone else, reload and retry", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to close sub-task", err.Error())
	}

	resp := dto.ToSubTaskResponse(subTask)
	return &resp, nil
}

// DeleteSubTask removes a sub-task. The card owner or the sub-task's
// creator may delete; the card status is re-derived afterwards, so deleting
// the last incomplete item can complete the card.
func (s *subTaskServiceImpl) DeleteSubTask(ctx context.Context, actorID, subTaskID uuid.UUID) error {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return err
	}
	if subTask.Card.IsClosed() {
		return response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}
	isCreator := subTask.CreatorID != nil && *subTask.CreatorID == actorID
	if subTask.Card.OwnerID != actorID && !isCreator {
		return response.NewAppError(response.ErrCodeForbidden, "Only the card owner or the sub-task creator can delete it", "")
	}

	if err := s.subTaskRepo.Delete(ctx, subTaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Sub-task not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete sub-task", err.Error())
	}

	if _, err := s.recalculate(ctx, subTask.CardID); err != nil {
		return err
	}
	return nil
}

// BulkUpdate applies a batch of sub-task changes to one card. Items are
// applied independently: a failing item is reported but does not roll back
// the others. The card status is re-derived once at the end.
func (s *subTaskServiceImpl) BulkUpdate(ctx context.Context, actorID, cardID uuid.UUID, req *dto.BulkUpdateSubTasksRequest) (*dto.BulkUpdateSubTasksResponse, error) {
	card, err := s.cardRepo.FindByIDWithRelations(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	if !cardAccessible(card, actorID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this card", "")
	}
	if card.IsClosed() {
		return nil, response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}

	resp := &dto.BulkUpdateSubTasksResponse{}
	for index, item := range req.SubTasks {
		if reason := s.applyBulkItem(ctx, actorID, cardID, &item); reason != "" {
			resp.Failures = append(resp.Failures, dto.BulkItemFailure{Index: index, Reason: reason})
		} else {
			resp.Applied++
		}
	}

	if _, err := s.recalculate(ctx, cardID); err != nil {
		return nil, err
	}

	updated, err := s.cardRepo.FindByIDWithRelations(ctx, cardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	resp.Card = dto.ToCardResponse(updated)
	return resp, nil
}

// applyBulkItem applies one bulk entry and returns a failure reason, or an
// empty string on success
func (s *subTaskServiceImpl) applyBulkItem(ctx context.Context, actorID, cardID uuid.UUID, item *dto.BulkSubTaskItem) string {
	if item.ID == nil {
		if item.Deleted {
			return "cannot delete a sub-task without an id"
		}
		if item.Name == "" {
			return "name is required for a new sub-task"
		}
		creatorID := actorID
		subTask := &domain.SubTask{
			CardID:      cardID,
			Name:        item.Name,
			Description: item.Description,
			IsDone:      item.IsDone,
			CreatorID:   &creatorID,
		}
		if err := s.subTaskRepo.Create(ctx, subTask); err != nil {
			return "failed to create sub-task"
		}
		return ""
	}

	subTask, err := s.subTaskRepo.FindByID(ctx, *item.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "sub-task not found"
		}
		return "failed to fetch sub-task"
	}
	if subTask.CardID != cardID {
		return "sub-task belongs to a different card"
	}
	if subTask.IsClosed {
		return "sub-task is closed"
	}

	if item.Deleted {
		if err := s.subTaskRepo.Delete(ctx, subTask.ID); err != nil {
			return "failed to delete sub-task"
		}
		return ""
	}

	toggled := subTask.IsDone != item.IsDone
	if item.Name != "" {
		subTask.Name = item.Name
	}
	subTask.Description = item.Description
	subTask.IsDone = item.IsDone
	if err := s.subTaskRepo.UpdateGuarded(ctx, subTask, subTask.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return "sub-task was modified concurrently"
		}
		return "failed to update sub-task"
	}

	if toggled {
		action := domain.HistoryActionUnchecked
		if subTask.IsDone {
			action = domain.HistoryActionChecked
		}
		note := fmt.Sprintf("bulk update of card %s", cardID)
		history := &domain.SubTaskHistory{
			SubTaskID: subTask.ID,
			UserID:    actorID,
			Action:    action,
			Comment:   &note,
		}
		if err := s.subTaskRepo.AppendHistory(ctx, history); err != nil {
			return "failed to record sub-task history"
		}
	}
	return ""
}

// GetHistories returns the toggle audit trail of a sub-task, newest first
func (s *subTaskServiceImpl) GetHistories(ctx context.Context, actorID, subTaskID uuid.UUID) ([]dto.SubTaskHistoryResponse, error) {
	if _, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID); err != nil {
		return nil, err
	}

	histories, err := s.subTaskRepo.FindHistories(ctx, subTaskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch sub-task history", err.Error())
	}

	responses := make([]dto.SubTaskHistoryResponse, 0, len(histories))
	for _, history := range histories {
		responses = append(responses, dto.ToSubTaskHistoryResponse(history))
	}
	return responses, nil
}
