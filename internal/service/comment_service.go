package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, actorID, subTaskID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
	ListComments(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.CommentListResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo       repository.CommentRepository
	subTaskRepo       repository.SubTaskRepository
	userRepo          repository.UserRepository
	notiService       NotificationService
	readStatusService ReadStatusService
	logger            *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	subTaskRepo repository.SubTaskRepository,
	userRepo repository.UserRepository,
	notiService NotificationService,
	readStatusService ReadStatusService,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo:       commentRepo,
		subTaskRepo:       subTaskRepo,
		userRepo:          userRepo,
		notiService:       notiService,
		readStatusService: readStatusService,
		logger:            logger,
	}
}

// resolveCommentType picks the comment type from the request, falling back
// to what the content implies
func resolveCommentType(req *dto.CreateCommentRequest) domain.CommentType {
	if req.Type != "" {
		return domain.CommentType(req.Type)
	}
	if req.FilePath != nil && *req.FilePath != "" {
		if req.FileType != nil && strings.HasPrefix(*req.FileType, "image/") {
			return domain.CommentTypeImage
		}
		return domain.CommentTypeFile
	}
	return domain.CommentTypeText
}

// CreateComment posts a comment on a sub-task and fans notifications out to
// the other participants. A comment needs a message, file metadata, or
// both. Notification delivery is best effort: the comment stands even if
// the fan-out fails.
func (s *commentServiceImpl) CreateComment(ctx context.Context, actorID, subTaskID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(subTask); err != nil {
		return nil, err
	}

	hasMessage := req.Message != nil && strings.TrimSpace(*req.Message) != ""
	hasFile := req.FilePath != nil && *req.FilePath != ""
	if !hasMessage && !hasFile {
		return nil, response.NewAppError(response.ErrCodeValidation, "A comment needs a message or a file", "")
	}

	commentType := resolveCommentType(req)
	if !domain.ValidCommentType(commentType) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid comment type", string(commentType))
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Parent comment not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch parent comment", err.Error())
		}
		if parent.SubTaskID != subTaskID {
			return nil, response.NewAppError(response.ErrCodeValidation, "Parent comment belongs to a different sub-task", "")
		}
	}

	comment := &domain.Comment{
		SubTaskID: subTaskID,
		AuthorID:  actorID,
		Type:      commentType,
		Message:   req.Message,
		FilePath:  req.FilePath,
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  req.FileSize,
		ParentID:  req.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	s.dispatchNotifications(ctx, actorID, subTask, comment)

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch created comment", err.Error())
	}
	resp := dto.ToCommentResponse(created)
	return &resp, nil
}

// dispatchNotifications notifies the card's participants about a fresh
// comment and drops their cached unread badges. Failures are logged and
// swallowed.
func (s *commentServiceImpl) dispatchNotifications(ctx context.Context, actorID uuid.UUID, subTask *domain.SubTask, comment *domain.Comment) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		s.logger.Warn("Failed to load comment author for notification",
			zap.String("user_id", actorID.String()),
			zap.Error(err))
		return
	}

	if err := s.notiService.NotifyNewComment(ctx, actor, &subTask.Card, subTask, comment); err != nil {
		s.logger.Warn("Failed to dispatch comment notifications",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err))
	}

	recipients := make([]uuid.UUID, 0, len(subTask.Card.Collaborators)+1)
	if subTask.Card.OwnerID != actorID {
		recipients = append(recipients, subTask.Card.OwnerID)
	}
	for _, collaborator := range subTask.Card.Collaborators {
		if collaborator.ID != actorID {
			recipients = append(recipients, collaborator.ID)
		}
	}
	s.readStatusService.InvalidateGlobalUnread(ctx, recipients...)
}

// UpdateComment edits a comment's message. Author only.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comment", err.Error())
	}
	if comment.AuthorID != actorID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the author can edit a comment", "")
	}

	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, comment.SubTaskID, actorID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(subTask); err != nil {
		return nil, err
	}

	// Same rule as creation: a comment keeps a message, file metadata, or
	// both. Blanking the message of a file-less comment would leave nothing.
	hasMessage := strings.TrimSpace(req.Message) != ""
	hasFile := comment.FilePath != nil && *comment.FilePath != ""
	if !hasMessage && !hasFile {
		return nil, response.NewAppError(response.ErrCodeValidation, "A comment needs a message or a file", "")
	}

	comment.Message = &req.Message
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}

	resp := dto.ToCommentResponse(comment)
	return &resp, nil
}

// DeleteComment removes a comment. Author only; closed cards refuse.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch comment", err.Error())
	}
	if comment.AuthorID != actorID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the author can delete a comment", "")
	}

	subTask, err := loadSubTaskForActor(ctx, s.subTaskRepo, comment.SubTaskID, actorID)
	if err != nil {
		return err
	}
	if subTask.Card.IsClosed() {
		return response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}
	return nil
}

// ListComments returns a sub-task's comment thread in chronological order
// together with the actor's first unread position
func (s *commentServiceImpl) ListComments(ctx context.Context, actorID, subTaskID uuid.UUID) (*dto.CommentListResponse, error) {
	if _, err := loadSubTaskForActor(ctx, s.subTaskRepo, subTaskID, actorID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindBySubTask(ctx, subTaskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}

	resp := &dto.CommentListResponse{
		Comments: dto.ToCommentResponses(comments),
	}
	if firstUnread, err := s.readStatusService.FirstUnreadCommentID(ctx, actorID, subTaskID); err == nil {
		resp.FirstUnreadCommentID = firstUnread
	}
	return resp, nil
}
