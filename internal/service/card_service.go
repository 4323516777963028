package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// CardService defines the interface for card business logic
type CardService interface {
	CreateCard(ctx context.Context, actorID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCard(ctx context.Context, actorID, cardID uuid.UUID) (*dto.CardResponse, error)
	ListBoard(ctx context.Context, actorID uuid.UUID, search string, includeClosed bool) (*dto.BoardResponse, error)
	UpdateCard(ctx context.Context, actorID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	CloseCard(ctx context.Context, actorID, cardID uuid.UUID) (*dto.CardResponse, error)
	DeleteCard(ctx context.Context, actorID, cardID uuid.UUID) error
	GetDashboard(ctx context.Context, actorID uuid.UUID) (*dto.DashboardResponse, error)
}

// cardServiceImpl is the implementation of CardService
type cardServiceImpl struct {
	cardRepo          repository.CardRepository
	subTaskRepo       repository.SubTaskRepository
	readStatusService ReadStatusService
	notiService       NotificationService
}

// NewCardService creates a new instance of CardService
func NewCardService(
	cardRepo repository.CardRepository,
	subTaskRepo repository.SubTaskRepository,
	readStatusService ReadStatusService,
	notiService NotificationService,
) CardService {
	return &cardServiceImpl{
		cardRepo:          cardRepo,
		subTaskRepo:       subTaskRepo,
		readStatusService: readStatusService,
		notiService:       notiService,
	}
}

// loadCardForActor loads a card and verifies the actor is its owner or a
// collaborator. Every card operation goes through this gate.
func (s *cardServiceImpl) loadCardForActor(ctx context.Context, cardID, actorID uuid.UUID) (*domain.Card, error) {
	card, err := s.cardRepo.FindByIDWithRelations(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}

	if card.OwnerID == actorID {
		return card, nil
	}
	for _, collaborator := range card.Collaborators {
		if collaborator.ID == actorID {
			return card, nil
		}
	}
	return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this card", "")
}

// CreateCard creates a new card owned by the actor, optionally with initial
// sub-tasks. A new card always starts Pending.
func (s *cardServiceImpl) CreateCard(ctx context.Context, actorID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	priority := domain.PriorityNormal
	if req.Priority != "" {
		priority = domain.CardPriority(req.Priority)
		if !domain.ValidPriority(priority) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid priority", req.Priority)
		}
	}

	card := &domain.Card{
		OwnerID:  actorID,
		Title:    req.Title,
		Priority: priority,
		Status:   domain.CardStatusPending,
		Deadline: req.Deadline,
	}
	for _, subTaskReq := range req.SubTasks {
		creatorID := actorID
		card.SubTasks = append(card.SubTasks, domain.SubTask{
			Name:        subTaskReq.Name,
			Description: subTaskReq.Description,
			CreatorID:   &creatorID,
		})
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create card", err.Error())
	}

	created, err := s.cardRepo.FindByIDWithRelations(ctx, card.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch created card", err.Error())
	}

	resp := dto.ToCardResponse(created)
	return &resp, nil
}

// GetCard retrieves a single card with its sub-tasks and collaborators
func (s *cardServiceImpl) GetCard(ctx context.Context, actorID, cardID uuid.UUID) (*dto.CardResponse, error) {
	card, err := s.loadCardForActor(ctx, cardID, actorID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToCardResponse(card)
	s.fillUnreadCounts(ctx, actorID, &resp)
	return &resp, nil
}

// ListBoard retrieves the actor's board: cards they own and cards shared
// with them, with per-sub-task unread comment counts
func (s *cardServiceImpl) ListBoard(ctx context.Context, actorID uuid.UUID, search string, includeClosed bool) (*dto.BoardResponse, error) {
	owned, err := s.cardRepo.FindOwned(ctx, actorID, search, includeClosed)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch cards", err.Error())
	}
	collaborating, err := s.cardRepo.FindCollaborating(ctx, actorID, search, includeClosed)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch shared cards", err.Error())
	}

	resp := &dto.BoardResponse{
		MyCards:            dto.ToCardResponses(owned),
		CollaboratingCards: dto.ToCardResponses(collaborating),
	}
	for i := range resp.MyCards {
		s.fillUnreadCounts(ctx, actorID, &resp.MyCards[i])
	}
	for i := range resp.CollaboratingCards {
		s.fillUnreadCounts(ctx, actorID, &resp.CollaboratingCards[i])
	}
	return resp, nil
}

// fillUnreadCounts annotates the card's sub-tasks with the actor's unread
// comment counts. Counting failures leave the badges at zero rather than
// failing the request.
func (s *cardServiceImpl) fillUnreadCounts(ctx context.Context, actorID uuid.UUID, card *dto.CardResponse) {
	if len(card.SubTasks) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(card.SubTasks))
	for _, subTask := range card.SubTasks {
		ids = append(ids, subTask.SubTaskID)
	}
	counts, err := s.readStatusService.UnreadCounts(ctx, actorID, ids)
	if err != nil {
		return
	}
	for i := range card.SubTasks {
		card.SubTasks[i].UnreadCount = counts[card.SubTasks[i].SubTaskID]
	}
}

// UpdateCard updates a card's title, priority or deadline. Only the owner
// may edit, closed cards reject edits, and a stale version is a conflict.
func (s *cardServiceImpl) UpdateCard(ctx context.Context, actorID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	card, err := s.loadCardForActor(ctx, cardID, actorID)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != actorID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the card owner can edit the card", "")
	}
	if card.IsClosed() {
		return nil, response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Priority != nil {
		priority := domain.CardPriority(*req.Priority)
		if !domain.ValidPriority(priority) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid priority", *req.Priority)
		}
		card.Priority = priority
	}
	if req.Deadline != nil {
		card.Deadline = req.Deadline
	}

	if err := s.cardRepo.UpdateGuarded(ctx, card, req.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Card was modified by someone else, reload and retry", "")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update card", err.Error())
	}

	resp := dto.ToCardResponse(card)
	return &resp, nil
}

// CloseCard archives a card. Only the owner may close, and closing twice is
// rejected. Closing freezes the card: all further mutations are refused.
func (s *cardServiceImpl) CloseCard(ctx context.Context, actorID, cardID uuid.UUID) (*dto.CardResponse, error) {
	card, err := s.loadCardForActor(ctx, cardID, actorID)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != actorID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the card owner can close the card", "")
	}
	if card.IsClosed() {
		return nil, response.NewAppError(response.ErrCodeResourceClosed, "Card is already closed", "")
	}

	now := nowUTC()
	card.Status = domain.CardStatusArchived
	card.ClosedAt = &now

	if err := s.cardRepo.UpdateGuarded(ctx, card, card.Version); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, response.NewAppError(response.ErrCodeConflict, "Card was modified by someone else, reload and retry", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to close card", err.Error())
	}

	resp := dto.ToCardResponse(card)
	return &resp, nil
}

// DeleteCard removes a card and everything attached to it. Owner only.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, actorID, cardID uuid.UUID) error {
	card, err := s.loadCardForActor(ctx, cardID, actorID)
	if err != nil {
		return err
	}
	if card.OwnerID != actorID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the card owner can delete the card", "")
	}

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete card", err.Error())
	}
	return nil
}

// GetDashboard summarizes the actor's board: card counts per status plus
// unread comment and notification badges
func (s *cardServiceImpl) GetDashboard(ctx context.Context, actorID uuid.UUID) (*dto.DashboardResponse, error) {
	counts, err := s.cardRepo.CountByStatus(ctx, actorID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card counts", err.Error())
	}

	resp := &dto.DashboardResponse{
		StatusCounts: map[string]int64{
			string(domain.CardStatusPending):    0,
			string(domain.CardStatusInProgress): 0,
			string(domain.CardStatusCompleted):  0,
			string(domain.CardStatusArchived):   0,
		},
	}
	for _, count := range counts {
		resp.StatusCounts[string(count.Status)] = count.Count
	}

	if unread, err := s.readStatusService.GlobalUnreadCount(ctx, actorID); err == nil {
		resp.UnreadComments = unread
	}
	if unread, err := s.notiService.UnreadCount(ctx, actorID); err == nil {
		resp.UnreadNotifications = unread
	}
	return resp, nil
}
