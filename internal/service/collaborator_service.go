package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/dto"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

// CollaboratorService defines the interface for card sharing business logic
type CollaboratorService interface {
	Invite(ctx context.Context, actorID, cardID uuid.UUID, req *dto.InviteCollaboratorRequest) (*dto.InviteCollaboratorResponse, error)
	Remove(ctx context.Context, actorID, cardID, userID uuid.UUID) error
	Leave(ctx context.Context, actorID, cardID uuid.UUID) error
	List(ctx context.Context, actorID, cardID uuid.UUID) ([]dto.CollaboratorResponse, error)
}

// collaboratorServiceImpl is the implementation of CollaboratorService
type collaboratorServiceImpl struct {
	cardRepo repository.CardRepository
	userRepo repository.UserRepository
}

// NewCollaboratorService creates a new instance of CollaboratorService
func NewCollaboratorService(cardRepo repository.CardRepository, userRepo repository.UserRepository) CollaboratorService {
	return &collaboratorServiceImpl{
		cardRepo: cardRepo,
		userRepo: userRepo,
	}
}

// Invite shares a card with another user looked up by email. Only the owner
// can invite, self-invites are rejected and inviting an existing
// collaborator is a no-op reported through AlreadyMember.
func (s *collaboratorServiceImpl) Invite(ctx context.Context, actorID, cardID uuid.UUID, req *dto.InviteCollaboratorRequest) (*dto.InviteCollaboratorResponse, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	if card.OwnerID != actorID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the card owner can invite collaborators", "")
	}
	if card.IsClosed() {
		return nil, response.NewAppError(response.ErrCodeResourceClosed, "Card is closed", "")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "No user with that email address", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up user", err.Error())
	}
	if user.ID == actorID {
		return nil, response.NewAppError(response.ErrCodeValidation, "You cannot invite yourself", "")
	}

	alreadyMember, err := s.cardRepo.IsCollaborator(ctx, cardID, user.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if !alreadyMember {
		if err := s.cardRepo.AddCollaborator(ctx, cardID, user.ID); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add collaborator", err.Error())
		}
	}

	return &dto.InviteCollaboratorResponse{
		Collaborator:  dto.ToCollaboratorResponse(user),
		AlreadyMember: alreadyMember,
	}, nil
}

// Remove revokes a collaborator's access to a card. Owner only.
func (s *collaboratorServiceImpl) Remove(ctx context.Context, actorID, cardID, userID uuid.UUID) error {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	if card.OwnerID != actorID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the card owner can remove collaborators", "")
	}
	if userID == card.OwnerID {
		return response.NewAppError(response.ErrCodeValidation, "The owner cannot be removed from their own card", "")
	}

	// Detaching a user who was never a collaborator succeeds without
	// touching anything.
	isMember, err := s.cardRepo.IsCollaborator(ctx, cardID, userID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if !isMember {
		return nil
	}

	if err := s.cardRepo.RemoveCollaborator(ctx, cardID, userID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove collaborator", err.Error())
	}
	return nil
}

// Leave lets the actor walk away from a card they were invited to.
// Owners and non-members are never in the collaborator set, so for them
// leaving succeeds without changing anything.
func (s *collaboratorServiceImpl) Leave(ctx context.Context, actorID, cardID uuid.UUID) error {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}
	if card.OwnerID == actorID {
		return nil
	}

	isMember, err := s.cardRepo.IsCollaborator(ctx, cardID, actorID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}
	if !isMember {
		return nil
	}

	if err := s.cardRepo.RemoveCollaborator(ctx, cardID, actorID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to leave card", err.Error())
	}
	return nil
}

// List returns the collaborators of a card. Any participant may look.
func (s *collaboratorServiceImpl) List(ctx context.Context, actorID, cardID uuid.UUID) ([]dto.CollaboratorResponse, error) {
	card, err := s.cardRepo.FindByIDWithRelations(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Card not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch card", err.Error())
	}

	allowed := card.OwnerID == actorID
	for _, collaborator := range card.Collaborators {
		if collaborator.ID == actorID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this card", "")
	}

	responses := make([]dto.CollaboratorResponse, 0, len(card.Collaborators))
	for i := range card.Collaborators {
		responses = append(responses, dto.ToCollaboratorResponse(&card.Collaborators[i]))
	}
	return responses, nil
}
