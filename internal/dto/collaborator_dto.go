package dto

import (
	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// InviteCollaboratorRequest represents the request to invite a user to a
// card by email
type InviteCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CollaboratorResponse represents one collaborator of a card
type CollaboratorResponse struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// InviteCollaboratorResponse reports the outcome of an invitation.
// AlreadyMember is true when the user was invited before; the invite is
// idempotent and does not duplicate the link.
type InviteCollaboratorResponse struct {
	Collaborator  CollaboratorResponse `json:"collaborator"`
	AlreadyMember bool                 `json:"alreadyMember"`
}

// ToCollaboratorResponse converts a domain user to a collaborator entry
func ToCollaboratorResponse(user *domain.User) CollaboratorResponse {
	return CollaboratorResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}
}

// ToCollaboratorResponses converts a slice of domain users
func ToCollaboratorResponses(users []*domain.User) []CollaboratorResponse {
	responses := make([]CollaboratorResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToCollaboratorResponse(user))
	}
	return responses
}
