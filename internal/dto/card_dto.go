package dto

import (
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// CreateCardRequest represents the request to create a new card
// @Description Request body for creating a new card with optional initial sub-tasks
type CreateCardRequest struct {
	Title    string                 `json:"title" binding:"required,min=1,max=255"`
	Priority string                 `json:"priority" binding:"omitempty,oneof=Low Normal High"`
	Deadline *time.Time             `json:"deadline,omitempty"`
	SubTasks []CreateSubTaskRequest `json:"subTasks,omitempty" binding:"omitempty,dive"`
}

// UpdateCardRequest represents the request to update a card.
// Version must carry the version the client last read; a stale value is
// rejected with a conflict error.
type UpdateCardRequest struct {
	Title    *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Priority *string    `json:"priority" binding:"omitempty,oneof=Low Normal High"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Version  int64      `json:"version" binding:"min=0"`
}

// CardResponse represents the card response
type CardResponse struct {
	CardID            uuid.UUID              `json:"cardId"`
	OwnerID           uuid.UUID              `json:"ownerId"`
	OwnerName         string                 `json:"ownerName,omitempty"`
	Title             string                 `json:"title"`
	Priority          string                 `json:"priority"`
	Status            string                 `json:"status"`
	IsRevised         bool                   `json:"isRevised"`
	Deadline          *time.Time             `json:"deadline,omitempty"`
	ClosedAt          *time.Time             `json:"closedAt,omitempty"`
	Version           int64                  `json:"version"`
	TotalSubTasks     int                    `json:"totalSubTasks"`
	CompletedSubTasks int                    `json:"completedSubTasks"`
	SubTasks          []SubTaskResponse      `json:"subTasks,omitempty"`
	Collaborators     []CollaboratorResponse `json:"collaborators,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// BoardResponse represents the board listing split into owned cards and
// cards shared with the user
type BoardResponse struct {
	MyCards            []CardResponse `json:"myCards"`
	CollaboratingCards []CardResponse `json:"collaboratingCards"`
}

// DashboardResponse represents the per-user dashboard summary
type DashboardResponse struct {
	StatusCounts        map[string]int64 `json:"statusCounts"`
	UnreadComments      int64            `json:"unreadComments"`
	UnreadNotifications int64            `json:"unreadNotifications"`
}

// ToCardResponse converts a domain card to its response representation
func ToCardResponse(card *domain.Card) CardResponse {
	resp := CardResponse{
		CardID:    card.ID,
		OwnerID:   card.OwnerID,
		OwnerName: card.Owner.Name,
		Title:     card.Title,
		Priority:  string(card.Priority),
		Status:    string(card.Status),
		IsRevised: card.IsRevised,
		Deadline:  card.Deadline,
		ClosedAt:  card.ClosedAt,
		Version:   card.Version,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}

	resp.TotalSubTasks = len(card.SubTasks)
	for i := range card.SubTasks {
		if card.SubTasks[i].IsDone {
			resp.CompletedSubTasks++
		}
		resp.SubTasks = append(resp.SubTasks, ToSubTaskResponse(&card.SubTasks[i]))
	}
	for i := range card.Collaborators {
		resp.Collaborators = append(resp.Collaborators, ToCollaboratorResponse(&card.Collaborators[i]))
	}
	return resp
}

// ToCardResponses converts a slice of domain cards
func ToCardResponses(cards []*domain.Card) []CardResponse {
	responses := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, ToCardResponse(card))
	}
	return responses
}
