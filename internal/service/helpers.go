package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// cardAccessible reports whether the actor owns the card or collaborates on
// it. Requires Collaborators to be preloaded.
func cardAccessible(card *domain.Card, actorID uuid.UUID) bool {
	if card.OwnerID == actorID {
		return true
	}
	for _, collaborator := range card.Collaborators {
		if collaborator.ID == actorID {
			return true
		}
	}
	return false
}

// loadSubTaskForActor loads a sub-task with its card and verifies the actor
// may access it
func loadSubTaskForActor(ctx context.Context, subTaskRepo repository.SubTaskRepository, subTaskID, actorID uuid.UUID) (*domain.SubTask, error) {
	subTask, err := subTaskRepo.FindByIDWithCard(ctx, subTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Sub-task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch sub-task", err.Error())
	}
	if !cardAccessible(&subTask.Card, actorID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You do not have access to this sub-task", "")
	}
	return subTask, nil
}
