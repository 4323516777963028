package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/dto"
	"task-board-api/internal/response"
	"task-board-api/internal/service"
)

type CollaboratorHandler struct {
	collaboratorService service.CollaboratorService
}

func NewCollaboratorHandler(collaboratorService service.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: collaboratorService,
	}
}

// InviteCollaborator godoc
// @Summary      Invite a collaborator by email
// @Description  Shares the card with another user. Owner only; inviting the same user twice is a no-op.
// @Tags         collaborators
// @Accept       json
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Param        request body dto.InviteCollaboratorRequest true "Email to invite"
// @Success      200 {object} response.SuccessResponse{data=dto.InviteCollaboratorResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse "No user with that email"
// @Failure      422 {object} response.ErrorResponse "Self-invite"
// @Security     BearerAuth
// @Router       /board/{cardId}/invite [post]
func (h *CollaboratorHandler) InviteCollaborator(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.InviteCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "A valid email address is required")
		return
	}

	result, err := h.collaboratorService.Invite(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// ListCollaborators godoc
// @Summary      List a card's collaborators
// @Tags         collaborators
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CollaboratorResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board/{cardId}/collaborators [get]
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	collaborators, err := h.collaboratorService.List(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, collaborators)
}

// RemoveCollaborator godoc
// @Summary      Remove a collaborator
// @Description  Owner only
// @Tags         collaborators
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Param        userId path string true "User ID to remove"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board/{cardId}/collaborators/{userId} [delete]
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	targetID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.collaboratorService.Remove(c.Request.Context(), userID, cardID, targetID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"removed": true})
}

// LeaveCard godoc
// @Summary      Leave a shared card
// @Description  Removes the caller from the card's collaborators. The owner cannot leave.
// @Tags         collaborators
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse "Not a collaborator"
// @Failure      422 {object} response.ErrorResponse "Owner cannot leave"
// @Security     BearerAuth
// @Router       /board/{cardId}/leave [delete]
func (h *CollaboratorHandler) LeaveCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	if err := h.collaboratorService.Leave(c.Request.Context(), userID, cardID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"left": true})
}
