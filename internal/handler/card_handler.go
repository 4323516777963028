package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/dto"
	"task-board-api/internal/response"
	"task-board-api/internal/service"
)

type CardHandler struct {
	cardService service.CardService
}

func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// GetBoard godoc
// @Summary      Get the user's board
// @Description  Returns the cards the user owns and the cards shared with them
// @Tags         board
// @Produce      json
// @Param        search query string false "Filter cards by title"
// @Param        includeClosed query bool false "Include archived cards"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardResponse}
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board [get]
func (h *CardHandler) GetBoard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	search := c.Query("search")
	includeClosed := c.Query("includeClosed") == "true"

	board, err := h.cardService.ListBoard(c.Request.Context(), userID, search, includeClosed)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// GetDashboard godoc
// @Summary      Get the user's dashboard summary
// @Description  Card counts per status plus unread comment and notification badges
// @Tags         board
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DashboardResponse}
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *CardHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.cardService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dashboard)
}

// CreateCard godoc
// @Summary      Create a card
// @Description  Creates a new card owned by the caller, optionally with initial sub-tasks
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCardRequest true "Card to create"
// @Success      201 {object} response.SuccessResponse{data=dto.CardResponse}
// @Failure      422 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, card)
}

// GetCard godoc
// @Summary      Get a card
// @Tags         cards
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Success      200 {object} response.SuccessResponse{data=dto.CardResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board/{cardId} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// UpdateCard godoc
// @Summary      Update a card
// @Description  Edits title, priority or deadline. Owner only; the request must carry the version last read.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Param        request body dto.UpdateCardRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.CardResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Version conflict or card closed"
// @Security     BearerAuth
// @Router       /board/{cardId} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// CloseCard godoc
// @Summary      Close a card
// @Description  Archives the card and freezes all further mutations. Owner only.
// @Tags         cards
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Success      200 {object} response.SuccessResponse{data=dto.CardResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Card already closed"
// @Security     BearerAuth
// @Router       /board/{cardId}/close [put]
func (h *CardHandler) CloseCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := h.cardService.CloseCard(c.Request.Context(), userID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// DeleteCard godoc
// @Summary      Delete a card
// @Description  Removes the card and everything attached to it. Owner only.
// @Tags         cards
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /board/{cardId} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), userID, cardID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
