package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/dto"
	"task-board-api/internal/response"
	"task-board-api/internal/service"
)

type SubTaskHandler struct {
	subTaskService    service.SubTaskService
	readStatusService service.ReadStatusService
}

func NewSubTaskHandler(subTaskService service.SubTaskService, readStatusService service.ReadStatusService) *SubTaskHandler {
	return &SubTaskHandler{
		subTaskService:    subTaskService,
		readStatusService: readStatusService,
	}
}

// AddSubTask godoc
// @Summary      Add a sub-task to a card
// @Tags         sub-tasks
// @Accept       json
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Param        request body dto.CreateSubTaskRequest true "Sub-task to create"
// @Success      201 {object} response.SuccessResponse{data=dto.SubTaskResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Card closed"
// @Security     BearerAuth
// @Router       /board/{cardId}/subtasks [post]
func (h *SubTaskHandler) AddSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	subTask, err := h.subTaskService.AddSubTask(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, subTask)
}

// BulkUpdateSubTasks godoc
// @Summary      Bulk update a card's sub-tasks
// @Description  Creates, updates and deletes sub-tasks in one request. Items are applied independently and failures are reported per item.
// @Tags         sub-tasks
// @Accept       json
// @Produce      json
// @Param        cardId path string true "Card ID"
// @Param        request body dto.BulkUpdateSubTasksRequest true "Sub-task changes"
// @Success      200 {object} response.SuccessResponse{data=dto.BulkUpdateSubTasksResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Card closed"
// @Security     BearerAuth
// @Router       /board/{cardId}/subtasks [put]
func (h *SubTaskHandler) BulkUpdateSubTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var req dto.BulkUpdateSubTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.subTaskService.BulkUpdate(c.Request.Context(), userID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// GetSubTask godoc
// @Summary      Get a sub-task with its comment thread
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.SubTaskDetailResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId} [get]
func (h *SubTaskHandler) GetSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	detail, err := h.subTaskService.GetSubTask(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, detail)
}

// ToggleSubTask godoc
// @Summary      Toggle a sub-task's completion state
// @Description  Flips the checkbox, records the toggle in the audit history and re-derives the card status
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ToggleSubTaskResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Closed or concurrently modified"
// @Security     BearerAuth
// @Router       /board/tasks/{subTaskId}/toggle [post]
func (h *SubTaskHandler) ToggleSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	result, err := h.subTaskService.Toggle(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// UpdateSubTask godoc
// @Summary      Update a sub-task
// @Tags         sub-tasks
// @Accept       json
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Param        request body dto.UpdateSubTaskRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.SubTaskResponse}
// @Failure      409 {object} response.ErrorResponse "Closed or version conflict"
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId} [put]
func (h *SubTaskHandler) UpdateSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	var req dto.UpdateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	subTask, err := h.subTaskService.UpdateSubTask(c.Request.Context(), userID, subTaskID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, subTask)
}

// CloseSubTask godoc
// @Summary      Close a sub-task
// @Description  Freezes the sub-task. Card owner only.
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.SubTaskResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Already closed"
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/close [put]
func (h *SubTaskHandler) CloseSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	subTask, err := h.subTaskService.CloseSubTask(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, subTask)
}

// DeleteSubTask godoc
// @Summary      Delete a sub-task
// @Description  Card owner or sub-task creator only. The card status is re-derived afterwards.
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId} [delete]
func (h *SubTaskHandler) DeleteSubTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	if err := h.subTaskService.DeleteSubTask(c.Request.Context(), userID, subTaskID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// GetSubTaskHistory godoc
// @Summary      Get a sub-task's toggle history
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=[]dto.SubTaskHistoryResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/history [get]
func (h *SubTaskHandler) GetSubTaskHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	histories, err := h.subTaskService.GetHistories(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, histories)
}

// MarkSubTaskRead godoc
// @Summary      Mark a sub-task's comments as read
// @Description  Advances the caller's read marker to now
// @Tags         sub-tasks
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.MarkReadResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/mark-read [post]
func (h *SubTaskHandler) MarkSubTaskRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	result, err := h.readStatusService.MarkRead(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// GetUnreadCommentCount godoc
// @Summary      Get the caller's global unread comment count
// @Tags         sub-tasks
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.UnreadCountResponse}
// @Security     BearerAuth
// @Router       /comments/unread-count [get]
func (h *SubTaskHandler) GetUnreadCommentCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.readStatusService.GlobalUnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.UnreadCountResponse{UnreadCount: count})
}
