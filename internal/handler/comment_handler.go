package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-board-api/internal/client"
	"task-board-api/internal/dto"
	"task-board-api/internal/response"
	"task-board-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	storageClient  client.StorageClientInterface
}

func NewCommentHandler(commentService service.CommentService, storageClient client.StorageClientInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		storageClient:  storageClient,
	}
}

// CreateComment godoc
// @Summary      Comment on a sub-task
// @Description  Posts a comment carrying a message, uploaded file metadata, or both. Everyone else on the card is notified.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Param        request body dto.CreateCommentRequest true "Comment to create"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse}
// @Failure      409 {object} response.ErrorResponse "Sub-task or card closed"
// @Failure      422 {object} response.ErrorResponse "No message and no file"
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, subTaskID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      List a sub-task's comments
// @Description  Chronological order, with the caller's first unread position
// @Tags         comments
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentListResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), userID, subTaskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Description  Author only
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        commentId path string true "Comment ID"
// @Param        request body dto.UpdateCommentRequest true "New message"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentResponse}
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Author only
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// GetUploadURL godoc
// @Summary      Get a presigned upload URL for a comment attachment
// @Description  The client PUTs the file to the returned URL, then echoes the file key back as filePath when creating the comment
// @Tags         comments
// @Produce      json
// @Param        subTaskId path string true "Sub-task ID"
// @Param        fileName query string true "Original file name"
// @Param        contentType query string true "MIME type"
// @Success      200 {object} response.SuccessResponse
// @Failure      422 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /subtasks/{subTaskId}/attachments/presign [post]
func (h *CommentHandler) GetUploadURL(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	subTaskID, ok := parseUUIDParam(c, "subTaskId")
	if !ok {
		return
	}

	fileName := c.Query("fileName")
	contentType := c.Query("contentType")
	if fileName == "" || contentType == "" {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeValidation, "fileName and contentType query parameters are required")
		return
	}

	uploadURL, fileKey, err := h.storageClient.GeneratePresignedURL(c.Request.Context(), subTaskID, fileName, contentType)
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to generate upload URL")
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"uploadUrl": uploadURL,
		"filePath":  fileKey,
		"fileUrl":   h.storageClient.GetFileURL(fileKey),
	})
}
