package dto

import (
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// CreateCommentRequest represents the request to create a new comment.
// A comment must carry a message, file metadata, or both. File metadata is
// what the storage upload endpoint returned.
// @Description Request body for creating a comment on a sub-task
type CreateCommentRequest struct {
	Message  *string    `json:"message,omitempty" binding:"omitempty,max=10000"`
	Type     string     `json:"type,omitempty" binding:"omitempty,oneof=text file image link"`
	FilePath *string    `json:"filePath,omitempty"`
	FileName *string    `json:"fileName,omitempty" binding:"omitempty,max=255"`
	FileType *string    `json:"fileType,omitempty" binding:"omitempty,max=100"`
	FileSize *int64     `json:"fileSize,omitempty" binding:"omitempty,min=0"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// UpdateCommentRequest represents the request to update a comment's message
type UpdateCommentRequest struct {
	Message string `json:"message" binding:"required,min=1,max=10000"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	CommentID  uuid.UUID  `json:"commentId"`
	SubTaskID  uuid.UUID  `json:"subTaskId"`
	AuthorID   uuid.UUID  `json:"authorId"`
	AuthorName string     `json:"authorName,omitempty"`
	Type       string     `json:"type"`
	Message    *string    `json:"message,omitempty"`
	FilePath   *string    `json:"filePath,omitempty"`
	FileName   *string    `json:"fileName,omitempty"`
	FileType   *string    `json:"fileType,omitempty"`
	FileSize   *int64     `json:"fileSize,omitempty"`
	ParentID   *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CommentListResponse represents a sub-task's comment thread in
// chronological order
type CommentListResponse struct {
	Comments             []CommentResponse `json:"comments"`
	FirstUnreadCommentID *uuid.UUID        `json:"firstUnreadCommentId,omitempty"`
}

// ToCommentResponse converts a domain comment to its response representation
func ToCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		CommentID:  comment.ID,
		SubTaskID:  comment.SubTaskID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.Author.Name,
		Type:       string(comment.Type),
		Message:    comment.Message,
		FilePath:   comment.FilePath,
		FileName:   comment.FileName,
		FileType:   comment.FileType,
		FileSize:   comment.FileSize,
		ParentID:   comment.ParentID,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

// ToCommentResponses converts a slice of domain comments
func ToCommentResponses(comments []*domain.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, ToCommentResponse(comment))
	}
	return responses
}
