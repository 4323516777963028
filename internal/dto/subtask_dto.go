package dto

import (
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// CreateSubTaskRequest represents the request to add a sub-task to a card
type CreateSubTaskRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// UpdateSubTaskRequest represents the request to update a sub-task.
// Version must carry the version the client last read.
type UpdateSubTaskRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Version     int64   `json:"version" binding:"min=0"`
}

// BulkSubTaskItem is one entry of a bulk sub-task update. Items with an ID
// update an existing sub-task, items without one create a new sub-task, and
// Deleted removes the referenced sub-task.
type BulkSubTaskItem struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Name        string     `json:"name" binding:"omitempty,max=255"`
	Description string     `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsDone      bool       `json:"isDone"`
	Deleted     bool       `json:"deleted,omitempty"`
}

// BulkUpdateSubTasksRequest represents a bulk sub-task update of one card
type BulkUpdateSubTasksRequest struct {
	SubTasks []BulkSubTaskItem `json:"subTasks" binding:"required,min=1,dive"`
}

// BulkItemFailure describes one bulk item that could not be applied
type BulkItemFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkUpdateSubTasksResponse reports the outcome of a bulk update. Failed
// items do not roll back the ones that succeeded.
type BulkUpdateSubTasksResponse struct {
	Applied  int               `json:"applied"`
	Failures []BulkItemFailure `json:"failures,omitempty"`
	Card     CardResponse      `json:"card"`
}

// SubTaskResponse represents the sub-task response
type SubTaskResponse struct {
	SubTaskID   uuid.UUID  `json:"subTaskId"`
	CardID      uuid.UUID  `json:"cardId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsDone      bool       `json:"isDone"`
	IsClosed    bool       `json:"isClosed"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	CreatorID   *uuid.UUID `json:"creatorId,omitempty"`
	Version     int64      `json:"version"`
	UnreadCount int64      `json:"unreadCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SubTaskDetailResponse represents a sub-task with its comment thread
type SubTaskDetailResponse struct {
	SubTask              SubTaskResponse   `json:"subTask"`
	Comments             []CommentResponse `json:"comments"`
	FirstUnreadCommentID *uuid.UUID        `json:"firstUnreadCommentId,omitempty"`
}

// ToggleSubTaskResponse reports the toggled sub-task together with the
// card status derived from the new completion counts
type ToggleSubTaskResponse struct {
	SubTask    SubTaskResponse `json:"subTask"`
	CardStatus string          `json:"cardStatus"`
	IsRevised  bool            `json:"isRevised"`
}

// SubTaskHistoryResponse represents one toggle audit record
type SubTaskHistoryResponse struct {
	HistoryID uuid.UUID `json:"historyId"`
	SubTaskID uuid.UUID `json:"subTaskId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Action    string    `json:"action"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarkReadResponse confirms a read marker update
type MarkReadResponse struct {
	SubTaskID  uuid.UUID `json:"subTaskId"`
	LastReadAt time.Time `json:"lastReadAt"`
}

// UnreadCountResponse carries an unread counter
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

// ToSubTaskResponse converts a domain sub-task to its response representation
func ToSubTaskResponse(subTask *domain.SubTask) SubTaskResponse {
	return SubTaskResponse{
		SubTaskID:   subTask.ID,
		CardID:      subTask.CardID,
		Name:        subTask.Name,
		Description: subTask.Description,
		IsDone:      subTask.IsDone,
		IsClosed:    subTask.IsClosed,
		ClosedAt:    subTask.ClosedAt,
		CreatorID:   subTask.CreatorID,
		Version:     subTask.Version,
		CreatedAt:   subTask.CreatedAt,
		UpdatedAt:   subTask.UpdatedAt,
	}
}

// ToSubTaskHistoryResponse converts a domain history record
func ToSubTaskHistoryResponse(history *domain.SubTaskHistory) SubTaskHistoryResponse {
	return SubTaskHistoryResponse{
		HistoryID: history.ID,
		SubTaskID: history.SubTaskID,
		UserID:    history.UserID,
		UserName:  history.User.Name,
		Action:    string(history.Action),
		Comment:   history.Comment,
		CreatedAt: history.CreatedAt,
	}
}
