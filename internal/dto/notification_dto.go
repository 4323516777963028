package dto

import (
	"time"

	"github.com/google/uuid"

	"task-board-api/internal/domain"
)

// NotificationResponse represents the notification response
type NotificationResponse struct {
	NotificationID uuid.UUID  `json:"notificationId"`
	ActorID        uuid.UUID  `json:"actorId"`
	ActorName      string     `json:"actorName"`
	Action         string     `json:"action"`
	CardID         uuid.UUID  `json:"cardId"`
	CardTitle      string     `json:"cardTitle"`
	SubTaskID      uuid.UUID  `json:"subTaskId"`
	SubTaskName    string     `json:"subTaskName"`
	MessagePreview string     `json:"messagePreview,omitempty"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NotificationListResponse represents a page of a user's notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unreadCount"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// MarkAllReadResponse reports how many notifications were acknowledged
type MarkAllReadResponse struct {
	MarkedCount int64 `json:"markedCount"`
}

// ToNotificationResponse converts a domain notification to its response
// representation
func ToNotificationResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: notification.ID,
		ActorID:        notification.ActorID,
		ActorName:      notification.ActorName,
		Action:         string(notification.Action),
		CardID:         notification.CardID,
		CardTitle:      notification.CardTitle,
		SubTaskID:      notification.SubTaskID,
		SubTaskName:    notification.SubTaskName,
		MessagePreview: notification.MessagePreview,
		IsRead:         notification.IsRead,
		ReadAt:         notification.ReadAt,
		CreatedAt:      notification.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of domain notifications
func ToNotificationResponses(notifications []*domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, ToNotificationResponse(notification))
	}
	return responses
}
