package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationAction identifies what happened
type NotificationAction string

const (
	NotificationNewComment NotificationAction = "NEW_COMMENT"
)

// Notification is a per-recipient record of activity on a card the
// recipient participates in. It starts Unread and can only move to Read.
type Notification struct {
	BaseModel
	RecipientID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_notifications_recipient_id" json:"recipient_id"`
	ActorID        uuid.UUID          `gorm:"type:uuid;not null" json:"actor_id"`
	ActorName      string             `gorm:"type:varchar(255);not null" json:"actor_name"`
	Action         NotificationAction `gorm:"type:varchar(50);not null" json:"action"`
	CardID         uuid.UUID          `gorm:"type:uuid;not null" json:"card_id"`
	CardTitle      string             `gorm:"type:varchar(255);not null" json:"card_title"`
	SubTaskID      uuid.UUID          `gorm:"type:uuid;not null" json:"sub_task_id"`
	SubTaskName    string             `gorm:"type:varchar(255);not null" json:"sub_task_name"`
	MessagePreview string             `gorm:"type:varchar(100)" json:"message_preview"`
	Metadata       datatypes.JSON     `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead         bool               `gorm:"not null;default:false;index:idx_notifications_is_read" json:"is_read"`
	ReadAt         *time.Time         `gorm:"type:timestamp" json:"read_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
