package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubTask represents a checklist item belonging to exactly one card
type SubTask struct {
	BaseModel
	CardID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_sub_tasks_card_id" json:"card_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	IsDone      bool       `gorm:"not null;default:false" json:"is_done"`
	IsClosed    bool       `gorm:"not null;default:false" json:"is_closed"`
	ClosedAt    *time.Time `gorm:"type:timestamp" json:"closed_at"`
	CreatorID   *uuid.UUID `gorm:"type:uuid;index:idx_sub_tasks_creator_id" json:"creator_id"`
	Version     int64      `gorm:"not null;default:0" json:"version"`
	Card        Card       `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"card,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:SubTaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Histories   []SubTaskHistory `gorm:"foreignKey:SubTaskID;constraint:OnDelete:CASCADE" json:"histories,omitempty"`
}

// TableName specifies the table name for SubTask
func (SubTask) TableName() string {
	return "sub_tasks"
}

// HistoryAction represents what a user did to a sub-task checkbox
type HistoryAction string

const (
	HistoryActionChecked   HistoryAction = "checked"
	HistoryActionUnchecked HistoryAction = "unchecked"
)

// SubTaskHistory is an append-only audit record of sub-task toggles.
// Rows are never updated or deleted except by cascade.
type SubTaskHistory struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubTaskID uuid.UUID     `gorm:"type:uuid;not null;index:idx_sub_task_histories_sub_task_id" json:"sub_task_id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	Action    HistoryAction `gorm:"type:varchar(20);not null" json:"action"`
	Comment   *string       `gorm:"type:text" json:"comment"`
	CreatedAt time.Time     `gorm:"type:timestamp;not null" json:"created_at"`
	SubTask   SubTask       `gorm:"foreignKey:SubTaskID;constraint:OnDelete:CASCADE" json:"sub_task,omitempty"`
	User      User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for SubTaskHistory
func (SubTaskHistory) TableName() string {
	return "sub_task_histories"
}
