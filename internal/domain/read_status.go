package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubtaskReadStatus records the last moment a user read a sub-task's
// comment thread. One row per (sub-task, user); a missing row means the
// user has never read the thread.
type SubtaskReadStatus struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubTaskID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_read_statuses_sub_task_id;uniqueIndex:uq_read_statuses_sub_task_user" json:"sub_task_id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_read_statuses_user_id;uniqueIndex:uq_read_statuses_sub_task_user" json:"user_id"`
	LastReadAt    time.Time  `gorm:"type:timestamp;not null" json:"last_read_at"`
	LastCommentID *uuid.UUID `gorm:"type:uuid" json:"last_comment_id"`
	CreatedAt     time.Time  `gorm:"type:timestamp;not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"type:timestamp;not null" json:"updated_at"`
	SubTask       SubTask    `gorm:"foreignKey:SubTaskID;constraint:OnDelete:CASCADE" json:"sub_task,omitempty"`
	User          User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for SubtaskReadStatus
func (SubtaskReadStatus) TableName() string {
	return "subtask_read_statuses"
}
