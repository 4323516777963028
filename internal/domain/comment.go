package domain

import "github.com/google/uuid"

// CommentType represents the kind of content a comment carries
type CommentType string

const (
	CommentTypeText  CommentType = "text"
	CommentTypeFile  CommentType = "file"
	CommentTypeImage CommentType = "image"
	CommentTypeLink  CommentType = "link"
)

// ValidCommentType reports whether t is one of the accepted comment types
func ValidCommentType(t CommentType) bool {
	switch t {
	case CommentTypeText, CommentTypeFile, CommentTypeImage, CommentTypeLink:
		return true
	}
	return false
}

// Comment represents a message on a sub-task. A comment carries a text
// message, file metadata returned by the storage service, or both; at least
// one must be present. ParentID references another comment on the same
// sub-task for threaded replies.
type Comment struct {
	BaseModel
	SubTaskID uuid.UUID   `gorm:"type:uuid;not null;index:idx_comments_sub_task_id" json:"sub_task_id"`
	AuthorID  uuid.UUID   `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	Type      CommentType `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	Message   *string     `gorm:"type:text" json:"message"`
	FilePath  *string     `gorm:"type:text" json:"file_path"`
	FileName  *string     `gorm:"type:varchar(255)" json:"file_name"`
	FileType  *string     `gorm:"type:varchar(100)" json:"file_type"`
	FileSize  *int64      `json:"file_size"`
	ParentID  *uuid.UUID  `gorm:"type:uuid;index:idx_comments_parent_id" json:"parent_id"`
	SubTask   SubTask     `gorm:"foreignKey:SubTaskID;constraint:OnDelete:CASCADE" json:"sub_task,omitempty"`
	Author    User        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Parent    *Comment    `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies   []Comment   `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// HasContent reports whether the comment carries a message or a file
func (c *Comment) HasContent() bool {
	if c.Message != nil && *c.Message != "" {
		return true
	}
	return c.FilePath != nil && *c.FilePath != ""
}
