package domain

// User represents an account that can own cards, collaborate and comment.
// Authentication itself is handled by the token issuer; the row exists so
// collaborators can be resolved by email and named in notifications.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
