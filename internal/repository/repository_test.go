package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the board schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	// Register callback to generate UUIDs for SQLite (since it doesn't support gen_random_uuid())
	db.Callback().Create().Before("gorm:create").Register("generate_uuid", func(db *gorm.DB) {
		if db.Statement.Schema != nil {
			for _, field := range db.Statement.Schema.PrimaryFields {
				if field.DataType == "uuid" {
					fieldValue := field.ReflectValueOf(db.Statement.Context, db.Statement.ReflectValue)
					if fieldValue.IsZero() {
						field.Set(db.Statement.Context, db.Statement.ReflectValue, uuid.New())
					}
				}
			}
		}
	})

	// Create tables manually for SQLite compatibility
	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE cards (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'Normal',
			status TEXT NOT NULL DEFAULT 'Pending',
			deadline DATETIME,
			closed_at DATETIME,
			is_revised INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE card_collaborators (
			card_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			PRIMARY KEY (card_id, user_id)
		)`,
		`CREATE TABLE sub_tasks (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME,
			card_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			is_done INTEGER NOT NULL DEFAULT 0,
			is_closed INTEGER NOT NULL DEFAULT 0,
			closed_at DATETIME,
			creator_id TEXT,
			version INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE sub_task_histories (
			id TEXT PRIMARY KEY,
			sub_task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			comment TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE comments (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME,
			sub_task_id TEXT NOT NULL,
			author_id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'text',
			message TEXT,
			file_path TEXT,
			file_name TEXT,
			file_type TEXT,
			file_size INTEGER,
			parent_id TEXT
		)`,
		`CREATE TABLE subtask_read_statuses (
			id TEXT PRIMARY KEY,
			sub_task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			last_read_at DATETIME NOT NULL,
			last_comment_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(sub_task_id, user_id)
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME,
			recipient_id TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			actor_name TEXT NOT NULL,
			action TEXT NOT NULL,
			card_id TEXT NOT NULL,
			card_title TEXT NOT NULL,
			sub_task_id TEXT NOT NULL,
			sub_task_name TEXT NOT NULL,
			message_preview TEXT,
			metadata TEXT,
			is_read INTEGER NOT NULL DEFAULT 0,
			read_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error, "Failed to create table")
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCard(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) *domain.Card {
	t.Helper()
	card := &domain.Card{
		OwnerID:  ownerID,
		Title:    title,
		Priority: domain.PriorityNormal,
		Status:   domain.CardStatusPending,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func seedSubTask(t *testing.T, db *gorm.DB, cardID uuid.UUID, name string, done bool) *domain.SubTask {
	t.Helper()
	subTask := &domain.SubTask{
		CardID: cardID,
		Name:   name,
		IsDone: done,
	}
	require.NoError(t, db.Create(subTask).Error)
	return subTask
}

func seedComment(t *testing.T, db *gorm.DB, subTaskID, authorID uuid.UUID, message string, createdAt time.Time) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{
		BaseModel: domain.BaseModel{
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		SubTaskID: subTaskID,
		AuthorID:  authorID,
		Type:      domain.CommentTypeText,
		Message:   &message,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
