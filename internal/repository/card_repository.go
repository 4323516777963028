package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

// ErrVersionMismatch is returned when an optimistic-lock guarded write finds
// the row's version differs from the one the caller read.
var ErrVersionMismatch = errors.New("version mismatch")

// StatusCount is one row of the dashboard status breakdown
type StatusCount struct {
	Status domain.CardStatus `json:"status"`
	Count  int64             `json:"count"`
}

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindOwned(ctx context.Context, ownerID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error)
	FindCollaborating(ctx context.Context, userID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	UpdateGuarded(ctx context.Context, card *domain.Card, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecalculateStatus(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	AddCollaborator(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveCollaborator(ctx context.Context, cardID, userID uuid.UUID) error
	IsCollaborator(ctx context.Context, cardID, userID uuid.UUID) (bool, error)
	CollaboratorIDs(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) ([]StatusCount, error)
}

// cardRepositoryImpl is the GORM implementation of CardRepository
type cardRepositoryImpl struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepositoryImpl{db: db}
}

// Create creates a new card
func (r *cardRepositoryImpl) Create(ctx context.Context, card *domain.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a card by its ID without loading relations
func (r *cardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByIDWithRelations finds a card with its owner, sub-tasks and collaborators
func (r *cardRepositoryImpl) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators").
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sub_tasks.created_at ASC")
		}).
		First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func applyCardFilters(query *gorm.DB, search string, includeClosed bool) *gorm.DB {
	if search != "" {
		query = query.Where("LOWER(cards.title) LIKE LOWER(?)", "%"+search+"%")
	}
	if !includeClosed {
		query = query.Where("cards.closed_at IS NULL")
	}
	return query
}

// FindOwned finds all cards owned by the given user, newest first
func (r *cardRepositoryImpl) FindOwned(ctx context.Context, ownerID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error) {
	var cards []*domain.Card
	query := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators").
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sub_tasks.created_at ASC")
		}).
		Where("cards.owner_id = ?", ownerID)
	query = applyCardFilters(query, search, includeClosed)
	if err := query.Order("cards.created_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindCollaborating finds all cards the user collaborates on but does not own
func (r *cardRepositoryImpl) FindCollaborating(ctx context.Context, userID uuid.UUID, search string, includeClosed bool) ([]*domain.Card, error) {
	var cards []*domain.Card
	query := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators").
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sub_tasks.created_at ASC")
		}).
		Joins("JOIN card_collaborators cc ON cc.card_id = cards.id").
		Where("cc.user_id = ? AND cards.owner_id <> ?", userID, userID)
	query = applyCardFilters(query, search, includeClosed)
	if err := query.Order("cards.created_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Update saves the full card record
func (r *cardRepositoryImpl) Update(ctx context.Context, card *domain.Card) error {
	if err := r.db.WithContext(ctx).Save(card).Error; err != nil {
		return err
	}
	return nil
}

// UpdateGuarded updates the card's editable fields only if the stored version
// still matches expectedVersion, incrementing the version on success.
// Returns ErrVersionMismatch when another writer got there first.
func (r *cardRepositoryImpl) UpdateGuarded(ctx context.Context, card *domain.Card, expectedVersion int64) error {
	result := r.db.WithContext(ctx).Model(&domain.Card{}).
		Where("id = ? AND version = ?", card.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":      card.Title,
			"priority":   card.Priority,
			"deadline":   card.Deadline,
			"status":     card.Status,
			"is_revised": card.IsRevised,
			"closed_at":  card.ClosedAt,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Card{}).
			Where("id = ?", card.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrVersionMismatch
	}
	card.Version = expectedVersion + 1
	return nil
}

// Delete soft deletes a card by ID
func (r *cardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecalculateStatus re-derives the card's status and revision flag from its
// sub-task completion counts inside a single transaction. The write is
// guarded by the card's version so concurrent recalculations cannot clobber
// each other. Closed cards are left untouched.
func (r *cardRepositoryImpl) RecalculateStatus(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	var card *domain.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		card, txErr = recalculateStatusTx(tx, cardID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// recalculateStatusTx is the transaction body of RecalculateStatus. It runs
// inside the caller's transaction so a sub-task write and the resulting card
// status can commit together.
func recalculateStatusTx(tx *gorm.DB, cardID uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
		return nil, err
	}
	if card.IsClosed() {
		return &card, nil
	}

	var total, completed int64
	if err := tx.Model(&domain.SubTask{}).
		Where("card_id = ?", cardID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.SubTask{}).
		Where("card_id = ? AND is_done = ?", cardID, true).Count(&completed).Error; err != nil {
		return nil, err
	}

	status, revised := domain.DeriveCardStatus(card.Status, card.IsRevised, int(total), int(completed))
	if status == card.Status && revised == card.IsRevised {
		return &card, nil
	}

	result := tx.Model(&domain.Card{}).
		Where("id = ? AND version = ?", cardID, card.Version).
		Updates(map[string]interface{}{
			"status":     status,
			"is_revised": revised,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrVersionMismatch
	}
	card.Status = status
	card.IsRevised = revised
	card.Version++
	return &card, nil
}

// AddCollaborator links a user to a card. Adding an existing collaborator
// is a no-op.
func (r *cardRepositoryImpl) AddCollaborator(ctx context.Context, cardID, userID uuid.UUID) error {
	card := domain.Card{BaseModel: domain.BaseModel{ID: cardID}}
	user := domain.User{BaseModel: domain.BaseModel{ID: userID}}
	return r.db.WithContext(ctx).Model(&card).Association("Collaborators").Append(&user)
}

// RemoveCollaborator unlinks a user from a card
func (r *cardRepositoryImpl) RemoveCollaborator(ctx context.Context, cardID, userID uuid.UUID) error {
	card := domain.Card{BaseModel: domain.BaseModel{ID: cardID}}
	user := domain.User{BaseModel: domain.BaseModel{ID: userID}}
	return r.db.WithContext(ctx).Model(&card).Association("Collaborators").Delete(&user)
}

// IsCollaborator reports whether the user is linked to the card
func (r *cardRepositoryImpl) IsCollaborator(ctx context.Context, cardID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("card_collaborators").
		Where("card_id = ? AND user_id = ?", cardID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CollaboratorIDs returns the IDs of all users linked to the card
func (r *cardRepositoryImpl) CollaboratorIDs(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Table("card_collaborators").
		Where("card_id = ?", cardID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByStatus returns the status breakdown of all cards the user owns or
// collaborates on
func (r *cardRepositoryImpl) CountByStatus(ctx context.Context, userID uuid.UUID) ([]StatusCount, error) {
	var counts []StatusCount
	if err := r.db.WithContext(ctx).Model(&domain.Card{}).
		Select("cards.status AS status, COUNT(*) AS count").
		Where("cards.owner_id = ? OR cards.id IN (SELECT card_id FROM card_collaborators WHERE user_id = ?)", userID, userID).
		Group("cards.status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
