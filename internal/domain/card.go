package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardPriority represents the priority of a card
type CardPriority string

const (
	PriorityLow    CardPriority = "Low"
	PriorityNormal CardPriority = "Normal"
	PriorityHigh   CardPriority = "High"
)

// CardStatus represents the lifecycle status of a card.
// Pending, InProgress and Completed are derived from sub-task completion;
// Archived is set only by an explicit close and is terminal.
type CardStatus string

const (
	CardStatusPending    CardStatus = "Pending"
	CardStatusInProgress CardStatus = "InProgress"
	CardStatusCompleted  CardStatus = "Completed"
	CardStatusArchived   CardStatus = "Archived"
)

// ValidPriority reports whether p is one of the accepted card priorities
func ValidPriority(p CardPriority) bool {
	return p == PriorityLow || p == PriorityNormal || p == PriorityHigh
}

// Card represents a board card owned by one user and shared with collaborators
type Card struct {
	BaseModel
	OwnerID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_cards_owner_id" json:"owner_id"`
	Title         string       `gorm:"type:varchar(255);not null" json:"title"`
	Priority      CardPriority `gorm:"type:varchar(20);not null;default:'Normal'" json:"priority"`
	Status        CardStatus   `gorm:"type:varchar(20);not null;default:'Pending';index:idx_cards_status" json:"status"`
	Deadline      *time.Time   `gorm:"type:timestamp" json:"deadline"`
	ClosedAt      *time.Time   `gorm:"type:timestamp;index:idx_cards_closed_at" json:"closed_at"`
	IsRevised     bool         `gorm:"not null;default:false" json:"is_revised"`
	Version       int64        `gorm:"not null;default:0" json:"version"`
	Owner         User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SubTasks      []SubTask    `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"sub_tasks,omitempty"`
	Collaborators []User       `gorm:"many2many:card_collaborators" json:"collaborators,omitempty"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "cards"
}

// IsClosed reports whether the card has been explicitly closed
func (c *Card) IsClosed() bool {
	return c.ClosedAt != nil
}

// DeriveCardStatus computes a card's aggregate status from its sub-task
// counts. prev/prevRevised are the card's current persisted values; the
// returned pair is what must be persisted after the triggering mutation.
//
// A card that regresses from Completed back to InProgress is flagged as
// revised until the next full completion or full reset.
func DeriveCardStatus(prev CardStatus, prevRevised bool, total, completed int) (CardStatus, bool) {
	switch {
	case total == 0 || completed == 0:
		return CardStatusPending, false
	case completed < total:
		if prev == CardStatusCompleted {
			return CardStatusInProgress, true
		}
		return CardStatusInProgress, prevRevised
	default:
		return CardStatusCompleted, false
	}
}
