package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// List represents a shared shopping list. Deleting a list cascades to its
// memberships and items.
type List struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Memberships []Membership `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Items       []Item       `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
