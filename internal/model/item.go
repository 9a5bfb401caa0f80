package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemStatus represents the completion state of an item.
type ItemStatus string

const (
	ItemStatusOpen ItemStatus = "OPEN"
	ItemStatusDone ItemStatus = "DONE"
)

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	return s == ItemStatusOpen || s == ItemStatusDone
}

// Item is one entry on a shopping list. The author reference is
// informational only; it never gates access.
type Item struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	ListID      uuid.UUID  `json:"list_id" gorm:"type:char(36);not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Quantity    int        `json:"quantity" gorm:"not null"`
	Unit        string     `json:"unit" gorm:"size:32;not null"`
	Status      ItemStatus `json:"status" gorm:"type:varchar(10);not null;default:'OPEN'"`
	LastUpdated time.Time  `json:"last_updated" gorm:"not null"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty" gorm:"type:char(36)"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	List    List          `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Author  *User         `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	History []ItemHistory `json:"history,omitempty" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
