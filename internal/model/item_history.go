package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemHistory is an immutable snapshot of an item taken at the moment of a
// content change, with the acting user's name. Rows are append-only: they are
// never updated and are removed only when their parent item is removed.
type ItemHistory struct {
	ID       uuid.UUID  `json:"-" gorm:"type:char(36);primaryKey"`
	ItemID   uuid.UUID  `json:"-" gorm:"type:char(36);not null;index"`
	Date     time.Time  `json:"date" gorm:"not null"`
	Title    string     `json:"title" gorm:"size:255;not null"`
	Quantity int        `json:"quantity" gorm:"not null"`
	Unit     string     `json:"unit" gorm:"size:32;not null"`
	Status   ItemStatus `json:"status" gorm:"type:varchar(10);not null"`
	Username string     `json:"username" gorm:"size:255;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (h *ItemHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
