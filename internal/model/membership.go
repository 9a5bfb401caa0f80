package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the permission level a user holds on one list.
type Role string

const (
	RoleRead  Role = "READ"
	RoleWrite Role = "WRITE"
	RoleOwner Role = "OWNER"
)

// Level returns the position of the role in the permission order
// READ < WRITE < OWNER. Unknown roles rank below READ.
func (r Role) Level() int {
	switch r {
	case RoleRead:
		return 1
	case RoleWrite:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleRead || r == RoleWrite || r == RoleOwner
}

// Membership links a user to a list with a role. A user holds at most one
// role per list.
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ListID    uuid.UUID `json:"list_id" gorm:"type:char(36);not null;uniqueIndex:idx_list_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_list_user"`
	Role      Role      `json:"role" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	List List `json:"-" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
