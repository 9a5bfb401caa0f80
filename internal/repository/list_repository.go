package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shoplist/internal/model"
)

// ListRepository defines shopping list persistence operations.
type ListRepository interface {
	// CreateWithOwner creates a list and its first OWNER membership in one
	// transaction, so a list is never visible without an owner.
	CreateWithOwner(ctx context.Context, list *model.List, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.List, error)
	Update(ctx context.Context, list *model.List) error
	Delete(ctx context.Context, list *model.List) error
}

type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository.
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

// CreateWithOwner creates the list and the owner membership atomically.
func (r *listRepository) CreateWithOwner(ctx context.Context, list *model.List, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(list).Error; err != nil {
			return err
		}
		membership := &model.Membership{
			ListID: list.ID,
			UserID: ownerID,
			Role:   model.RoleOwner,
		}
		return tx.Create(membership).Error
	})
}

// FindByID finds a list by ID.
func (r *listRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Update updates an existing list.
func (r *listRepository) Update(ctx context.Context, list *model.List) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// Delete removes a list. Memberships, items and item history go with it via
// the database cascade.
func (r *listRepository) Delete(ctx context.Context, list *model.List) error {
	return r.db.WithContext(ctx).Delete(list).Error
}
