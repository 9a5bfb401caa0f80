package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoplist/internal/model"
)

// ItemRepository defines item and item-history persistence operations.
// History rows are written only through CreateWithHistory and
// SaveWithHistory, always in the same transaction as the item mutation they
// record, so item state and audit trail cannot diverge.
type ItemRepository interface {
	CreateWithHistory(ctx context.Context, item *model.Item, entry *model.ItemHistory) error
	SaveWithHistory(ctx context.Context, item *model.Item, entry *model.ItemHistory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListByList(ctx context.Context, listID uuid.UUID) ([]model.Item, error)
	Delete(ctx context.Context, item *model.Item) error
	DeleteByList(ctx context.Context, listID uuid.UUID) error
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// CreateWithHistory inserts the item and its first history entry atomically.
func (r *itemRepository) CreateWithHistory(ctx context.Context, item *model.Item, entry *model.ItemHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		entry.ItemID = item.ID
		return tx.Create(entry).Error
	})
}

// SaveWithHistory persists an updated item and appends one history entry
// atomically. Associations are never written back through the item.
func (r *itemRepository) SaveWithHistory(ctx context.Context, item *model.Item, entry *model.ItemHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		entry.ItemID = item.ID
		return tx.Create(entry).Error
	})
}

// FindByID finds an item with its author and history, oldest entry first.
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByList lists a list's items with authors and history, oldest entry first.
func (r *itemRepository) ListByList(ctx context.Context, listID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Where("list_id = ?", listID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an item. Its history goes with it via the database cascade.
func (r *itemRepository) Delete(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Delete(item).Error
}

// DeleteByList removes every item of a list. A no-op when the list is empty.
func (r *itemRepository) DeleteByList(ctx context.Context, listID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("list_id = ?", listID).Delete(&model.Item{}).Error
}
