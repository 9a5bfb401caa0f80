package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shoplist/internal/authz"
	"shoplist/internal/cache"
	"shoplist/internal/errors"
	"shoplist/internal/model"
	"shoplist/internal/repository"
)

const itemsCacheTTL = 2 * time.Minute

// ItemView is the caller-facing shape of an item: current state, author and
// the ordered audit trail, oldest entry first.
type ItemView struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Quantity    int                 `json:"quantity"`
	Unit        string              `json:"unit"`
	Status      model.ItemStatus    `json:"status"`
	LastUpdated time.Time           `json:"last_updated"`
	AuthorID    *uuid.UUID          `json:"author_id,omitempty"`
	AuthorName  string              `json:"author_name,omitempty"`
	History     []model.ItemHistory `json:"history"`
}

func viewOf(item *model.Item) ItemView {
	view := ItemView{
		ID:          item.ID,
		Title:       item.Title,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Status:      item.Status,
		LastUpdated: item.LastUpdated,
		AuthorID:    item.AuthorID,
		History:     item.History,
	}
	if view.History == nil {
		view.History = []model.ItemHistory{}
	}
	if item.Author != nil {
		view.AuthorName = item.Author.Username
	}
	return view
}

// NewItem carries the mandatory fields of an item to create.
type NewItem struct {
	Title    string
	Quantity *int
	Unit     string
}

// ItemPatch is a partial item update. Nil fields are absent from the
// request, which is what distinguishes a status-only update (granted to
// readers) from a full update (writers only).
type ItemPatch struct {
	Title    *string
	Quantity *int
	Unit     *string
	Status   *model.ItemStatus
}

// StatusOnly reports whether the patch touches nothing but the status.
func (p ItemPatch) StatusOnly() bool {
	return p.Status != nil && p.Title == nil && p.Quantity == nil && p.Unit == nil
}

// ItemService applies item mutations under role checks and records every
// accepted content change in the item's audit trail. The history entry is
// written in the same transaction as the mutation, so a rejected or failed
// mutation leaves no trace.
type ItemService interface {
	Items(ctx context.Context, actor *model.User, listID uuid.UUID) ([]ItemView, error)
	GetItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID) (*ItemView, error)
	CreateItem(ctx context.Context, actor *model.User, listID uuid.UUID, in NewItem) (*ItemView, error)
	UpdateItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID, patch ItemPatch) (*ItemView, error)
	DeleteItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID) error
	DeleteAllItems(ctx context.Context, actor *model.User, listID uuid.UUID) error
}

type itemService struct {
	itemRepo       repository.ItemRepository
	listRepo       repository.ListRepository
	membershipRepo repository.MembershipRepository
	cache          *cache.Client
}

// NewItemService creates a new item service.
func NewItemService(
	itemRepo repository.ItemRepository,
	listRepo repository.ListRepository,
	membershipRepo repository.MembershipRepository,
	cache *cache.Client,
) ItemService {
	return &itemService{
		itemRepo:       itemRepo,
		listRepo:       listRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
	}
}

func itemsCacheKey(listID uuid.UUID) string {
	return fmt.Sprintf("items:%s", listID)
}

// membershipOn resolves the list and the actor's membership on it. The
// membership may be nil for non-members; the list must exist.
func (s *itemService) membershipOn(ctx context.Context, actor *model.User, listID uuid.UUID) (*model.Membership, error) {
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}
	membership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	return membership, nil
}

// itemUnder resolves an item and verifies it belongs to the list. An item
// reached through the wrong list is reported as absent, not as foreign.
func (s *itemService) itemUnder(ctx context.Context, listID, itemID uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil || item.ListID != listID {
		return nil, errors.ErrItemNotFound
	}
	return item, nil
}

// snapshot captures the item's current state as one audit entry.
func snapshot(item *model.Item, username string) *model.ItemHistory {
	return &model.ItemHistory{
		Date:     item.LastUpdated,
		Title:    item.Title,
		Quantity: item.Quantity,
		Unit:     item.Unit,
		Status:   item.Status,
		Username: username,
	}
}

// Items returns the list's items with their history, serving from cache
// when possible.
func (s *itemService) Items(ctx context.Context, actor *model.User, listID uuid.UUID) ([]ItemView, error) {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return nil, err
	}
	if !authz.AllowedFor(membership, authz.ViewItems) {
		return nil, errors.ErrForbidden
	}

	if data, _ := s.cache.Get(ctx, itemsCacheKey(listID)); data != nil {
		var cached []ItemView
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.itemRepo.ListByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, viewOf(&items[i]))
	}

	if payload, err := json.Marshal(views); err == nil {
		_ = s.cache.Set(ctx, itemsCacheKey(listID), payload, itemsCacheTTL)
	}
	return views, nil
}

// GetItem returns one item with its history.
func (s *itemService) GetItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID) (*ItemView, error) {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return nil, err
	}
	if !authz.AllowedFor(membership, authz.ViewItems) {
		return nil, errors.ErrForbidden
	}

	item, err := s.itemUnder(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	view := viewOf(item)
	return &view, nil
}

// CreateItem adds an item with status OPEN and one audit entry mirroring
// the created state.
func (s *itemService) CreateItem(ctx context.Context, actor *model.User, listID uuid.UUID, in NewItem) (*ItemView, error) {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return nil, err
	}
	if !authz.AllowedFor(membership, authz.CreateItem) {
		return nil, errors.ErrForbidden
	}

	if in.Title == "" || in.Quantity == nil || in.Unit == "" {
		return nil, errors.ErrMissingFields
	}

	authorID := actor.ID
	item := &model.Item{
		ListID:      listID,
		Title:       in.Title,
		Quantity:    *in.Quantity,
		Unit:        in.Unit,
		Status:      model.ItemStatusOpen,
		LastUpdated: time.Now(),
		AuthorID:    &authorID,
	}

	if err := s.itemRepo.CreateWithHistory(ctx, item, snapshot(item, actor.Username)); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	_ = s.cache.Delete(ctx, itemsCacheKey(listID))

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"item_id": item.ID,
		"user_id": actor.ID,
	}).Info("item created")

	created, err := s.itemUnder(ctx, listID, item.ID)
	if err != nil {
		return nil, err
	}
	view := viewOf(created)
	return &view, nil
}

// UpdateItem applies a partial update. A patch touching only the status is
// open to readers; anything else needs write rights. Fields absent from the
// patch keep their prior values. Exactly one audit entry records the full
// post-update state.
func (s *itemService) UpdateItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID, patch ItemPatch) (*ItemView, error) {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return nil, err
	}
	if !authz.AllowedFor(membership, authz.ViewItems) {
		return nil, errors.ErrForbidden
	}

	action := authz.UpdateItemFull
	if patch.StatusOnly() {
		action = authz.UpdateItemStatusOnly
	}
	if !authz.AllowedFor(membership, action) {
		return nil, errors.ErrForbidden
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, errors.ErrMissingFields
	}

	item, err := s.itemUnder(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	item.LastUpdated = time.Now()

	// Save through a fresh struct so the preloaded history is not written back.
	updated := *item
	updated.History = nil
	if err := s.itemRepo.SaveWithHistory(ctx, &updated, snapshot(item, actor.Username)); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	_ = s.cache.Delete(ctx, itemsCacheKey(listID))

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"item_id": itemID,
		"user_id": actor.ID,
	}).Info("item updated")

	fresh, err := s.itemUnder(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	view := viewOf(fresh)
	return &view, nil
}

// DeleteItem removes an item together with its history.
func (s *itemService) DeleteItem(ctx context.Context, actor *model.User, listID, itemID uuid.UUID) error {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return err
	}
	if !authz.AllowedFor(membership, authz.DeleteItem) {
		return errors.ErrForbidden
	}

	item, err := s.itemUnder(ctx, listID, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, item); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	_ = s.cache.Delete(ctx, itemsCacheKey(listID))

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"item_id": itemID,
		"user_id": actor.ID,
	}).Info("item deleted")
	return nil
}

// DeleteAllItems clears the list. Deleting from an already-empty list is a
// successful no-op.
func (s *itemService) DeleteAllItems(ctx context.Context, actor *model.User, listID uuid.UUID) error {
	membership, err := s.membershipOn(ctx, actor, listID)
	if err != nil {
		return err
	}
	if !authz.AllowedFor(membership, authz.DeleteAllItems) {
		return errors.ErrForbidden
	}

	if err := s.itemRepo.DeleteByList(ctx, listID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	_ = s.cache.Delete(ctx, itemsCacheKey(listID))

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"user_id": actor.ID,
	}).Info("all items deleted")
	return nil
}
