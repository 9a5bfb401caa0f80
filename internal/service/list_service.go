package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shoplist/internal/authz"
	"shoplist/internal/cache"
	"shoplist/internal/errors"
	"shoplist/internal/model"
	"shoplist/internal/repository"
)

// ListSummary is the caller-facing view of a list.
type ListSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	MemberCount int64     `json:"member_count"`
}

// ListService exposes shopping list operations. Every call receives the
// acting user explicitly; the service never reads ambient request state.
type ListService interface {
	ListsForUser(ctx context.Context, actor *model.User) ([]ListSummary, error)
	GetList(ctx context.Context, actor *model.User, listID uuid.UUID) (*ListSummary, error)
	CreateList(ctx context.Context, actor *model.User, title string) (*ListSummary, error)
	UpdateTitle(ctx context.Context, actor *model.User, listID uuid.UUID, title string) (*ListSummary, error)
	DeleteList(ctx context.Context, actor *model.User, listID uuid.UUID) error
}

type listService struct {
	listRepo       repository.ListRepository
	membershipRepo repository.MembershipRepository
	cache          *cache.Client
}

// NewListService creates a new list service.
func NewListService(listRepo repository.ListRepository, membershipRepo repository.MembershipRepository, cache *cache.Client) ListService {
	return &listService{
		listRepo:       listRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
	}
}

func (s *listService) summarize(ctx context.Context, list *model.List) (*ListSummary, error) {
	count, err := s.membershipRepo.CountByList(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	return &ListSummary{ID: list.ID, Title: list.Title, MemberCount: count}, nil
}

// ListsForUser returns summaries of every list the actor is a member of.
func (s *listService) ListsForUser(ctx context.Context, actor *model.User) ([]ListSummary, error) {
	memberships, err := s.membershipRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	summaries := make([]ListSummary, 0, len(memberships))
	for _, m := range memberships {
		summary, err := s.summarize(ctx, &m.List)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// GetList returns one list. Non-members are refused after the existence
// check, matching the membership-gated visibility of the other list routes.
func (s *listService) GetList(ctx context.Context, actor *model.User, listID uuid.UUID) (*ListSummary, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}

	membership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(membership, authz.ViewList) {
		return nil, errors.ErrForbidden
	}

	return s.summarize(ctx, list)
}

// CreateList creates a list with the actor as its first owner.
func (s *listService) CreateList(ctx context.Context, actor *model.User, title string) (*ListSummary, error) {
	if title == "" {
		return nil, errors.ErrMissingFields
	}

	list := &model.List{Title: title}
	if err := s.listRepo.CreateWithOwner(ctx, list, actor.ID); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(actor.ID))

	logrus.WithFields(logrus.Fields{
		"list_id": list.ID,
		"user_id": actor.ID,
	}).Info("list created")

	return &ListSummary{ID: list.ID, Title: list.Title, MemberCount: 1}, nil
}

// UpdateTitle renames a list. Owner only.
func (s *listService) UpdateTitle(ctx context.Context, actor *model.User, listID uuid.UUID, title string) (*ListSummary, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}

	membership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(membership, authz.UpdateListTitle) {
		return nil, errors.ErrForbidden
	}

	if title == "" {
		return nil, errors.ErrMissingFields
	}

	list.Title = title
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"user_id": actor.ID,
	}).Info("list renamed")

	return s.summarize(ctx, list)
}

// DeleteList removes a list with its memberships and items. Owner only.
func (s *listService) DeleteList(ctx context.Context, actor *model.User, listID uuid.UUID) error {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrListNotFound
		}
		return fmt.Errorf("find list: %w", err)
	}

	membership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(membership, authz.DeleteList) {
		return errors.ErrForbidden
	}

	if err := s.listRepo.Delete(ctx, list); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	_ = s.cache.Delete(ctx, itemsCacheKey(listID))

	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"user_id": actor.ID,
	}).Info("list deleted")
	return nil
}
