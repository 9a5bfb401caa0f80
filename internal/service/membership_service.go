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

// Member is the caller-facing view of one membership.
type Member struct {
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// MembershipService manages who belongs to a list and with which role. All
// role-reducing and membership-removing operations enforce the owner
// invariant: a list with members always retains at least one OWNER.
type MembershipService interface {
	Members(ctx context.Context, actor *model.User, listID uuid.UUID) ([]Member, error)
	Role(ctx context.Context, actor *model.User, listID uuid.UUID) (model.Role, error)
	AddMember(ctx context.Context, actor *model.User, listID uuid.UUID, username string) error
	ChangeRole(ctx context.Context, actor *model.User, listID, targetUserID uuid.UUID, newRole model.Role) error
	RemoveMember(ctx context.Context, actor *model.User, listID uuid.UUID, username string) error
	Leave(ctx context.Context, actor *model.User, listID uuid.UUID) error
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	listRepo       repository.ListRepository
	cache          *cache.Client
}

// NewMembershipService creates a new membership service.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	listRepo repository.ListRepository,
	cache *cache.Client,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		listRepo:       listRepo,
		cache:          cache,
	}
}

// Members returns the memberships of a list. Non-members get a not-found,
// not a forbidden: whether the list exists is not theirs to learn.
func (s *membershipService) Members(ctx context.Context, actor *model.User, listID uuid.UUID) ([]Member, error) {
	if _, err := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID); err != nil {
		return nil, errors.ErrListNotFound
	}

	memberships, err := s.membershipRepo.ListByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, Member{
			UserID:   m.UserID,
			Username: m.User.Username,
			Role:     m.Role,
		})
	}
	return members, nil
}

// Role returns the actor's own role on a list, not-found for non-members.
func (s *membershipService) Role(ctx context.Context, actor *model.User, listID uuid.UUID) (model.Role, error) {
	if _, err := s.listRepo.FindByID(ctx, listID); err != nil {
		return "", errors.ErrListNotFound
	}

	membership, err := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if err != nil {
		return "", errors.ErrListNotFound
	}
	return membership.Role, nil
}

// AddMember adds an existing user to the list with role READ. Escalation is
// a separate, explicit ChangeRole.
func (s *membershipService) AddMember(ctx context.Context, actor *model.User, listID uuid.UUID, username string) error {
	actorMembership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(actorMembership, authz.ManageMembers) {
		return errors.ErrForbidden
	}

	if username == "" {
		return errors.ErrMissingFields
	}

	target, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	exists, err := s.membershipRepo.Exists(ctx, listID, target.ID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if exists {
		return errors.ErrAlreadyMember
	}

	membership := &model.Membership{
		ListID: listID,
		UserID: target.ID,
		Role:   model.RoleRead,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(target.ID))

	logrus.WithFields(logrus.Fields{
		"list_id":  listID,
		"user_id":  target.ID,
		"added_by": actor.ID,
	}).Info("member added")
	return nil
}

// ChangeRole sets the target's role. Demoting the last owner is refused; the
// owner count and the row update happen in one transaction so concurrent
// demotions cannot jointly strip the last owner.
func (s *membershipService) ChangeRole(ctx context.Context, actor *model.User, listID, targetUserID uuid.UUID, newRole model.Role) error {
	actorMembership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(actorMembership, authz.ManageMembers) {
		return errors.ErrForbidden
	}

	if !newRole.Valid() {
		return errors.ErrRoleRequired
	}

	err := s.membershipRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.MembershipRepository) error {
		target, err := txRepo.FindByListAndUser(ctx, listID, targetUserID)
		if err != nil {
			return errors.ErrMemberNotFound
		}

		if target.Role == model.RoleOwner && newRole != model.RoleOwner {
			owners, err := txRepo.CountOwnersForUpdate(ctx, listID)
			if err != nil {
				return fmt.Errorf("count owners: %w", err)
			}
			if owners <= 1 {
				return errors.ErrLastOwner
			}
		}

		target.Role = newRole
		return txRepo.Update(ctx, target)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(targetUserID))
	logrus.WithFields(logrus.Fields{
		"list_id":    listID,
		"user_id":    targetUserID,
		"role":       newRole,
		"changed_by": actor.ID,
	}).Info("member role changed")
	return nil
}

// RemoveMember removes the named user from the list, unless that would
// leave the list ownerless.
func (s *membershipService) RemoveMember(ctx context.Context, actor *model.User, listID uuid.UUID, username string) error {
	actorMembership, _ := s.membershipRepo.FindByListAndUser(ctx, listID, actor.ID)
	if !authz.AllowedFor(actorMembership, authz.ManageMembers) {
		return errors.ErrForbidden
	}

	if username == "" {
		return errors.ErrMissingFields
	}

	target, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.removeMembership(ctx, listID, target.ID); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(target.ID))
	logrus.WithFields(logrus.Fields{
		"list_id":    listID,
		"user_id":    target.ID,
		"removed_by": actor.ID,
	}).Info("member removed")
	return nil
}

// Leave removes the actor's own membership, unless the actor is the last
// owner.
func (s *membershipService) Leave(ctx context.Context, actor *model.User, listID uuid.UUID) error {
	if err := s.removeMembership(ctx, listID, actor.ID); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(actor.ID))
	logrus.WithFields(logrus.Fields{
		"list_id": listID,
		"user_id": actor.ID,
	}).Info("member left list")
	return nil
}

// removeMembership deletes one membership with the owner-invariant guard
// and the delete in a single transaction.
func (s *membershipService) removeMembership(ctx context.Context, listID, userID uuid.UUID) error {
	return s.membershipRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.MembershipRepository) error {
		membership, err := txRepo.FindByListAndUser(ctx, listID, userID)
		if err != nil {
			return errors.ErrMemberNotFound
		}

		if membership.Role == model.RoleOwner {
			owners, err := txRepo.CountOwnersForUpdate(ctx, listID)
			if err != nil {
				return fmt.Errorf("count owners: %w", err)
			}
			if owners <= 1 {
				return errors.ErrLastOwner
			}
		}

		return txRepo.Delete(ctx, membership)
	})
}
