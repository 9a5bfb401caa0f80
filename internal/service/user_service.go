package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"shoplist/internal/cache"
	"shoplist/internal/errors"
	"shoplist/internal/model"
	"shoplist/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ListWithRole pairs one of the user's lists with the role held on it.
type ListWithRole struct {
	ListID uuid.UUID  `json:"list_id"`
	Title  string     `json:"title"`
	Role   model.Role `json:"role"`
}

// Profile is a user's own account view: identity plus every list membership.
type Profile struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	Memberships []ListWithRole `json:"memberships"`
}

// ProfileUpdate carries the optional profile changes. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Username *string
	Password *string
}

// UserService exposes account operations for the authenticated user.
type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error)
	// DeleteAccount removes the user and their memberships. It is rejected
	// while the user is the last owner of any list.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	cache          *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(userRepo repository.UserRepository, membershipRepo repository.MembershipRepository, cache *cache.Client) UserService {
	return &userService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
	}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

// Profile returns the user's account view, serving from cache when possible.
func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if data, _ := s.cache.Get(ctx, profileCacheKey(userID)); data != nil {
		var cached Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, profileCacheKey(userID), payload, profileCacheTTL)
	}
	return profile, nil
}

func (s *userService) loadProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	lists := make([]ListWithRole, 0, len(memberships))
	for _, m := range memberships {
		lists = append(lists, ListWithRole{
			ListID: m.ListID,
			Title:  m.List.Title,
			Role:   m.Role,
		})
	}

	return &Profile{
		ID:          user.ID,
		Username:    user.Username,
		Memberships: lists,
	}, nil
}

// UpdateProfile applies the requested username and password changes.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	if update.Username != nil && *update.Username != "" && *update.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(ctx, *update.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, errors.ErrUsernameTaken
		}
		user.Username = *update.Username
	}

	if update.Password != nil && *update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(userID))

	logrus.WithField("user_id", userID).Info("profile updated")
	return s.loadProfile(ctx, userID)
}

// DeleteAccount removes the user unless the owner invariant would break.
// The last-owner check and the delete run in one transaction so a
// concurrent owner removal on one of the user's lists cannot slip between
// them.
func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.userRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		if _, err := txRepo.FindByID(ctx, userID); err != nil {
			return errors.ErrUserNotFound
		}

		soleOwned, err := txRepo.SoleOwnerships(ctx, userID)
		if err != nil {
			return fmt.Errorf("check ownerships: %w", err)
		}
		if len(soleOwned) > 0 {
			return errors.ErrOwnedListRemains
		}

		return txRepo.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, profileCacheKey(userID))
	logrus.WithField("user_id", userID).Info("account deleted")
	return nil
}
