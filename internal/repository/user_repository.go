package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoplist/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SoleOwnerships returns the IDs of lists where the user holds the only
	// OWNER membership. It takes row locks on the user's owner memberships so
	// that concurrent owner removals serialize against the check.
	SoleOwnerships(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// WithTransaction executes a function within a database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a user. Memberships are removed by the database cascade;
// items the user authored survive with a cleared author reference.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

// SoleOwnerships returns the lists where the user is the last remaining owner.
func (r *userRepository) SoleOwnerships(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var listIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("memberships.user_id = ? AND memberships.role = ?", userID, model.RoleOwner).
		Where("(SELECT COUNT(*) FROM memberships m2 WHERE m2.list_id = memberships.list_id AND m2.role = ?) <= 1", model.RoleOwner).
		Pluck("memberships.list_id", &listIDs).Error
	if err != nil {
		return nil, err
	}
	return listIDs, nil
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
