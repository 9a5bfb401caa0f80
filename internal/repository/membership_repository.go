package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shoplist/internal/model"
)

// MembershipRepository defines membership persistence operations.
type MembershipRepository interface {
	Create(ctx context.Context, membership *model.Membership) error
	Update(ctx context.Context, membership *model.Membership) error
	Delete(ctx context.Context, membership *model.Membership) error
	FindByListAndUser(ctx context.Context, listID, userID uuid.UUID) (*model.Membership, error)
	ListByList(ctx context.Context, listID uuid.UUID) ([]model.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	CountByList(ctx context.Context, listID uuid.UUID) (int64, error)
	Exists(ctx context.Context, listID, userID uuid.UUID) (bool, error)
	// CountOwnersForUpdate counts OWNER memberships of a list with a locking
	// read, so that two concurrent owner demotions cannot both observe a safe
	// pre-state. Call it inside WithTransaction.
	CountOwnersForUpdate(ctx context.Context, listID uuid.UUID) (int64, error)
	// WithTransaction executes a function within a database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo MembershipRepository) error) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership.
func (r *membershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// Update updates an existing membership.
func (r *membershipRepository) Update(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

// Delete removes a membership.
func (r *membershipRepository) Delete(ctx context.Context, membership *model.Membership) error {
	return r.db.WithContext(ctx).Delete(membership).Error
}

// FindByListAndUser finds the membership of a user on a list.
func (r *membershipRepository) FindByListAndUser(ctx context.Context, listID, userID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	if err := r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByList lists all memberships of a list with their users.
func (r *membershipRepository) ListByList(ctx context.Context, listID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	if err := r.db.WithContext(ctx).Preload("User").
		Where("list_id = ?", listID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUser lists all memberships of a user with their lists.
func (r *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	if err := r.db.WithContext(ctx).Preload("List").
		Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountByList counts the memberships of a list.
func (r *membershipRepository) CountByList(ctx context.Context, listID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("list_id = ?", listID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether a user is a member of a list.
func (r *membershipRepository) Exists(ctx context.Context, listID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("list_id = ? AND user_id = ?", listID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountOwnersForUpdate counts OWNER memberships with row-level locks.
func (r *membershipRepository) CountOwnersForUpdate(ctx context.Context, listID uuid.UUID) (int64, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("list_id = ? AND role = ?", listID, model.RoleOwner).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// WithTransaction executes a function within a database transaction.
func (r *membershipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo MembershipRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &membershipRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
