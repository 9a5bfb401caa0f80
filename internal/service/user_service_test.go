package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shoplist/internal/errors"
	"shoplist/internal/model"
)

func TestUserService_Profile(t *testing.T) {
	listID := uuid.New()

	mUser := new(MockUserRepository)
	mMembership := new(MockMembershipRepository)
	mUser.On("FindByID", mock.Anything, stableUserID).
		Return(&model.User{ID: stableUserID, Username: "alice"}, nil)
	mMembership.On("ListByUser", mock.Anything, stableUserID).Return([]model.Membership{
		{
			ListID: listID,
			UserID: stableUserID,
			Role:   model.RoleOwner,
			List:   model.List{ID: listID, Title: "Groceries"},
		},
	}, nil)

	service := NewUserService(mUser, mMembership, nil)
	profile, err := service.Profile(context.Background(), stableUserID)

	assert.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Len(t, profile.Memberships, 1)
	assert.Equal(t, "Groceries", profile.Memberships[0].Title)
	assert.Equal(t, model.RoleOwner, profile.Memberships[0].Role)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("username collision", func(t *testing.T) {
		mUser := new(MockUserRepository)
		mUser.On("FindByID", mock.Anything, stableUserID).
			Return(&model.User{ID: stableUserID, Username: "alice"}, nil)
		mUser.On("ExistsByUsername", mock.Anything, "bob").Return(true, nil)

		service := NewUserService(mUser, new(MockMembershipRepository), nil)
		profile, err := service.UpdateProfile(context.Background(), stableUserID, ProfileUpdate{
			Username: strPtr("bob"),
		})

		assert.Equal(t, errors.ErrUsernameTaken, err)
		assert.Nil(t, profile)
	})

	t.Run("password change rehashes", func(t *testing.T) {
		user := &model.User{ID: stableUserID, Username: "alice", PasswordHash: "old-hash"}
		mUser := new(MockUserRepository)
		mMembership := new(MockMembershipRepository)
		mUser.On("FindByID", mock.Anything, stableUserID).Return(user, nil)
		mUser.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.PasswordHash != "old-hash" && u.PasswordHash != "new-password"
		})).Return(nil)
		mMembership.On("ListByUser", mock.Anything, stableUserID).Return([]model.Membership{}, nil)

		service := NewUserService(mUser, mMembership, nil)
		profile, err := service.UpdateProfile(context.Background(), stableUserID, ProfileUpdate{
			Password: strPtr("new-password"),
		})

		assert.NoError(t, err)
		assert.NotNil(t, profile)
		mUser.AssertExpectations(t)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Run("blocked while sole owner of a list", func(t *testing.T) {
		mUser := new(MockUserRepository)
		mUser.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mUser.On("FindByID", mock.Anything, stableUserID).
			Return(&model.User{ID: stableUserID, Username: "alice"}, nil)
		mUser.On("SoleOwnerships", mock.Anything, stableUserID).
			Return([]uuid.UUID{uuid.New()}, nil)

		service := NewUserService(mUser, new(MockMembershipRepository), nil)
		err := service.DeleteAccount(context.Background(), stableUserID)

		assert.Equal(t, errors.ErrOwnedListRemains, err)
		mUser.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("allowed when every owned list has another owner", func(t *testing.T) {
		mUser := new(MockUserRepository)
		mUser.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mUser.On("FindByID", mock.Anything, stableUserID).
			Return(&model.User{ID: stableUserID, Username: "alice"}, nil)
		mUser.On("SoleOwnerships", mock.Anything, stableUserID).Return([]uuid.UUID{}, nil)
		mUser.On("Delete", mock.Anything, stableUserID).Return(nil)

		service := NewUserService(mUser, new(MockMembershipRepository), nil)
		err := service.DeleteAccount(context.Background(), stableUserID)

		assert.NoError(t, err)
		mUser.AssertExpectations(t)
	})
}
