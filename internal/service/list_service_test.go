package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"shoplist/internal/errors"
	"shoplist/internal/model"
)

func TestListService_GetList(t *testing.T) {
	listID := uuid.New()
	actor := &model.User{ID: stableUserID, Username: "alice"}

	t.Run("unknown list", func(t *testing.T) {
		mList := new(MockListRepository)
		mList.On("FindByID", mock.Anything, listID).Return(nil, gorm.ErrRecordNotFound)

		service := NewListService(mList, new(MockMembershipRepository), nil)
		summary, err := service.GetList(context.Background(), actor, listID)

		assert.Equal(t, errors.ErrListNotFound, err)
		assert.Nil(t, summary)
	})

	t.Run("existing list, non-member", func(t *testing.T) {
		mList := new(MockListRepository)
		mMembership := new(MockMembershipRepository)
		mList.On("FindByID", mock.Anything, listID).Return(&model.List{ID: listID, Title: "Groceries"}, nil)
		mMembership.On("FindByListAndUser", mock.Anything, listID, actor.ID).
			Return(nil, gorm.ErrRecordNotFound)

		service := NewListService(mList, mMembership, nil)
		summary, err := service.GetList(context.Background(), actor, listID)

		assert.Equal(t, errors.ErrForbidden, err)
		assert.Nil(t, summary)
	})

	t.Run("member gets the summary", func(t *testing.T) {
		mList := new(MockListRepository)
		mMembership := new(MockMembershipRepository)
		mList.On("FindByID", mock.Anything, listID).Return(&model.List{ID: listID, Title: "Groceries"}, nil)
		mMembership.On("FindByListAndUser", mock.Anything, listID, actor.ID).
			Return(&model.Membership{ListID: listID, UserID: actor.ID, Role: model.RoleRead}, nil)
		mMembership.On("CountByList", mock.Anything, listID).Return(int64(3), nil)

		service := NewListService(mList, mMembership, nil)
		summary, err := service.GetList(context.Background(), actor, listID)

		assert.NoError(t, err)
		assert.Equal(t, "Groceries", summary.Title)
		assert.Equal(t, int64(3), summary.MemberCount)
	})
}

func TestListService_CreateList(t *testing.T) {
	actor := &model.User{ID: stableUserID, Username: "alice"}

	t.Run("empty title", func(t *testing.T) {
		service := NewListService(new(MockListRepository), new(MockMembershipRepository), nil)
		summary, err := service.CreateList(context.Background(), actor, "")

		assert.Equal(t, errors.ErrMissingFields, err)
		assert.Nil(t, summary)
	})

	t.Run("creator becomes the first owner", func(t *testing.T) {
		mList := new(MockListRepository)
		mList.On("CreateWithOwner", mock.Anything, mock.MatchedBy(func(l *model.List) bool {
			return l.Title == "Groceries"
		}), actor.ID).Return(nil)

		service := NewListService(mList, new(MockMembershipRepository), nil)
		summary, err := service.CreateList(context.Background(), actor, "Groceries")

		assert.NoError(t, err)
		assert.Equal(t, "Groceries", summary.Title)
		assert.Equal(t, int64(1), summary.MemberCount)
		mList.AssertExpectations(t)
	})
}

func TestListService_UpdateTitle(t *testing.T) {
	listID := uuid.New()
	actor := &model.User{ID: stableUserID, Username: "alice"}

	t.Run("writer may not rename", func(t *testing.T) {
		mList := new(MockListRepository)
		mMembership := new(MockMembershipRepository)
		mList.On("FindByID", mock.Anything, listID).Return(&model.List{ID: listID, Title: "Groceries"}, nil)
		mMembership.On("FindByListAndUser", mock.Anything, listID, actor.ID).
			Return(&model.Membership{ListID: listID, UserID: actor.ID, Role: model.RoleWrite}, nil)

		service := NewListService(mList, mMembership, nil)
		summary, err := service.UpdateTitle(context.Background(), actor, listID, "New title")

		assert.Equal(t, errors.ErrForbidden, err)
		assert.Nil(t, summary)
	})

	t.Run("owner renames", func(t *testing.T) {
		mList := new(MockListRepository)
		mMembership := new(MockMembershipRepository)
		mList.On("FindByID", mock.Anything, listID).Return(&model.List{ID: listID, Title: "Groceries"}, nil)
		mMembership.On("FindByListAndUser", mock.Anything, listID, actor.ID).
			Return(&model.Membership{ListID: listID, UserID: actor.ID, Role: model.RoleOwner}, nil)
		mList.On("Update", mock.Anything, mock.MatchedBy(func(l *model.List) bool {
			return l.Title == "New title"
		})).Return(nil)
		mMembership.On("CountByList", mock.Anything, listID).Return(int64(2), nil)

		service := NewListService(mList, mMembership, nil)
		summary, err := service.UpdateTitle(context.Background(), actor, listID, "New title")

		assert.NoError(t, err)
		assert.Equal(t, "New title", summary.Title)
		mList.AssertExpectations(t)
	})
}
