package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shoplist/internal/model"
)

var allActions = []Action{
	ViewList,
	ViewItems,
	CreateItem,
	UpdateItemFull,
	UpdateItemStatusOnly,
	DeleteItem,
	DeleteAllItems,
	UpdateListTitle,
	DeleteList,
	ManageMembers,
}

func TestAllowed_Matrix(t *testing.T) {
	tests := []struct {
		role    model.Role
		action  Action
		allowed bool
	}{
		{model.RoleRead, ViewList, true},
		{model.RoleRead, ViewItems, true},
		{model.RoleRead, UpdateItemStatusOnly, true},
		{model.RoleRead, CreateItem, false},
		{model.RoleRead, UpdateItemFull, false},
		{model.RoleRead, DeleteItem, false},
		{model.RoleRead, DeleteAllItems, false},
		{model.RoleRead, UpdateListTitle, false},
		{model.RoleRead, DeleteList, false},
		{model.RoleRead, ManageMembers, false},

		{model.RoleWrite, ViewList, true},
		{model.RoleWrite, CreateItem, true},
		{model.RoleWrite, UpdateItemFull, true},
		{model.RoleWrite, UpdateItemStatusOnly, true},
		{model.RoleWrite, DeleteItem, true},
		{model.RoleWrite, DeleteAllItems, true},
		{model.RoleWrite, UpdateListTitle, false},
		{model.RoleWrite, DeleteList, false},
		{model.RoleWrite, ManageMembers, false},

		{model.RoleOwner, UpdateListTitle, true},
		{model.RoleOwner, DeleteList, true},
		{model.RoleOwner, ManageMembers, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.allowed, Allowed(tt.role, tt.action))
		})
	}
}

// Stronger roles must never lose a permission a weaker role has.
func TestAllowed_Monotonic(t *testing.T) {
	order := []model.Role{model.RoleRead, model.RoleWrite, model.RoleOwner}
	for i := 1; i < len(order); i++ {
		weaker, stronger := order[i-1], order[i]
		for _, action := range allActions {
			if Allowed(weaker, action) {
				assert.True(t, Allowed(stronger, action),
					"%s allows %s but %s does not", weaker, action, stronger)
			}
		}
	}
}

func TestAllowed_UnknownInputs(t *testing.T) {
	for _, action := range allActions {
		assert.False(t, Allowed(model.Role("ADMIN"), action))
		assert.False(t, Allowed(model.Role(""), action))
	}
	assert.False(t, Allowed(model.RoleOwner, Action("reboot")))
}

func TestAllowedFor_NilMembership(t *testing.T) {
	for _, action := range allActions {
		assert.False(t, AllowedFor(nil, action))
	}
	m := &model.Membership{Role: model.RoleOwner}
	assert.True(t, AllowedFor(m, ManageMembers))
}
