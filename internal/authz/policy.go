// Package authz decides whether a membership role permits an action on a
// list. It is pure: no I/O, no request state, just the role matrix.
package authz

import "shoplist/internal/model"

// Action is an operation on a list, its memberships, or its items.
type Action string

const (
	ViewList             Action = "view_list"
	ViewItems            Action = "view_items"
	CreateItem           Action = "create_item"
	UpdateItemFull       Action = "update_item_full"
	UpdateItemStatusOnly Action = "update_item_status_only"
	DeleteItem           Action = "delete_item"
	DeleteAllItems       Action = "delete_all_items"
	UpdateListTitle      Action = "update_list_title"
	DeleteList           Action = "delete_list"
	ManageMembers        Action = "manage_members"
)

// minLevel maps each action to the weakest role level that may perform it.
// Expressing the matrix as minimum levels makes the role hierarchy
// (READ < WRITE < OWNER) hold by construction: anything granted to a role
// is granted to every stronger role.
var minLevel = map[Action]int{
	ViewList:             model.RoleRead.Level(),
	ViewItems:            model.RoleRead.Level(),
	UpdateItemStatusOnly: model.RoleRead.Level(),
	CreateItem:           model.RoleWrite.Level(),
	UpdateItemFull:       model.RoleWrite.Level(),
	DeleteItem:           model.RoleWrite.Level(),
	DeleteAllItems:       model.RoleWrite.Level(),
	UpdateListTitle:      model.RoleOwner.Level(),
	DeleteList:           model.RoleOwner.Level(),
	ManageMembers:        model.RoleOwner.Level(),
}

// Allowed reports whether a holder of role may perform action.
func Allowed(role model.Role, action Action) bool {
	min, ok := minLevel[action]
	if !ok {
		return false
	}
	return role.Level() >= min
}

// AllowedFor reports whether the holder of membership may perform action.
// A nil membership (non-member) is denied every action.
func AllowedFor(membership *model.Membership, action Action) bool {
	if membership == nil {
		return false
	}
	return Allowed(membership.Role, action)
}
