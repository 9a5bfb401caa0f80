package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoplist/internal/errors"
	"shoplist/internal/model"
	"shoplist/internal/service"
)

// MembershipHandler handles list membership endpoints.
type MembershipHandler struct {
	membershipService service.MembershipService
}

// NewMembershipHandler creates a new membership handler.
func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// AddMemberRequest represents a request to add a user to a list.
type AddMemberRequest struct {
	Username string `json:"username" validate:"required"`
}

// ChangeRoleRequest represents a role change for an existing member.
type ChangeRoleRequest struct {
	Role *model.Role `json:"role"`
}

// RoleResponse carries the caller's role on a list.
type RoleResponse struct {
	Role model.Role `json:"role"`
}

// Members godoc
// @Summary Get all members of a list
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {array} service.Member
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/members [get]
func (h *MembershipHandler) Members(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	members, err := h.membershipService.Members(c.Request().Context(), user, listID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, members)
}

// MyRole godoc
// @Summary Get the authenticated user's role on a list
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {object} RoleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/role [get]
func (h *MembershipHandler) MyRole(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	role, err := h.membershipService.Role(c.Request().Context(), user, listID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, RoleResponse{Role: role})
}

// AddMember godoc
// @Summary Add a user to a list with READ role (owner only)
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param request body AddMemberRequest true "Username to add"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /lists/{id}/members [post]
func (h *MembershipHandler) AddMember(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.membershipService.AddMember(c.Request().Context(), user, listID, req.Username); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "member added"})
}

// ChangeRole godoc
// @Summary Change a member's role (owner only)
// @Description Demoting the last owner of a list is rejected.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param userID path string true "Member user ID"
// @Param request body ChangeRoleRequest true "New role"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/members/{userID}/role [put]
func (h *MembershipHandler) ChangeRole(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := pathUUID(c, "userID")
	if err != nil {
		return err
	}

	var req ChangeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Role == nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrRoleRequired)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.membershipService.ChangeRole(c.Request().Context(), user, listID, targetID, *req.Role); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
}

// RemoveMember godoc
// @Summary Remove a member from a list (owner only)
// @Description Removing the last owner of a list is rejected.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param username path string true "Username to remove"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/members/{username} [delete]
func (h *MembershipHandler) RemoveMember(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	username := c.Param("username")

	if err := h.membershipService.RemoveMember(c.Request().Context(), user, listID, username); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// Leave godoc
// @Summary Leave a list
// @Description Leaving is rejected while the caller is the last owner.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/leave [delete]
func (h *MembershipHandler) Leave(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.membershipService.Leave(c.Request().Context(), user, listID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
