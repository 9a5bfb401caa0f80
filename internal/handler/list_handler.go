package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoplist/internal/errors"
	"shoplist/internal/service"
)

// ListHandler handles shopping list endpoints.
type ListHandler struct {
	listService service.ListService
}

// NewListHandler creates a new list handler.
func NewListHandler(listService service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// ListRequest represents a list create or rename request.
type ListRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// Lists godoc
// @Summary Get all lists the authenticated user is a member of
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ListSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /lists [get]
func (h *ListHandler) Lists(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	lists, err := h.listService.ListsForUser(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, lists)
}

// GetList godoc
// @Summary Get a single list
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {object} service.ListSummary
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id} [get]
func (h *ListHandler) GetList(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.listService.GetList(c.Request().Context(), user, listID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, list)
}

// CreateList godoc
// @Summary Create a new list owned by the authenticated user
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ListRequest true "List data"
// @Success 201 {object} service.ListSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /lists [post]
func (h *ListHandler) CreateList(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.listService.CreateList(c.Request().Context(), user, req.Title)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, list)
}

// UpdateList godoc
// @Summary Rename a list (owner only)
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param request body ListRequest true "New title"
// @Success 200 {object} service.ListSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id} [put]
func (h *ListHandler) UpdateList(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.listService.UpdateTitle(c.Request().Context(), user, listID, req.Title)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, list)
}

// DeleteList godoc
// @Summary Delete a list with its items and memberships (owner only)
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id} [delete]
func (h *ListHandler) DeleteList(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.listService.DeleteList(c.Request().Context(), user, listID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
