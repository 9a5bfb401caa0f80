package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shoplist/internal/errors"
	"shoplist/internal/model"
	"shoplist/internal/service"
)

// ItemHandler handles shopping item endpoints.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItemRequest represents an item creation request.
type CreateItemRequest struct {
	Title    string `json:"title"`
	Quantity *int   `json:"quantity"`
	Unit     string `json:"unit"`
}

// UpdateItemRequest represents a partial item update. Absent fields are
// left unchanged; a status-only update is allowed for read-level members.
type UpdateItemRequest struct {
	Title    *string           `json:"title" validate:"omitempty,max=255"`
	Quantity *int              `json:"quantity"`
	Unit     *string           `json:"unit" validate:"omitempty,max=32"`
	Status   *model.ItemStatus `json:"status"`
}

// Items godoc
// @Summary Get all items of a list with their change history
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {array} service.ItemView
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items [get]
func (h *ItemHandler) Items(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.itemService.Items(c.Request().Context(), user, listID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get a single item with its change history
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param itemID path string true "Item ID"
// @Success 200 {object} service.ItemView
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items/{itemID} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathUUID(c, "itemID")
	if err != nil {
		return err
	}

	item, err := h.itemService.GetItem(c.Request().Context(), user, listID, itemID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create a new item (write access required)
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param request body CreateItemRequest true "Item data"
// @Success 201 {object} service.ItemView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items [post]
func (h *ItemHandler) CreateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.itemService.CreateItem(c.Request().Context(), user, listID, service.NewItem{
		Title:    req.Title,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update an item and record the previous state in its history
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param itemID path string true "Item ID"
// @Param request body UpdateItemRequest true "Fields to update"
// @Success 200 {object} service.ItemView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items/{itemID} [put]
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathUUID(c, "itemID")
	if err != nil {
		return err
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.itemService.UpdateItem(c.Request().Context(), user, listID, itemID, service.ItemPatch{
		Title:    req.Title,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Status:   req.Status,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an item with its history (write access required)
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param itemID path string true "Item ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items/{itemID} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathUUID(c, "itemID")
	if err != nil {
		return err
	}

	if err := h.itemService.DeleteItem(c.Request().Context(), user, listID, itemID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteAllItems godoc
// @Summary Delete all items of a list (write access required)
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lists/{id}/items [delete]
func (h *ItemHandler) DeleteAllItems(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	listID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.itemService.DeleteAllItems(c.Request().Context(), user, listID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}
