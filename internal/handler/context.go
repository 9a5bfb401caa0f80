package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shoplist/internal/model"
)

// CurrentUserKey is the echo context key under which the authenticated
// user is stored by the router middleware.
const CurrentUserKey = "currentUser"

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(CurrentUserKey).(*model.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
