package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"shoplist/internal/config"
	"shoplist/internal/handler"
	"shoplist/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	listHandler *handler.ListHandler,
	membershipHandler *handler.MembershipHandler,
	itemHandler *handler.ItemHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), loadCurrentUser(userRepo))

	// Profile routes
	secured.GET("/profile", userHandler.Profile)
	secured.PUT("/profile", userHandler.UpdateProfile)
	secured.DELETE("/profile", userHandler.DeleteAccount)

	// List routes
	secured.GET("/lists", listHandler.Lists)
	secured.POST("/lists", listHandler.CreateList)
	secured.GET("/lists/:id", listHandler.GetList)
	secured.PUT("/lists/:id", listHandler.UpdateList)
	secured.DELETE("/lists/:id", listHandler.DeleteList)

	// Membership routes
	secured.GET("/lists/:id/role", membershipHandler.MyRole)
	secured.GET("/lists/:id/members", membershipHandler.Members)
	secured.POST("/lists/:id/members", membershipHandler.AddMember)
	secured.PUT("/lists/:id/members/:userID/role", membershipHandler.ChangeRole)
	secured.DELETE("/lists/:id/members/:username", membershipHandler.RemoveMember)
	secured.DELETE("/lists/:id/leave", membershipHandler.Leave)

	// Item routes
	secured.GET("/lists/:id/items", itemHandler.Items)
	secured.POST("/lists/:id/items", itemHandler.CreateItem)
	secured.DELETE("/lists/:id/items", itemHandler.DeleteAllItems)
	secured.GET("/lists/:id/items/:itemID", itemHandler.GetItem)
	secured.PUT("/lists/:id/items/:itemID", itemHandler.UpdateItem)
	secured.DELETE("/lists/:id/items/:itemID", itemHandler.DeleteItem)
}

// loadCurrentUser resolves the JWT subject to a persisted user and
// stores it in the request context for handlers.
func loadCurrentUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			rawID, ok := claims["user_id"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			userID, err := uuid.Parse(rawID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
