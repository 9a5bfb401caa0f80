package main

import (
	"net/http"

	_ "shoplist/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"shoplist/internal/auth"
	"shoplist/internal/cache"
	"shoplist/internal/config"
	"shoplist/internal/db"
	"shoplist/internal/handler"
	"shoplist/internal/model"
	"shoplist/internal/repository"
	"shoplist/internal/router"
	"shoplist/internal/service"
)

// @title Shopping List API
// @version 1.0
// @description Shared shopping lists with per-list roles, item change history, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database init")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.List{},
		&model.Membership{},
		&model.Item{},
		&model.ItemHistory{},
	); err != nil {
		logrus.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	listRepo := repository.NewListRepository(gormDB)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, membershipRepo, cacheClient)
	listService := service.NewListService(listRepo, membershipRepo, cacheClient)
	membershipService := service.NewMembershipService(membershipRepo, userRepo, listRepo, cacheClient)
	itemService := service.NewItemService(itemRepo, listRepo, membershipRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	listHandler := handler.NewListHandler(listService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	itemHandler := handler.NewItemHandler(itemService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		listHandler,
		membershipHandler,
		itemHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server start")
	}
}
