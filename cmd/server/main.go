package main

import (
	"log"
	"net/http"
	"os"

	_ "ratehub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ratehub/internal/auth"
	"ratehub/internal/cache"
	"ratehub/internal/config"
	"ratehub/internal/db"
	"ratehub/internal/handler"
	"ratehub/internal/model"
	"ratehub/internal/repository"
	"ratehub/internal/router"
	"ratehub/internal/service"
)

// @title Store Ratings API
// @version 1.0
// @description Store rating API with role-gated admin, user, and store-owner operations.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Rating{},
			&model.Store{},
			&model.Account{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models; the unique indexes on account email,
	// store email, and (account_id, store_id) are enforced here.
	if err := gormDB.AutoMigrate(
		&model.Account{},
		&model.Store{},
		&model.Rating{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	storeRepo := repository.NewStoreRepository(gormDB)
	ratingRepo := repository.NewRatingRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	authMiddleware := auth.NewMiddleware(accountRepo, tokenStore)

	// Initialize services
	authService := service.NewAuthService(accountRepo, jwtService, tokenStore)
	userService := service.NewUserService(accountRepo, storeRepo, ratingRepo)
	storeService := service.NewStoreService(storeRepo, ratingRepo)
	ratingService := service.NewRatingService(storeRepo, ratingRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService, storeService)
	storeHandler := handler.NewStoreHandler(storeService, ratingService)

	// Register routes
	router.Register(
		e,
		cfg,
		authMiddleware,
		authHandler,
		adminHandler,
		storeHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
