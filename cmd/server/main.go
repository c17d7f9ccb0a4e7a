package main

import (
	"github.com/labstack/echo/v4"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/router"
	"github.com/arnab42/socialite/backend/pkg/config"
	"github.com/arnab42/socialite/backend/pkg/logger"
	"github.com/arnab42/socialite/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, tokens); err != nil {
		logger.Error.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
