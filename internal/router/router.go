package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/handlers"
	"github.com/arnab42/socialite/backend/internal/middleware"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/arnab42/socialite/backend/internal/repositories"
	"github.com/arnab42/socialite/backend/pkg/logger"
	"github.com/arnab42/socialite/backend/pkg/metrics"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(metrics.Middleware())
	e.HTTPErrorHandler = jsonErrorHandler
	logger.Info.Println("Global middleware configured.")
}

// jsonErrorHandler renders every error as {"error": "..."} with its status
// code.
func jsonErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": message})
}

// SetupRoutes migrates the schema, wires dependencies and registers all
// application routes
func SetupRoutes(e *echo.Echo, db *gorm.DB, tokens *auth.TokenService) error {
	// Create tables at process start if absent
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		return err
	}
	logger.Info.Println("PostgreSQL auto-migrations completed for all models.")

	// Health and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", metrics.Handler())

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)

	jwtAuth := middleware.JWTAuth(tokens)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	authHandler.RegisterAuthRoutes(e.Group("/user"))
	logger.Info.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(e.Group("/user", jwtAuth))
	logger.Info.Println("User profile routes configured.")

	postHandler := handlers.NewPostHandler(postRepo)
	postHandler.RegisterPostRoutes(e.Group("/post", jwtAuth))
	logger.Info.Println("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(e.Group("/comment", jwtAuth))
	logger.Info.Println("Comment routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo)
	likeHandler.RegisterLikeRoutes(e.Group("/like", jwtAuth))
	logger.Info.Println("Like routes configured.")

	logger.Info.Println("All routes configured.")
	return nil
}
