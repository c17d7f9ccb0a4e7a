package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/arnab42/socialite/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// AuthHandler handles signup and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
	}
}

// RegisterAuthRoutes registers the unprotected authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
}

// Signup handles user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	gender := models.NormalizeGender(req.Gender)
	if !models.ValidGender(gender) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid gender. Must be Male, Female, or Other")
	}

	dateOfBirth, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dateOfBirth,
		Gender:      gender,
		Email:       req.Email,
		Password:    hashedPassword,
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		// The unique index catches the race where two signups pass the
		// pre-check concurrently.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully"})
}

// Login handles user authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.Password) {
		// Same response for unknown email and wrong password
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"access_token": token,
		"user_id":      user.ID,
	})
}
