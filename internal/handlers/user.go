package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/middleware"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/arnab42/socialite/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests for the authenticated user's profile
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile routes on a protected group
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PATCH("/profile", h.PatchProfile)
	g.DELETE("/profile", h.DeleteProfile)
}

func profileResponse(user *models.User) echo.Map {
	return echo.Map{
		"id":            user.ID,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"email":         user.Email,
		"date_of_birth": user.DateOfBirth.Format(dateLayout),
		"gender":        user.Gender,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profileResponse(user))
}

// UpdateProfile replaces the authenticated user's profile (full-replace,
// all mutable fields required)
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.UpdateUserRequest
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

	if req.Email != user.Email {
		if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.DateOfBirth = dateOfBirth
	user.Gender = gender
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = hashed
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    profileResponse(user),
	})
}

// PatchProfile applies a partial update; fields absent from the payload
// keep their prior values
func (h *UserHandler) PatchProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		if *req.Email != user.Email {
			if _, err := h.userRepository.GetUserByEmail(*req.Email); err == nil {
				return echo.NewHTTPError(http.StatusConflict, "Email already exists")
			}
		}
		user.Email = *req.Email
	}
	if req.DateOfBirth != nil {
		dateOfBirth, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
		}
		user.DateOfBirth = dateOfBirth
	}
	if req.Gender != nil {
		gender := models.NormalizeGender(*req.Gender)
		if !models.ValidGender(gender) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid gender. Must be Male, Female, or Other")
		}
		user.Gender = gender
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = hashed
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    profileResponse(user),
	})
}

// DeleteProfile removes the authenticated user's row. Posts, comments and
// likes authored by the user are left in place.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.DeleteUser(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
