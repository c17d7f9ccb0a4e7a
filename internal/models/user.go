package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Gender values accepted for a user profile.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	FirstName     string     `json:"first_name" gorm:"size:50;not null"`
	LastName      string     `json:"last_name" gorm:"size:50;not null"`
	DateOfBirth   time.Time  `json:"-" gorm:"type:date;not null"`
	Gender        string     `json:"gender" gorm:"size:10;not null"`
	Email         string     `json:"email" gorm:"size:100;uniqueIndex;not null"` // Ensure email is unique across all users
	Password      string     `json:"-"`                                          // Store hashed password, ignore for JSON serialization
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"` // plain timestamp column, deletes stay hard
	SoftDeletedAt *time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// SignupRequest defines the request body for user registration
type SignupRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string `json:"last_name" validate:"required,min=1,max=50"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest defines the request body for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries a full profile replacement (PUT)
type UpdateUserRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string `json:"last_name" validate:"required,min=1,max=50"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password,omitempty"`
}

// PatchUserRequest carries a partial profile update (PATCH).
// Pointer fields distinguish "absent" from "empty".
type PatchUserRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string `json:"password,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

// NormalizeGender capitalizes the input so "male" and "MALE" both become "Male".
func NormalizeGender(g string) string {
	if g == "" {
		return g
	}
	return strings.ToUpper(g[:1]) + strings.ToLower(g[1:])
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}
