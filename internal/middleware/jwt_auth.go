package middleware

import (
	"net/http"
	"strings"

	"github.com/arnab42/socialite/backend/internal/auth"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	UserIDKey = "userID"
	ClaimsKey = "user"
)

// JWTAuth checks for a valid bearer token and binds the resolved user
// identity into the request context.
func JWTAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			userID, claims, err := tokens.Verify(parts[1])
			if err != nil {
				if err == auth.ErrExpiredToken {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserIDKey, userID)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id bound by JWTAuth.
func CurrentUserID(c echo.Context) uint {
	id, _ := c.Get(UserIDKey).(uint)
	return id
}

// CurrentClaims returns the token claims bound by JWTAuth.
func CurrentClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(ClaimsKey).(*models.JwtCustomClaims)
	return claims
}
