package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"quantdesk/internal/domain"
)

// TokenResolver turns a bearer token into a user. The auth service
// implements this; demo and test tokens resolve without I/O, JWTs hit the
// user repository.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

const userContextKey = "session_user"

// Auth validates the bearer token (header or cookie) and puts the resolved
// user on the request context.
func Auth(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}

			user, err := resolver.ResolveToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRole gates a route group to the given roles. It assumes Auth ran
// first.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := GetUser(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found in context")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
		}
	}
}

// GetUser extracts the authenticated user from the echo context
func GetUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(userContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		// Fall back to the cookie set at login
		cookie, err := c.Cookie("token")
		if err != nil {
			return ""
		}
		return cookie.Value
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
