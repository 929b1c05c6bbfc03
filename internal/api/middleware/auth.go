package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/internal/logging"
	"hirescore/pkg/models"
)

const (
	userKey  = "user"
	tokenKey = "session_token"

	// LegacySessionCookie is accepted alongside the configured cookie name
	LegacySessionCookie = "session-token"
)

// Authenticator resolves a session token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// TokenFromRequest reads the session token from a Bearer header or a session cookie
func TokenFromRequest(c echo.Context, cookieName string) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	for _, name := range []string{cookieName, LegacySessionCookie} {
		if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}

// Session attaches the signed-in user to the context when a valid token is
// present. Requests without a session continue anonymously.
func Session(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c, cookieName)
			if token == "" {
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				logging.LogWithRequestID(RequestID(c)).Debug("Session not accepted", map[string]interface{}{
					"error": err.Error(),
				})
				return next(c)
			}

			c.Set(userKey, user)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user or nil
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// SessionToken returns the token that authenticated the request
func SessionToken(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthorized(c)
			}
			if user.Role != role {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{
					Error:     "Only " + strings.ToLower(string(role)) + "s can perform this action",
					RequestID: RequestID(c),
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "Unauthorized",
		RequestID: RequestID(c),
		Timestamp: time.Now(),
	})
}
