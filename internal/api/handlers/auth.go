package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/middleware"
	"hirescore/internal/auth"
	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
)

func setSessionCookie(c echo.Context, cfg *config.Config, session *models.Session) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, cfg *config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignUpHandler handles POST /api/v1/auth/signup
func SignUpHandler(cfg *config.Config, svc *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SignUpRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		user, session, err := svc.SignUp(c.Request().Context(), req)
		if err != nil {
			return respondError(c, err)
		}

		setSessionCookie(c, cfg, session)
		return c.JSON(http.StatusCreated, models.AuthResponse{
			Message: "User created successfully",
			User:    user,
			Token:   session.Token,
		})
	}
}

// SignInHandler handles POST /api/v1/auth/signin
func SignInHandler(cfg *config.Config, svc *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SignInRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		user, session, err := svc.SignIn(c.Request().Context(), req)
		if err != nil {
			logging.LogWithRequestID(middleware.RequestID(c)).Info("Sign in rejected", map[string]interface{}{
				"error": err.Error(),
			})
			return respondError(c, err)
		}

		setSessionCookie(c, cfg, session)
		return c.JSON(http.StatusOK, models.AuthResponse{
			Message: "Signed in successfully",
			User:    user,
			Token:   session.Token,
		})
	}
}

// SignOutHandler handles POST /api/v1/auth/signout
func SignOutHandler(cfg *config.Config, svc *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := middleware.TokenFromRequest(c, cfg.Auth.CookieName)
		if err := svc.SignOut(c.Request().Context(), token); err != nil {
			return respondError(c, err)
		}

		clearSessionCookie(c, cfg)
		return c.JSON(http.StatusOK, map[string]string{"message": "Signed out successfully"})
	}
}

// MeHandler handles GET /api/v1/auth/me
func MeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user": middleware.CurrentUser(c),
		})
	}
}
