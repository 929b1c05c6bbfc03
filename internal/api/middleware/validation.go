package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

const (
	// RequestIDKey is the echo context key holding the request id
	RequestIDKey = "request_id"

	maxBodyBytes = 1024 * 1024
)

// RequestValidation assigns a request id and rejects oversized bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			switch c.Request().Method {
			case http.MethodPost, http.MethodPatch, http.MethodPut:
				if c.Request().ContentLength > maxBodyBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}

// RequestID returns the id assigned by RequestValidation
func RequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
