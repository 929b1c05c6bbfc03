package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/middleware"
	"hirescore/internal/applications"
	"hirescore/internal/auth"
	"hirescore/internal/jobs"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

// toCustomError maps domain errors onto HTTP errors
func toCustomError(err error) *utils.CustomError {
	var (
		customErr     *utils.CustomError
		validationErr *applications.ValidationError
		transitionErr *applications.TransitionError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &customErr):
		return customErr
	case errors.As(err, &validationErr):
		return utils.NewValidationError(validationErr.Message, map[string]string{"field": validationErr.Field})
	case errors.As(err, &transitionErr):
		return utils.NewConflictError(transitionErr.Error())
	case errors.Is(err, applications.ErrInvalidStatus):
		return utils.NewValidationError("Invalid status", err.Error())
	case errors.Is(err, applications.ErrDuplicateApplication):
		return utils.NewConflictError("You have already applied for this job")
	case errors.Is(err, applications.ErrJobNotFound):
		return utils.NewNotFoundError("Job not found or no longer active")
	case errors.Is(err, applications.ErrApplicationNotFound):
		return utils.NewNotFoundError("Application not found")
	case errors.Is(err, applications.ErrAccessDenied):
		return utils.NewForbiddenError("You do not have access to this application")
	case errors.Is(err, jobs.ErrInvalidJob):
		return utils.NewValidationError("Validation failed", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return utils.NewUnauthorizedError("Invalid email or password")
	case errors.Is(err, auth.ErrUnauthenticated):
		return utils.NewUnauthorizedError("Unauthorized")
	case errors.Is(err, auth.ErrEmailTaken):
		return utils.NewConflictError("User with this email already exists")
	case errors.As(err, &httpErr):
		return &utils.CustomError{Code: httpErr.Code, Message: http.StatusText(httpErr.Code)}
	}
	return utils.NewInternalServerError("Internal server error")
}

// respondError writes err as an ErrorResponse. Server errors are logged with
// their cause, which is never sent to the client.
func respondError(c echo.Context, err error) error {
	customErr := toCustomError(err)
	requestID := middleware.RequestID(c)

	if customErr.Code >= http.StatusInternalServerError {
		logging.LogWithRequestID(requestID).Error("Request failed", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
	}

	return c.JSON(customErr.Code, models.ErrorResponse{
		Error:     customErr.Message,
		Details:   customErr.Detail,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// bindAndValidate decodes the body into req and runs its struct tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return utils.NewBadRequestError("Invalid request body")
	}
	if err := requestValidator.Struct(req); err != nil {
		return utils.NewValidationError("Validation failed", err.Error())
	}
	return nil
}
