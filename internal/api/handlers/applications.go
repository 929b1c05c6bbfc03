package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/middleware"
	"hirescore/internal/api/validation"
	"hirescore/internal/applications"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

var requestValidator = validation.New()

// SubmitApplicationHandler handles POST /api/v1/applications. The endpoint is
// public; a signed-in candidate is linked to the application.
func SubmitApplicationHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.SubmitApplicationRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, utils.NewBadRequestError("Invalid request body"))
		}

		var candidateID *string
		if user := middleware.CurrentUser(c); user != nil && user.Role == models.RoleCandidate {
			candidateID = &user.ID
		}

		logger.Info("Processing application submission", map[string]interface{}{
			"job_id":        req.JobID,
			"authenticated": candidateID != nil,
			"resume_chars":  len(req.ResumeText),
		})

		result, err := svc.Submit(c.Request().Context(), &req, candidateID)
		if err != nil {
			logger.Info("Application rejected", map[string]interface{}{
				"job_id": req.JobID,
				"error":  err.Error(),
			})
			return respondError(c, err)
		}

		response := models.SubmitApplicationResponse{
			Message:             "Application submitted successfully",
			ApplicationID:       result.Application.ID,
			EvaluationCompleted: result.EvaluationCompleted,
		}
		if result.EvaluationCompleted {
			response.Scores = &models.ScoreSummary{
				ResumeScore:      result.Score.ResumeScore,
				CoverLetterScore: result.Score.CoverLetterScore,
				OverallScore:     result.Score.OverallScore,
			}
		}

		return c.JSON(http.StatusCreated, response)
	}
}

// UpdateApplicationStatusHandler handles PATCH /api/v1/applications/:id
func UpdateApplicationStatusHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateApplicationStatusRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, utils.NewBadRequestError("Invalid request body"))
		}

		user := middleware.CurrentUser(c)
		status, err := svc.UpdateStatus(c.Request().Context(), c.Param("id"), user.ID, req.Status)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.UpdateApplicationStatusResponse{
			Message: "Application status updated successfully",
			Status:  status,
		})
	}
}

// GetApplicationHandler handles GET /api/v1/applications/:id
func GetApplicationHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		detail, err := svc.Get(c.Request().Context(), c.Param("id"), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, detail)
	}
}

// ListJobApplicationsHandler handles GET /api/v1/jobs/:id/applications
func ListJobApplicationsHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		list, err := svc.ListForJob(c.Request().Context(), c.Param("id"), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// ListApplicationsHandler handles GET /api/v1/applications. Employers get the
// applications across their jobs, optionally narrowed by ?jobId; candidates
// get their own.
func ListApplicationsHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)

		var (
			list []*models.ApplicationDetail
			err  error
		)
		if user.Role == models.RoleEmployer {
			list, err = svc.ListForEmployer(c.Request().Context(), user.ID, c.QueryParam("jobId"))
		} else {
			list, err = svc.ListForCandidate(c.Request().Context(), user.ID)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// DashboardHandler handles GET /api/v1/dashboard
func DashboardHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.CurrentUser(c)
		dashboard, err := svc.Dashboard(c.Request().Context(), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, dashboard)
	}
}
