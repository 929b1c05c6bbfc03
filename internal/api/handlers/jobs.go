package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hirescore/internal/api/middleware"
	"hirescore/internal/jobs"
	"hirescore/pkg/models"
)

// ListJobsHandler handles GET /api/v1/jobs
func ListJobsHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListActive(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetJobHandler handles GET /api/v1/jobs/:id
func GetJobHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := svc.GetActive(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

// CreateJobHandler handles POST /api/v1/jobs
func CreateJobHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateJobRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		job, err := svc.Create(c.Request().Context(), middleware.CurrentUser(c).ID, req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, job)
	}
}

// UpdateJobStatusHandler handles PATCH /api/v1/jobs/:id
func UpdateJobStatusHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateJobStatusRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		job, err := svc.UpdateStatus(c.Request().Context(), c.Param("id"), middleware.CurrentUser(c).ID, req.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

// ListEmployerJobsHandler handles GET /api/v1/employer/jobs
func ListEmployerJobsHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListForEmployer(c.Request().Context(), middleware.CurrentUser(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}
