package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"hirescore/internal/api/handlers"
	"hirescore/internal/api/middleware"
	"hirescore/internal/applications"
	"hirescore/internal/auth"
	"hirescore/internal/config"
	"hirescore/internal/jobs"
	"hirescore/pkg/models"
)

// Dependencies are the services the HTTP API is built on
type Dependencies struct {
	Config          *config.Config
	Auth            *auth.Service
	Jobs            *jobs.Service
	Applications    *applications.Service
	ReadinessChecks map[string]handlers.HealthCheck
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg := deps.Config

	// Global middleware
	e.Use(middleware.RequestValidation())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowOrigins))
	e.Use(middleware.TimeoutConfig(cfg.Server.WriteTimeout))
	e.Use(middleware.Session(deps.Auth, cfg.Auth.CookieName))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.ReadinessChecks))
		health.GET("/live", handlers.LivenessHandler)
	}

	employerOnly := middleware.RequireRole(models.RoleEmployer)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", handlers.SignUpHandler(cfg, deps.Auth))
			authGroup.POST("/signin", handlers.SignInHandler(cfg, deps.Auth))
			authGroup.POST("/signout", handlers.SignOutHandler(cfg, deps.Auth))
			authGroup.GET("/me", handlers.MeHandler(), middleware.RequireAuth())
		}

		jobsGroup := v1.Group("/jobs")
		{
			jobsGroup.GET("", handlers.ListJobsHandler(deps.Jobs))
			jobsGroup.POST("", handlers.CreateJobHandler(deps.Jobs), employerOnly)
			jobsGroup.GET("/:id", handlers.GetJobHandler(deps.Jobs))
			jobsGroup.PATCH("/:id", handlers.UpdateJobStatusHandler(deps.Jobs), employerOnly)
			jobsGroup.GET("/:id/applications", handlers.ListJobApplicationsHandler(deps.Applications), employerOnly)
		}

		v1.GET("/employer/jobs", handlers.ListEmployerJobsHandler(deps.Jobs), employerOnly)
		v1.GET("/dashboard", handlers.DashboardHandler(deps.Applications), employerOnly)

		applicationsGroup := v1.Group("/applications")
		{
			applicationsGroup.POST("", handlers.SubmitApplicationHandler(deps.Applications))
			applicationsGroup.GET("", handlers.ListApplicationsHandler(deps.Applications), middleware.RequireAuth())
			applicationsGroup.GET("/:id", handlers.GetApplicationHandler(deps.Applications), employerOnly)
			applicationsGroup.PATCH("/:id", handlers.UpdateApplicationStatusHandler(deps.Applications), employerOnly)
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "HireScore",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
