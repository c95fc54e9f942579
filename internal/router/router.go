package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/pixellab01/dashboard/internal/handler"
	"github.com/pixellab01/dashboard/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	userHandler *handler.UserHandler,
	datasetHandler *handler.DatasetHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Health check routes (no authentication required)
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	// API v1 routes
	apiV1 := h.Group("/api/v1")
	{
		// ============ Public routes (no authentication required) ============
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.RefreshToken)
		}

		// ============ Protected routes (JWT authentication required) ============
		authorized := apiV1.Group("")
		authorized.Use(userHandler.AuthMiddleware())
		{
			// User management
			users := authorized.Group("/users")
			{
				users.GET("/me", userHandler.GetCurrentUser)
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}

			// Dataset lifecycle
			datasets := authorized.Group("/datasets")
			{
				datasets.POST("", datasetHandler.Upload)
				datasets.GET("", datasetHandler.List)
				datasets.GET("/:id/rows", datasetHandler.Rows)
				datasets.GET("/:id/filter-options", datasetHandler.FilterOptions)
				datasets.GET("/:id/stats", datasetHandler.Stats)
				datasets.DELETE("/:id", datasetHandler.Delete)
			}

			// Report computation
			reports := authorized.Group("/reports")
			{
				reports.POST("/compute", reportHandler.Compute)
				reports.GET("/:type", reportHandler.Get)
			}

			// Background jobs
			authorized.GET("/jobs/:id", reportHandler.Job)
			authorized.GET("/admin/queue", reportHandler.QueueStats)

			authorized.GET("/stats", userHandler.Stats)
		}
	}
}
