package http

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/adapter/http/handlers"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/config"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	r.Static("/exports", cfg.ExportDir)

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware([]byte(cfg.JwtSecret)))
	{
		tasks.GET("", taskHandler.Index)
		tasks.POST("", taskHandler.Store)
		tasks.GET("/deleted", taskHandler.Deleted)
		tasks.GET("/stats", taskHandler.Stats)
		tasks.GET("/statuses", taskHandler.Statuses)
		tasks.GET("/priorities", taskHandler.Priorities)
		tasks.POST("/export", taskHandler.Export)
		tasks.POST("/bulk-delete", taskHandler.BulkDelete)
		tasks.POST("/bulk-restore", taskHandler.BulkRestore)
		tasks.POST("/bulk-force-delete", taskHandler.BulkForceDelete)
		tasks.POST("/bulk-archive", taskHandler.BulkArchive)

		tasks.GET("/:taskId", taskHandler.Show)
		tasks.PATCH("/:taskId", taskHandler.Update)
		tasks.DELETE("/:taskId", taskHandler.Destroy)
		tasks.POST("/:taskId/restore", taskHandler.Restore)
		tasks.DELETE("/:taskId/force-delete", taskHandler.ForceDelete)
		tasks.POST("/:taskId/archive", taskHandler.Archive)
		tasks.POST("/:taskId/mark-completed", taskHandler.MarkCompleted)
		tasks.POST("/:taskId/assign", taskHandler.Assign)
		tasks.POST("/:taskId/priority", taskHandler.UpdatePriority)
	}
}
