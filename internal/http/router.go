package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Storage, cfg.Version)
	importController := NewImportController(cfg.ImportService)
	exportController := NewExportController(cfg.Storage)
	migrateController := NewMigrateController(cfg.ImportService, cfg.MigrateTarget)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Status)
		api.POST("/import/json", importController.ImportJSON)
		api.POST("/import/csv", importController.ImportCSV)
		api.POST("/validate", importController.Validate)
		api.GET("/export/:userId", exportController.Export)
		api.POST("/migrate", migrateController.Migrate)
	}

	return router
}
