package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
)

type MigrateController struct {
	importService *importer.Service
	target        storage.Service
}

func NewMigrateController(importService *importer.Service, target storage.Service) *MigrateController {
	return &MigrateController{
		importService: importService,
		target:        target,
	}
}

// Migrate copies the active user's records to the configured target
// backend, merging into whatever it already holds.
func (ctrl *MigrateController) Migrate(c *gin.Context) {
	if ctrl.target == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "no migration target configured"})
		return
	}

	outcome := ctrl.importService.MigrateTo(c.Request.Context(), ctrl.target, importer.Options{})
	c.IndentedJSON(outcomeStatus(outcome), outcome)
}
