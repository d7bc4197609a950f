package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
)

type ExportController struct {
	storage storage.Service
}

func NewExportController(store storage.Service) *ExportController {
	return &ExportController{storage: store}
}

// Export returns every record stored for the user as a JSON document
// the import endpoints accept back.
func (ctrl *ExportController) Export(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	data, err := importer.ExportJSON(c.Request.Context(), ctrl.storage, userID)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
