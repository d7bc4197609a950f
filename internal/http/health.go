package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polyglottos/dataport/internal/storage"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	storage storage.Service
	version string
}

func NewHealthController(store storage.Service, version string) *HealthController {
	return &HealthController{
		storage: store,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.storage != nil {
		if h.storage.IsAvailable(c.Request.Context()) {
			checks["storage"] = "ok"
		} else {
			checks["storage"] = "unavailable"
			status = "unhealthy"
		}
	} else {
		checks["storage"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
