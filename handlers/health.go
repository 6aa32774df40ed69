package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of all components (database, AI service, object storage)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":     "healthy",
		"db":         "connected",
		"ai_service": "ready",
		"gcs":        "not_configured",
	}

	if h.store != nil {
		status["gcs"] = "configured"
	}

	c.JSON(http.StatusOK, status)
}
