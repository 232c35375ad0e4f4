package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetStatus godoc
// @Summary      Snapshot status
// @Description  Reports the loaded snapshot and the last refresh failure, if any
// @Tags         health
// @Produce      json
// @Success      200  {object}  service.Status
// @Security     ApiKeyAuth
// @Router       /api/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.trendService.Status())
}
