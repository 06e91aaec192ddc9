package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
)

// HealthCheckHandler reports service liveness
// GET /api/health
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "lending-gateway",
		"api":     "healthy",
	})
}

// WebSocketHandler upgrades to the flow-update push stream
// GET /ws?address=0x...
func WebSocketHandler(push *services.WebSocketPushService) gin.HandlerFunc {
	return func(c *gin.Context) {
		push.HandleConnection(c.Writer, c.Request)
	}
}
