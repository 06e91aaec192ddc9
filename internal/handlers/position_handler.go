package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
)

// PositionHandler serves account position reads.
type PositionHandler struct {
	positions *services.PositionService
}

// NewPositionHandler creates a new PositionHandler instance
func NewPositionHandler(positions *services.PositionService) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// GetPositionHandler returns the aggregate lending position of an address
// GET /api/v1/positions/:address
func (h *PositionHandler) GetPositionHandler(c *gin.Context) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
		return
	}

	summary, err := h.positions.Position(c.Request.Context(), common.HexToAddress(raw))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read position", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
