package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
)

// ChainHandler serves the chain registry.
type ChainHandler struct {
	registry *chains.Registry
}

// NewChainHandler creates a new ChainHandler instance
func NewChainHandler(registry *chains.Registry) *ChainHandler {
	return &ChainHandler{registry: registry}
}

// ListChainsHandler lists all supported chains
// GET /api/v1/chains
func (h *ChainHandler) ListChainsHandler(c *gin.Context) {
	all := h.registry.All()
	c.JSON(http.StatusOK, gin.H{"chains": all, "total": len(all)})
}

// GetChainHandler returns one chain descriptor
// GET /api/v1/chains/:chain_id
func (h *ChainHandler) GetChainHandler(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Param("chain_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chain ID"})
		return
	}

	descriptor, ok := h.registry.Resolve(chainID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chain not supported"})
		return
	}
	c.JSON(http.StatusOK, descriptor)
}
