package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/middleware"
)

// AuthHandler issues session tokens for wallet addresses.
type AuthHandler struct {
	auth *middleware.AuthMiddleware
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// TokenRequest asks for a session token.
type TokenRequest struct {
	UserAddress string `json:"user_address" binding:"required"`
	ChainID     uint64 `json:"chain_id"`
}

// IssueTokenHandler issues a JWT for the given wallet address
// POST /api/v1/auth/token
//
// TODO: require a signed message from the wallet instead of handing out
// tokens for any address.
func (h *AuthHandler) IssueTokenHandler(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if !common.IsHexAddress(req.UserAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	token, err := h.auth.IssueToken(common.HexToAddress(req.UserAddress).Hex(), req.ChainID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
