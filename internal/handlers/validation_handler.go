package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/flow"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
)

// ValidationHandler runs pre-submission checks against live protocol state.
type ValidationHandler struct {
	positions *services.PositionService
}

// NewValidationHandler creates a new ValidationHandler instance
func NewValidationHandler(positions *services.PositionService) *ValidationHandler {
	return &ValidationHandler{positions: positions}
}

// ValidateRequest is one validation query. Amount is a decimal string in
// asset units.
type ValidateRequest struct {
	Kind    string `json:"kind" binding:"required"`
	User    string `json:"user" binding:"required"`
	Asset   string `json:"asset"`
	ChainID uint64 `json:"chain_id"`
	Amount  string `json:"amount" binding:"required"`

	Borrower        string `json:"borrower"`
	CollateralAsset string `json:"collateral_asset"`
	DebtAsset       string `json:"debt_asset"`
}

// ValidateHandler validates a prospective transaction without submitting it
// POST /api/v1/validate
func (h *ValidationHandler) ValidateHandler(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	kind := flow.Kind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown flow kind"})
		return
	}
	if !common.IsHexAddress(req.User) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user address"})
		return
	}

	result, err := h.positions.Validate(c.Request.Context(), services.ValidateParams{
		Kind:            kind,
		User:            common.HexToAddress(req.User),
		Asset:           common.HexToAddress(req.Asset),
		ChainID:         req.ChainID,
		Amount:          req.Amount,
		Borrower:        common.HexToAddress(req.Borrower),
		CollateralAsset: common.HexToAddress(req.CollateralAsset),
		DebtAsset:       common.HexToAddress(req.DebtAsset),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read protocol state", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
