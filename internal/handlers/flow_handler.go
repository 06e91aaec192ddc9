package handlers

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/flow"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/utils"
)

// FlowHandler exposes the transaction flow lifecycle over HTTP.
type FlowHandler struct {
	manager *services.FlowManager
}

// NewFlowHandler creates a new FlowHandler instance
func NewFlowHandler(manager *services.FlowManager) *FlowHandler {
	return &FlowHandler{manager: manager}
}

// OpenFlowRequest opens a new flow session.
type OpenFlowRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// SubmitFlowRequest carries the submission parameters. Amount is a decimal
// string in asset units; decimals scale it to base units.
type SubmitFlowRequest struct {
	ChainID     uint64 `json:"chain_id" binding:"required"`
	DestChainID uint64 `json:"dest_chain_id"`
	Asset       string `json:"asset" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Decimals    uint8  `json:"decimals" binding:"required"`

	ApprovalToken string `json:"approval_token"`
	Spender       string `json:"spender"`
	OnBehalfOf    string `json:"on_behalf_of"`
	Recipient     string `json:"recipient"`

	Borrower        string `json:"borrower"`
	CollateralAsset string `json:"collateral_asset"`
	DebtAsset       string `json:"debt_asset"`
}

// OpenFlowHandler opens a flow session for the authenticated user
// POST /api/v1/flows
func (h *FlowHandler) OpenFlowHandler(c *gin.Context) {
	var req OpenFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, ok := authenticatedAddress(c)
	if !ok {
		return
	}

	snapshot, err := h.manager.Open(flow.Kind(req.Kind), user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// GetFlowHandler returns the current state of a flow session
// GET /api/v1/flows/:id
func (h *FlowHandler) GetFlowHandler(c *gin.Context) {
	snapshot, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SubmitFlowHandler runs the flow with the given parameters
// POST /api/v1/flows/:id/submit
func (h *FlowHandler) SubmitFlowHandler(c *gin.Context) {
	var req SubmitFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, ok := authenticatedAddress(c)
	if !ok {
		return
	}

	amount, err := utils.ParseAmount(req.Amount, req.Decimals)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount", "details": err.Error()})
		return
	}

	flowReq := flow.Request{
		ChainID:         req.ChainID,
		DestChainID:     req.DestChainID,
		Asset:           common.HexToAddress(req.Asset),
		Amount:          amount,
		ApprovalToken:   common.HexToAddress(req.ApprovalToken),
		Spender:         common.HexToAddress(req.Spender),
		OnBehalfOf:      common.HexToAddress(req.OnBehalfOf),
		Recipient:       common.HexToAddress(req.Recipient),
		Borrower:        common.HexToAddress(req.Borrower),
		CollateralAsset: common.HexToAddress(req.CollateralAsset),
		DebtAsset:       common.HexToAddress(req.DebtAsset),
	}
	if flowReq.DestChainID == 0 {
		flowReq.DestChainID = flowReq.ChainID
	}
	if flowReq.OnBehalfOf == (common.Address{}) {
		flowReq.OnBehalfOf = user
	}
	if flowReq.Recipient == (common.Address{}) {
		flowReq.Recipient = user
	}

	snapshot, err := h.manager.Submit(c.Request.Context(), c.Param("id"), flowReq)
	switch {
	case errors.Is(err, services.ErrFlowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
	case errors.Is(err, flow.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "flow": snapshot})
	case err != nil:
		// The terminal state already carries the failure; report both.
		c.JSON(http.StatusOK, gin.H{"error": err.Error(), "flow": snapshot})
	default:
		c.JSON(http.StatusOK, snapshot)
	}
}

// ResetFlowHandler returns a flow to the input phase
// POST /api/v1/flows/:id/reset
func (h *FlowHandler) ResetFlowHandler(c *gin.Context) {
	snapshot, err := h.manager.Reset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// CloseFlowHandler removes a flow session
// DELETE /api/v1/flows/:id
func (h *FlowHandler) CloseFlowHandler(c *gin.Context) {
	if err := h.manager.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FlowHistoryHandler lists persisted flows for the authenticated user
// GET /api/v1/flows
func (h *FlowHandler) FlowHistoryHandler(c *gin.Context) {
	user, ok := authenticatedAddress(c)
	if !ok {
		return
	}

	records, err := h.manager.History(user, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load flow history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flows": records, "total": len(records)})
}

// authenticatedAddress reads the address the auth middleware stored.
func authenticatedAddress(c *gin.Context) (common.Address, bool) {
	raw := c.GetString("user_address")
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated wallet address"})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
