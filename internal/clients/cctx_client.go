package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ===== ZetaChain cross-chain transaction status client =====

// Cctx status values returned by the ZetaChain LCD API.
const (
	CctxStatusPendingInbound  = "PendingInbound"
	CctxStatusPendingOutbound = "PendingOutbound"
	CctxStatusOutboundMined   = "OutboundMined"
	CctxStatusPendingRevert   = "PendingRevert"
	CctxStatusReverted        = "Reverted"
	CctxStatusAborted         = "Aborted"
)

// CctxClient queries ZetaChain's crosschain module for the state of a
// cross-chain transaction, keyed by the source-chain (inbound) hash.
type CctxClient struct {
	BaseURL string
	Client  *http.Client
}

// NewCctxClient creates a status client against the given LCD endpoint.
func NewCctxClient(baseURL string, timeout time.Duration) *CctxClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CctxClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// CrossChainTx is the subset of the cctx object the tracker consumes.
type CrossChainTx struct {
	Index      string `json:"index"`
	CctxStatus struct {
		Status        string `json:"status"`
		StatusMessage string `json:"status_message"`
	} `json:"cctx_status"`
}

// cctxByInboundResponse mirrors the inTxHashToCctxData response shape.
type cctxByInboundResponse struct {
	CrossChainTxs []CrossChainTx `json:"CrossChainTxs"`
}

// GetCctxByInboundHash fetches the cctx spawned by a source-chain
// transaction. Returns (nil, nil) while the inbound hash is not yet
// observed by the network.
func (c *CctxClient) GetCctxByInboundHash(ctx context.Context, inboundHash string) (*CrossChainTx, error) {
	url := fmt.Sprintf("%s/zeta-chain/crosschain/inTxHashToCctxData/%s", c.BaseURL, inboundHash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The LCD answers 404 until the observers pick up the inbound tx.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cctx API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result cctxByInboundResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.CrossChainTxs) == 0 {
		return nil, nil
	}
	// The latest cctx reflects the current settlement leg.
	return &result.CrossChainTxs[len(result.CrossChainTxs)-1], nil
}

// GetStatus returns just the status string for an inbound hash, or "" when
// no cctx exists yet.
func (c *CctxClient) GetStatus(ctx context.Context, inboundHash string) (string, error) {
	cctx, err := c.GetCctxByInboundHash(ctx, inboundHash)
	if err != nil {
		return "", err
	}
	if cctx == nil {
		return "", nil
	}
	return cctx.CctxStatus.Status, nil
}
