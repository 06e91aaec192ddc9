package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCctxServer(t *testing.T, handler http.HandlerFunc) *CctxClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCctxClient(srv.URL, 5*time.Second)
}

func TestGetCctxByInboundHash(t *testing.T) {
	client := newCctxServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zeta-chain/crosschain/inTxHashToCctxData/0xabc", r.URL.Path)
		fmt.Fprint(w, `{"CrossChainTxs":[
			{"index":"0x1","cctx_status":{"status":"Reverted","status_message":"outbound failed"}},
			{"index":"0x2","cctx_status":{"status":"OutboundMined","status_message":""}}
		]}`)
	})

	cctx, err := client.GetCctxByInboundHash(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, cctx)
	// The latest cctx wins when the inbound spawned several legs.
	assert.Equal(t, "0x2", cctx.Index)
	assert.Equal(t, CctxStatusOutboundMined, cctx.CctxStatus.Status)
}

func TestGetStatusNotYetObserved(t *testing.T) {
	client := newCctxServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":5,"message":"not found"}`, http.StatusNotFound)
	})

	status, err := client.GetStatus(context.Background(), "0xdead")
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestGetStatusEmptyList(t *testing.T) {
	client := newCctxServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"CrossChainTxs":[]}`)
	})

	status, err := client.GetStatus(context.Background(), "0xdead")
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestGetStatusServerError(t *testing.T) {
	client := newCctxServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.GetStatus(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetStatusMalformedBody(t *testing.T) {
	client := newCctxServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	_, err := client.GetStatus(context.Background(), "0xabc")
	require.Error(t, err)
}
