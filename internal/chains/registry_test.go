package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownChain(t *testing.T) {
	r := DefaultRegistry

	for _, id := range []uint64{0, 1, 999999, 42} {
		d, ok := r.Resolve(id)
		assert.False(t, ok, "chain %d should not resolve", id)
		assert.Nil(t, d)
		assert.False(t, r.IsSupported(id))

		_, ok = r.ContractAddress(id, ContractLendingProtocol)
		assert.False(t, ok)
		_, ok = r.TokenAddress(id, "USDC")
		assert.False(t, ok)
	}
}

func TestResolveKnownChain(t *testing.T) {
	d, ok := DefaultRegistry.Resolve(7001)
	require.True(t, ok)
	assert.Equal(t, "ZetaChain Athens", d.Name)
	assert.Equal(t, NetworkTestnet, d.Network)
	assert.True(t, d.IsZetaChain)

	addr, ok := DefaultRegistry.ContractAddress(7001, ContractLendingProtocol)
	require.True(t, ok)
	assert.NotEmpty(t, addr.Hex())

	_, ok = DefaultRegistry.TokenAddress(7001, "ETH.ARBI")
	assert.True(t, ok)
}

func TestZeroAddressIsAbsent(t *testing.T) {
	// Mainnet carries zero addresses for the not-yet-deployed protocol
	// contracts; those must read as absent, not as valid deployments.
	require.True(t, DefaultRegistry.IsSupported(7000))

	_, ok := DefaultRegistry.ContractAddress(7000, ContractLendingProtocol)
	assert.False(t, ok)
	_, ok = DefaultRegistry.ContractAddress(7000, ContractPriceOracle)
	assert.False(t, ok)

	// The gateway is live on mainnet.
	_, ok = DefaultRegistry.ContractAddress(7000, ContractGateway)
	assert.True(t, ok)
}

func TestUnknownContractAndToken(t *testing.T) {
	_, ok := DefaultRegistry.ContractAddress(7001, "no_such_contract")
	assert.False(t, ok)
	_, ok = DefaultRegistry.TokenAddress(7001, "DOGE")
	assert.False(t, ok)
}

func TestConfigOverridesBuiltin(t *testing.T) {
	override := &ChainDescriptor{
		ChainID: 7001,
		Name:    "Athens (staging)",
		Network: NetworkTestnet,
	}
	r := NewRegistry(append(BuiltinChains(), override))

	d, ok := r.Resolve(7001)
	require.True(t, ok)
	assert.Equal(t, "Athens (staging)", d.Name)
}

func TestIsCrossChain(t *testing.T) {
	r := DefaultRegistry

	assert.True(t, r.IsCrossChain(421614, 7001), "external supply crosses chains")
	assert.True(t, r.IsCrossChain(7001, 421614), "withdraw toward external crosses chains")
	assert.False(t, r.IsCrossChain(7001, 7001), "local transaction has no settlement leg")
	assert.False(t, r.IsCrossChain(1, 7001), "unsupported source is never tracked")
}

func TestRPCEndpoint(t *testing.T) {
	url, ok := DefaultRegistry.RPCEndpoint(7001)
	require.True(t, ok)
	assert.Contains(t, url, "zetachain")

	_, ok = DefaultRegistry.RPCEndpoint(12345)
	assert.False(t, ok)
}
