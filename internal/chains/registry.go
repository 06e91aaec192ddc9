package chains

import (
	"github.com/ethereum/go-ethereum/common"
)

// NetworkType marks a chain as a test or production network.
type NetworkType string

const (
	NetworkTestnet NetworkType = "testnet"
	NetworkMainnet NetworkType = "mainnet"
)

// ChainDescriptor holds the static metadata for one supported chain.
type ChainDescriptor struct {
	ChainID      uint64            `json:"chain_id" yaml:"chain_id"`
	Name         string            `json:"name" yaml:"name"`
	Network      NetworkType       `json:"network" yaml:"network"`
	NativeSymbol string            `json:"native_symbol" yaml:"native_symbol"`
	ExplorerURL  string            `json:"explorer_url" yaml:"explorer_url"`
	RPCEndpoints []string          `json:"rpc_endpoints" yaml:"rpc_endpoints"`
	IsZetaChain  bool              `json:"is_zetachain" yaml:"is_zetachain"`
	Contracts    map[string]string `json:"contracts" yaml:"contracts"`
	Tokens       map[string]string `json:"tokens" yaml:"tokens"`
}

// Registry is an immutable lookup table of supported chains.
type Registry struct {
	byID map[uint64]*ChainDescriptor
}

// Contract names known to the registry.
const (
	ContractLendingProtocol = "lending_protocol"
	ContractPriceOracle     = "price_oracle"
	ContractGateway         = "gateway"
)

var zeroAddress = common.Address{}

// NewRegistry builds a registry from the given descriptors. Later
// descriptors with a duplicate chain id override earlier ones, which lets a
// config file patch the built-in table.
func NewRegistry(descriptors []*ChainDescriptor) *Registry {
	r := &Registry{byID: make(map[uint64]*ChainDescriptor, len(descriptors))}
	for _, d := range descriptors {
		r.byID[d.ChainID] = d
	}
	return r
}

// Resolve looks up a chain by id. Unknown ids yield (nil, false), never a
// panic or error.
func (r *Registry) Resolve(chainID uint64) (*ChainDescriptor, bool) {
	d, ok := r.byID[chainID]
	return d, ok
}

// IsSupported reports whether the chain id is in the table.
func (r *Registry) IsSupported(chainID uint64) bool {
	_, ok := r.byID[chainID]
	return ok
}

// ContractAddress returns the deployed address of a named contract on the
// given chain. The zero address is treated as "not deployed" and reported as
// absent.
func (r *Registry) ContractAddress(chainID uint64, name string) (common.Address, bool) {
	d, ok := r.byID[chainID]
	if !ok {
		return common.Address{}, false
	}
	return parsePresent(d.Contracts[name])
}

// TokenAddress returns the address of a token symbol on the given chain,
// with the same zero-address-is-absent rule as ContractAddress.
func (r *Registry) TokenAddress(chainID uint64, symbol string) (common.Address, bool) {
	d, ok := r.byID[chainID]
	if !ok {
		return common.Address{}, false
	}
	return parsePresent(d.Tokens[symbol])
}

// RPCEndpoint returns the primary RPC endpoint for the chain.
func (r *Registry) RPCEndpoint(chainID uint64) (string, bool) {
	d, ok := r.byID[chainID]
	if !ok || len(d.RPCEndpoints) == 0 {
		return "", false
	}
	return d.RPCEndpoints[0], true
}

// IsCrossChain reports whether a transaction from sourceChain involving
// destChain has a cross-chain settlement leg. Supplying from an external
// chain, or withdrawing/borrowing toward one, settles through the ZetaChain
// gateway and needs tracking.
func (r *Registry) IsCrossChain(sourceChain, destChain uint64) bool {
	if !r.IsSupported(sourceChain) || !r.IsSupported(destChain) {
		return false
	}
	return sourceChain != destChain
}

// All returns every registered descriptor.
func (r *Registry) All() []*ChainDescriptor {
	out := make([]*ChainDescriptor, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out
}

func parsePresent(raw string) (common.Address, bool) {
	if raw == "" || !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	addr := common.HexToAddress(raw)
	if addr == zeroAddress {
		return common.Address{}, false
	}
	return addr, true
}
