package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
)

// Signer abstracts the wallet: it owns an address, an active chain, and the
// ability to sign raw transactions. Flows never touch key material directly.
type Signer interface {
	Address() common.Address
	ActiveChainID() uint64
	SwitchChain(ctx context.Context, chainID uint64) error
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// PrivateKeySigner signs with a local secp256k1 key. One key serves every
// EVM chain; the active chain is a mutable selection validated against the
// registry.
type PrivateKeySigner struct {
	key      *ecdsa.PrivateKey
	address  common.Address
	registry *chains.Registry

	mu     sync.RWMutex
	active uint64
}

// NewPrivateKeySigner parses a hex private key and pins the initial active
// chain.
func NewPrivateKeySigner(hexKey string, initialChain uint64, registry *chains.Registry) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if !registry.IsSupported(initialChain) {
		return nil, fmt.Errorf("initial chain %d is not supported", initialChain)
	}
	return &PrivateKeySigner{
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey),
		registry: registry,
		active:   initialChain,
	}, nil
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

func (s *PrivateKeySigner) ActiveChainID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SwitchChain moves the signer to another supported chain. Unsupported
// targets fail with ErrNetworkSwitchFailed.
func (s *PrivateKeySigner) SwitchChain(ctx context.Context, chainID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.registry.IsSupported(chainID) {
		return fmt.Errorf("%w: chain %d not in registry", ErrNetworkSwitchFailed, chainID)
	}
	s.mu.Lock()
	s.active = chainID
	s.mu.Unlock()
	return nil
}

func (s *PrivateKeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
