package chains

// DefaultRegistry is the built-in chain table used when the config file does
// not override it.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(BuiltinChains())
}

// BuiltinChains returns the static descriptors for every network the lending
// protocol is deployed on.
func BuiltinChains() []*ChainDescriptor {
	return []*ChainDescriptor{
		{
			ChainID:      7001,
			Name:         "ZetaChain Athens",
			Network:      NetworkTestnet,
			NativeSymbol: "ZETA",
			ExplorerURL:  "https://athens.explorer.zetachain.com",
			RPCEndpoints: []string{
				"https://zetachain-athens-evm.blockpi.network/v1/rpc/public",
				"https://zetachain-athens.g.allthatnode.com/archive/evm",
			},
			IsZetaChain: true,
			Contracts: map[string]string{
				ContractLendingProtocol: "0x4f1F468Dd27a2e90608fD2b683d6AAcD8f93F6E8",
				ContractPriceOracle:     "0x8b7C3E45Dcf1A2b9742F0C58e3a6D29B1Fc5a0d4",
				ContractGateway:         "0x6c533f7fe93fae114d0954697069df33c9b74fd7",
			},
			Tokens: map[string]string{
				"ETH.ARBI":  "0x1de70f3e971B62A0707dA18100392af14f7fB677",
				"USDC.ARBI": "0x4bC32034caCcc9B7e02536945eDbC286bACbA073",
				"ETH.ETH":   "0x05BA149A7bd6dC1F937fA9046A9e05C05f3b18b0",
				"USDC.ETH":  "0xcC683A782f4B30c138787CB5576a86AF66fdc31d",
				"ETH.BASE":  "0x236b0DE675cC8F46AE186897fCCeFe3370C9eDeD",
				"USDC.BASE": "0x96152E6180E085FA57c7708e18AF8F05e37B479D",
			},
		},
		{
			ChainID:      7000,
			Name:         "ZetaChain",
			Network:      NetworkMainnet,
			NativeSymbol: "ZETA",
			ExplorerURL:  "https://explorer.zetachain.com",
			RPCEndpoints: []string{"https://zetachain-evm.blockpi.network/v1/rpc/public"},
			IsZetaChain:  true,
			// Mainnet deployment pending; zero addresses resolve as absent.
			Contracts: map[string]string{
				ContractLendingProtocol: "0x0000000000000000000000000000000000000000",
				ContractPriceOracle:     "0x0000000000000000000000000000000000000000",
				ContractGateway:         "0xfEDD7A6e3Ef1cC470fbfbF955a22D793dDC0F44E",
			},
			Tokens: map[string]string{},
		},
		{
			ChainID:      421614,
			Name:         "Arbitrum Sepolia",
			Network:      NetworkTestnet,
			NativeSymbol: "ETH",
			ExplorerURL:  "https://sepolia.arbiscan.io",
			RPCEndpoints: []string{"https://sepolia-rollup.arbitrum.io/rpc"},
			Contracts: map[string]string{
				ContractGateway: "0x0dA86Dc3F9B71F84a0E97B0e2291e50B7a5df10f",
			},
			Tokens: map[string]string{
				"USDC": "0x75faf114eafb1BDbe2F0316DF893fd58CE46AA4d",
			},
		},
		{
			ChainID:      11155111,
			Name:         "Ethereum Sepolia",
			Network:      NetworkTestnet,
			NativeSymbol: "ETH",
			ExplorerURL:  "https://sepolia.etherscan.io",
			RPCEndpoints: []string{"https://ethereum-sepolia-rpc.publicnode.com"},
			Contracts: map[string]string{
				ContractGateway: "0x0c487a766110c85d301d96e33579c5b317fa4995",
			},
			Tokens: map[string]string{
				"USDC": "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
			},
		},
		{
			ChainID:      84532,
			Name:         "Base Sepolia",
			Network:      NetworkTestnet,
			NativeSymbol: "ETH",
			ExplorerURL:  "https://sepolia.basescan.org",
			RPCEndpoints: []string{"https://sepolia.base.org"},
			Contracts: map[string]string{
				ContractGateway: "0x0c487a766110c85d301d96e33579c5b317fa4995",
			},
			Tokens: map[string]string{
				"USDC": "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			},
		},
		{
			ChainID:      97,
			Name:         "BSC Testnet",
			Network:      NetworkTestnet,
			NativeSymbol: "BNB",
			ExplorerURL:  "https://testnet.bscscan.com",
			RPCEndpoints: []string{"https://bsc-testnet-rpc.publicnode.com"},
			Contracts: map[string]string{
				ContractGateway: "0x0c487a766110c85d301d96e33579c5b317fa4995",
			},
			Tokens: map[string]string{
				"USDC": "0x64544969ed7EBf5f083679233325356EbE738930",
			},
		},
	}
}
