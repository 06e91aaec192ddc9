package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// mustType is a helper function to create an abi.Type from a string
func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("invalid type: %s: %v", t, err))
	}
	return typ
}

var (
	typeAddress = mustType("address")
	typeUint256 = mustType("uint256")
	typeUint8   = mustType("uint8")
	typeBool    = mustType("bool")
	typeString  = mustType("string")
)

// contractMethod packs call data for one contract function the way
// abigen-free call sites do it: 4-byte selector plus ABI-encoded arguments.
type contractMethod struct {
	selector []byte
	inputs   abi.Arguments
	outputs  abi.Arguments
}

func newMethod(signature string, inputs, outputs abi.Arguments) contractMethod {
	return contractMethod{
		selector: crypto.Keccak256([]byte(signature))[:4],
		inputs:   inputs,
		outputs:  outputs,
	}
}

// Pack encodes the selector plus arguments.
func (m contractMethod) Pack(args ...interface{}) ([]byte, error) {
	encoded, err := m.inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack arguments: %w", err)
	}
	return append(append([]byte{}, m.selector...), encoded...), nil
}

// Unpack decodes return data.
func (m contractMethod) Unpack(data []byte) ([]interface{}, error) {
	values, err := m.outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack return data: %w", err)
	}
	return values, nil
}

func arg(name string, t abi.Type) abi.Argument { return abi.Argument{Name: name, Type: t} }

// Lending protocol read methods.
var (
	methodGetSupplyBalance = newMethod(
		"getSupplyBalance(address,address)",
		abi.Arguments{arg("user", typeAddress), arg("asset", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodGetBorrowBalance = newMethod(
		"getBorrowBalance(address,address)",
		abi.Arguments{arg("user", typeAddress), arg("asset", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodGetUserPositionData = newMethod(
		"getUserPositionData(address)",
		abi.Arguments{arg("user", typeAddress)},
		abi.Arguments{
			arg("totalCollateralValue", typeUint256),
			arg("totalDebtValue", typeUint256),
			arg("healthFactor", typeUint256),
			arg("liquidationThreshold", typeUint256),
		},
	)
	methodGetAssetPrice = newMethod(
		"getAssetPrice(address)",
		abi.Arguments{arg("asset", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodIsAssetSupported = newMethod(
		"isAssetSupported(address)",
		abi.Arguments{arg("asset", typeAddress)},
		abi.Arguments{arg("", typeBool)},
	)
	methodMaxAvailableAmount = newMethod(
		"maxAvailableAmount(address)",
		abi.Arguments{arg("asset", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodGetMaxLiquidation = newMethod(
		"getMaxLiquidation(address,address,address)",
		abi.Arguments{
			arg("borrower", typeAddress),
			arg("collateralAsset", typeAddress),
			arg("debtAsset", typeAddress),
		},
		abi.Arguments{arg("", typeUint256)},
	)
)

// Lending protocol write methods.
var (
	methodSupply = newMethod(
		"supply(address,uint256,address)",
		abi.Arguments{
			arg("asset", typeAddress),
			arg("amount", typeUint256),
			arg("onBehalfOf", typeAddress),
		},
		nil,
	)
	methodWithdraw = newMethod(
		"withdrawCrossChain(address,uint256,uint256,address)",
		abi.Arguments{
			arg("asset", typeAddress),
			arg("amount", typeUint256),
			arg("destinationChainId", typeUint256),
			arg("recipient", typeAddress),
		},
		nil,
	)
	methodBorrow = newMethod(
		"borrowCrossChain(address,uint256,uint256,address)",
		abi.Arguments{
			arg("asset", typeAddress),
			arg("amount", typeUint256),
			arg("destinationChainId", typeUint256),
			arg("recipient", typeAddress),
		},
		nil,
	)
	methodRepay = newMethod(
		"repay(address,uint256,address)",
		abi.Arguments{
			arg("asset", typeAddress),
			arg("amount", typeUint256),
			arg("onBehalfOf", typeAddress),
		},
		nil,
	)
	methodLiquidate = newMethod(
		"liquidate(address,address,address,uint256)",
		abi.Arguments{
			arg("borrower", typeAddress),
			arg("collateralAsset", typeAddress),
			arg("debtAsset", typeAddress),
			arg("repayAmount", typeUint256),
		},
		nil,
	)
)

// ERC-20 methods.
var (
	methodApprove = newMethod(
		"approve(address,uint256)",
		abi.Arguments{arg("spender", typeAddress), arg("amount", typeUint256)},
		abi.Arguments{arg("", typeBool)},
	)
	methodAllowance = newMethod(
		"allowance(address,address)",
		abi.Arguments{arg("owner", typeAddress), arg("spender", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodBalanceOf = newMethod(
		"balanceOf(address)",
		abi.Arguments{arg("owner", typeAddress)},
		abi.Arguments{arg("", typeUint256)},
	)
	methodDecimals = newMethod(
		"decimals()",
		nil,
		abi.Arguments{arg("", typeUint8)},
	)
	methodSymbol = newMethod(
		"symbol()",
		nil,
		abi.Arguments{arg("", typeString)},
	)
)
