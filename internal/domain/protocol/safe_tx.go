package protocol

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// SafeTx is the EIP-712 message a Safe owner signs. Gas refund fields are
// always zero for proposals made here.
type SafeTx struct {
	Safe      common.Address
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation models.SafeOperation
	Nonce     *big.Int
}

var safeTxTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"SafeTx": {
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "operation", Type: "uint8"},
		{Name: "safeTxGas", Type: "uint256"},
		{Name: "baseGas", Type: "uint256"},
		{Name: "gasPrice", Type: "uint256"},
		{Name: "gasToken", Type: "address"},
		{Name: "refundReceiver", Type: "address"},
		{Name: "nonce", Type: "uint256"},
	},
}

// TypedData returns the EIP-712 document for tx on chainID.
func (tx SafeTx) TypedData(chainID uint64) apitypes.TypedData {
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	nonce := tx.Nonce
	if nonce == nil {
		nonce = new(big.Int)
	}
	return apitypes.TypedData{
		Types:       safeTxTypes,
		PrimaryType: "SafeTx",
		Domain: apitypes.TypedDataDomain{
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: tx.Safe.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":             tx.To.Hex(),
			"value":          value.String(),
			"data":           hexutil.Encode(tx.Data),
			"operation":      fmt.Sprintf("%d", tx.Operation),
			"safeTxGas":      "0",
			"baseGas":        "0",
			"gasPrice":       "0",
			"gasToken":       common.Address{}.Hex(),
			"refundReceiver": common.Address{}.Hex(),
			"nonce":          nonce.String(),
		},
	}
}

// Hash returns the safeTxHash of tx on chainID.
func (tx SafeTx) Hash(chainID uint64) (common.Hash, error) {
	hash, _, err := apitypes.TypedDataAndHash(tx.TypedData(chainID))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash SafeTx: %w", err)
	}
	return common.BytesToHash(hash), nil
}
