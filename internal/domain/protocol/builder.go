// Package protocol builds the envelopes understood by Safe{Core} protocol
// plugins and managers. Every function here is pure.
package protocol

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// BuildAction builds a single call. A nil value means zero.
func BuildAction(to common.Address, value *big.Int, data []byte) models.SafeProtocolAction {
	v := new(big.Int)
	if value != nil {
		v.Set(value)
	}
	return models.SafeProtocolAction{
		To:    to,
		Value: v,
		Data:  bytes.Clone(data),
	}
}

// BuildBatch builds a SafeTransaction holding exactly one action.
func BuildBatch(to common.Address, value *big.Int, data []byte, nonce *big.Int, metadataHash common.Hash) (models.SafeTransaction, error) {
	return BuildBatchFromActions([]models.SafeProtocolAction{BuildAction(to, value, data)}, nonce, metadataHash)
}

// BuildBatchFromActions builds a SafeTransaction executing actions in order.
func BuildBatchFromActions(actions []models.SafeProtocolAction, nonce *big.Int, metadataHash common.Hash) (models.SafeTransaction, error) {
	if len(actions) == 0 {
		return models.SafeTransaction{}, fmt.Errorf("%w: batch has no actions", domain.ErrInvalidEnvelope)
	}
	if err := checkBinding(nonce, metadataHash); err != nil {
		return models.SafeTransaction{}, err
	}

	copied := make([]models.SafeProtocolAction, len(actions))
	for i, action := range actions {
		if err := checkUint256("value", action.Value); err != nil {
			return models.SafeTransaction{}, fmt.Errorf("action %d: %w", i, err)
		}
		copied[i] = BuildAction(action.To, action.Value, action.Data)
	}

	return models.SafeTransaction{
		Actions:      copied,
		Nonce:        new(big.Int).Set(nonce),
		MetadataHash: metadataHash,
	}, nil
}

// BuildRootAccess builds a SafeRootAccess for a single privileged call.
func BuildRootAccess(to common.Address, value *big.Int, data []byte, nonce *big.Int, metadataHash common.Hash) (models.SafeRootAccess, error) {
	if err := checkUint256("value", value); err != nil {
		return models.SafeRootAccess{}, err
	}
	if err := checkBinding(nonce, metadataHash); err != nil {
		return models.SafeRootAccess{}, err
	}
	return models.SafeRootAccess{
		Action:       BuildAction(to, value, data),
		Nonce:        new(big.Int).Set(nonce),
		MetadataHash: metadataHash,
	}, nil
}

func checkBinding(nonce *big.Int, metadataHash common.Hash) error {
	if nonce == nil {
		return fmt.Errorf("%w: missing nonce", domain.ErrInvalidEnvelope)
	}
	if err := checkUint256("nonce", nonce); err != nil {
		return err
	}
	if metadataHash == (common.Hash{}) {
		return fmt.Errorf("%w: zero metadata hash", domain.ErrInvalidEnvelope)
	}
	return nil
}

// checkUint256 accepts nil as zero.
func checkUint256(field string, v *big.Int) error {
	if v == nil {
		return nil
	}
	if v.Sign() < 0 || v.Cmp(maxUint256) > 0 {
		return fmt.Errorf("%w: %s %s out of uint256 range", domain.ErrInvalidEnvelope, field, v)
	}
	return nil
}
