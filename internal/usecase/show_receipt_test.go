package usecase

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
)

func TestShowReceipt(t *testing.T) {
	plugin := bindings.NewWhitelistPlugin()
	whitelisted, err := plugin.GetEventID(bindings.WhitelistPluginAccountWhitelistedEventName)
	require.NoError(t, err)

	txHash := crypto.Keccak256Hash([]byte("tx"))
	other := &types.Log{
		Address: flagContract,
		Topics:  []common.Hash{crypto.Keccak256Hash([]byte("FlagCaptured(address)"))},
		Index:   0,
	}
	added := &types.Log{
		Address: samplePlugin,
		Topics: []common.Hash{
			whitelisted,
			common.BytesToHash(guardedSafe.Bytes()),
			common.BytesToHash(counterParty.Bytes()),
		},
		Index: 1,
	}

	submitter := newFakeSubmitter(5)
	submitter.receipts = map[common.Hash]*types.Receipt{
		txHash: {Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42), GasUsed: 50_000, Logs: []*types.Log{other, added}},
	}
	// An active host must not be used: receipts are always read directly.
	host := &fakeHost{active: true, conn: &fakeConnection{kind: domain.ConnectionAmbient, chainID: 5}}
	env := newTestEnv(host, &fakeDialer{conn: submitter}, newSampleRegistry(false))
	uc := NewShowReceipt(env.connections, discardLogger())

	result, err := uc.Run(context.Background(), txHash.Hex())
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, result.Status)
	assert.Equal(t, int64(42), result.BlockNumber.Int64())
	require.Len(t, result.Logs, 2)

	assert.Empty(t, result.Logs[0].Event)
	assert.Nil(t, result.Logs[0].Safe)

	assert.Equal(t, "AccountWhitelisted", result.Logs[1].Event)
	require.NotNil(t, result.Logs[1].Safe)
	assert.Equal(t, guardedSafe, *result.Logs[1].Safe)
	assert.Equal(t, counterParty, *result.Logs[1].Account)
}

func TestShowReceipt_NotFound(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	uc := NewShowReceipt(env.connections, discardLogger())

	_, err := uc.Run(context.Background(), crypto.Keccak256Hash([]byte("missing")).Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShowReceipt_InvalidHash(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	uc := NewShowReceipt(env.connections, discardLogger())

	_, err := uc.Run(context.Background(), "0x1234")
	assert.Error(t, err)
}
