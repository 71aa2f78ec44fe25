package usecase

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

func pendingTx(label string, op models.SafeOperation, confirmations, required int) *models.PendingMultisigTransaction {
	p := &models.PendingMultisigTransaction{
		SafeTxHash:            crypto.Keccak256Hash([]byte(label)),
		Safe:                  guardedSafe,
		To:                    flagContract,
		Value:                 big.NewInt(0),
		Data:                  common.FromHex("0xe3e8f8a1"),
		Operation:             op,
		Nonce:                 19,
		ConfirmationsRequired: required,
	}
	for i := 0; i < confirmations; i++ {
		p.Confirmations = append(p.Confirmations, models.Confirmation{Signer: common.BigToAddress(big.NewInt(int64(i + 1))).Hex()})
	}
	return p
}

func TestToEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		pending *models.PendingMultisigTransaction
		wantErr error
	}{
		{name: "approved call", pending: pendingTx("ok", models.OperationCall, 2, 2)},
		{name: "over-confirmed call", pending: pendingTx("over", models.OperationCall, 3, 2)},
		{name: "missing confirmations", pending: pendingTx("short", models.OperationCall, 1, 2), wantErr: domain.ErrNotApproved},
		{name: "no threshold reported", pending: pendingTx("zero", models.OperationCall, 0, 0), wantErr: domain.ErrNotApproved},
		{name: "delegate call", pending: pendingTx("delegate", models.OperationDelegateCall, 2, 2), wantErr: domain.ErrUnsupportedOperation},
		{name: "nil", wantErr: domain.ErrInvalidEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := ToEnvelope(tt.pending)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pending.To, action.To)
			assert.Equal(t, tt.pending.Data, action.Data)
			assert.Equal(t, 0, action.Value.Sign())
		})
	}
}

func newPendingRelay(env *testEnv, source *fakeSource, selector InteractiveSelector) *PendingRelay {
	return NewPendingRelay(source, env.targets, env.build, selector, env.cfg, discardLogger())
}

func TestPendingRelay_ByHash(t *testing.T) {
	submitter := newFakeSubmitter(5)
	env := directEnv(submitter, false)
	approved := pendingTx("approved", models.OperationCall, 1, 1)
	uc := newPendingRelay(env, &fakeSource{pending: []*models.PendingMultisigTransaction{approved}}, nil)

	result, err := uc.Run(context.Background(), RelayPendingParams{
		SafeTxHash: approved.SafeTxHash.Hex(),
		Nonce:      big.NewInt(19),
	})
	require.NoError(t, err)
	assert.Equal(t, approved, result.Pending)
	assert.Equal(t, models.RelayIncluded, result.Receipt.Status)

	_, exec := decodeExecution(t, submitter.requests[0].Data)
	assert.Equal(t, guardedSafe, exec.safe)
	assert.Equal(t, approved.Data, exec.transaction.Actions[0].Data)
}

func TestPendingRelay_RejectsUnapproved(t *testing.T) {
	submitter := newFakeSubmitter(5)
	env := directEnv(submitter, false)
	unapproved := pendingTx("unapproved", models.OperationCall, 0, 2)
	uc := newPendingRelay(env, &fakeSource{pending: []*models.PendingMultisigTransaction{unapproved}}, nil)

	_, err := uc.Run(context.Background(), RelayPendingParams{
		SafeTxHash: unapproved.SafeTxHash.Hex(),
		Nonce:      big.NewInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
	assert.Empty(t, submitter.requests)
}

func TestPendingRelay_UnknownHash(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	uc := newPendingRelay(env, &fakeSource{}, nil)

	_, err := uc.Run(context.Background(), RelayPendingParams{
		SafeTxHash: crypto.Keccak256Hash([]byte("missing")).Hex(),
		Nonce:      big.NewInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPendingRelay_InteractiveSelection(t *testing.T) {
	submitter := newFakeSubmitter(5)
	env := directEnv(submitter, false)
	env.cfg.Safe = guardedSafe.Hex()
	selector := &fakeSelector{}
	source := &fakeSource{pending: []*models.PendingMultisigTransaction{
		pendingTx("unapproved", models.OperationCall, 0, 2),
		pendingTx("delegate", models.OperationDelegateCall, 2, 2),
		pendingTx("approved", models.OperationCall, 2, 2),
	}}
	uc := newPendingRelay(env, source, selector)

	result, err := uc.Run(context.Background(), RelayPendingParams{Nonce: big.NewInt(20)})
	require.NoError(t, err)
	require.Len(t, selector.offered, 1)
	assert.Equal(t, source.pending[2], result.Pending)
}

func TestPendingRelay_NonInteractiveRequiresHash(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	env.cfg.NonInteractive = true
	uc := newPendingRelay(env, &fakeSource{}, &fakeSelector{})

	_, err := uc.Run(context.Background(), RelayPendingParams{Nonce: big.NewInt(1)})
	assert.ErrorIs(t, err, ErrSelectionRequired)
}

func TestPendingRelay_AccountMismatch(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	approved := pendingTx("approved", models.OperationCall, 1, 1)
	uc := newPendingRelay(env, &fakeSource{pending: []*models.PendingMultisigTransaction{approved}}, nil)

	_, err := uc.Run(context.Background(), RelayPendingParams{
		Target:     TargetParams{Account: counterParty.Hex()},
		SafeTxHash: approved.SafeTxHash.Hex(),
		Nonce:      big.NewInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to")
}

func TestPendingRelay_ListPendingIsLazy(t *testing.T) {
	env := directEnv(newFakeSubmitter(5), false)
	source := &fakeSource{pending: []*models.PendingMultisigTransaction{
		pendingTx("a", models.OperationCall, 1, 1),
		pendingTx("b", models.OperationCall, 1, 1),
		pendingTx("c", models.OperationCall, 1, 1),
	}}
	uc := newPendingRelay(env, source, nil)

	var seen int
	for _, err := range uc.ListPending(context.Background(), guardedSafe) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	// Restartable: a new iteration starts from the beginning.
	var again int
	for range uc.ListPending(context.Background(), guardedSafe) {
		again++
	}
	assert.Equal(t, 3, again)
}
