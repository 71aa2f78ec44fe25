package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
)

// ErrSelectionRequired is returned when no transaction hash was given and
// interactive selection is not possible.
var ErrSelectionRequired = errors.New("a safeTxHash is required in non-interactive mode")

// ToEnvelope converts an approved CALL multisig transaction into the single
// action a plugin can relay.
func ToEnvelope(pending *models.PendingMultisigTransaction) (models.SafeProtocolAction, error) {
	if pending == nil {
		return models.SafeProtocolAction{}, fmt.Errorf("%w: nil pending transaction", domain.ErrInvalidEnvelope)
	}
	if !pending.IsApproved() {
		return models.SafeProtocolAction{}, fmt.Errorf("%w: %s has %d of %d confirmations",
			domain.ErrNotApproved, pending.SafeTxHash.Hex(), len(pending.Confirmations), pending.ConfirmationsRequired)
	}
	if pending.Operation != models.OperationCall {
		return models.SafeProtocolAction{}, fmt.Errorf("%w: %s is a delegate call", domain.ErrUnsupportedOperation, pending.SafeTxHash.Hex())
	}
	return protocol.BuildAction(pending.To, pending.Value, pending.Data), nil
}

// RelayPendingParams contains parameters for relaying a pending transaction
type RelayPendingParams struct {
	Target          TargetParams
	SafeTxHash      string
	Nonce           *big.Int
	ManagerOverride *common.Address
}

// RelayPendingResult is a relayed pending transaction
type RelayPendingResult struct {
	Pending *models.PendingMultisigTransaction
	Receipt *models.RelayReceipt
}

// PendingRelay is a use case for listing queued multisig transactions and
// relaying approved ones through the plugin.
type PendingRelay struct {
	source        PendingTransactionSource
	targets       *TargetResolver
	buildAndRelay *BuildAndRelay
	selector      InteractiveSelector
	cfg           *config.RuntimeConfig
	log           *slog.Logger
}

// NewPendingRelay creates a new PendingRelay use case
func NewPendingRelay(
	source PendingTransactionSource,
	targets *TargetResolver,
	buildAndRelay *BuildAndRelay,
	selector InteractiveSelector,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *PendingRelay {
	return &PendingRelay{
		source:        source,
		targets:       targets,
		buildAndRelay: buildAndRelay,
		selector:      selector,
		cfg:           cfg,
		log:           log.With("component", "PendingRelay"),
	}
}

// ResolveAccount resolves the guarded account for target.
func (uc *PendingRelay) ResolveAccount(ctx context.Context, target TargetParams) (common.Address, error) {
	if target.Account != "" {
		return domain.ParseAddress(target.Account)
	}
	resolved, err := uc.targets.Resolve(ctx, target)
	if err != nil {
		return common.Address{}, err
	}
	resolved.Conn.Close()
	return resolved.Account, nil
}

// ListPending yields the account's unexecuted transactions lazily. Each call
// restarts from the service; nothing is cached.
func (uc *PendingRelay) ListPending(ctx context.Context, account common.Address) iter.Seq2[*models.PendingMultisigTransaction, error] {
	uc.log.Debug("listing pending transactions", "safe", account.Hex())
	return uc.source.ListPending(ctx, account)
}

// Run relays one pending transaction, selecting it interactively when no
// hash is given.
func (uc *PendingRelay) Run(ctx context.Context, params RelayPendingParams) (*RelayPendingResult, error) {
	pending, err := uc.pick(ctx, params)
	if err != nil {
		return nil, err
	}

	if params.Target.Account == "" {
		params.Target.Account = pending.Safe.Hex()
	} else if !domain.SameAddress(params.Target.Account, pending.Safe.Hex()) {
		return nil, fmt.Errorf("pending transaction %s belongs to %s, not %s", pending.SafeTxHash.Hex(), pending.Safe.Hex(), params.Target.Account)
	}

	action, err := ToEnvelope(pending)
	if err != nil {
		return nil, err
	}

	uc.log.Info("relaying pending transaction",
		"safeTxHash", pending.SafeTxHash.Hex(),
		"safe", pending.Safe.Hex(),
		"to", action.To.Hex())

	receipt, err := uc.buildAndRelay.Run(ctx, BuildAndRelayParams{
		Target:          params.Target,
		To:              action.To,
		Value:           action.Value,
		Data:            action.Data,
		Nonce:           params.Nonce,
		ManagerOverride: params.ManagerOverride,
	})
	if err != nil {
		return nil, err
	}
	return &RelayPendingResult{Pending: pending, Receipt: receipt}, nil
}

func (uc *PendingRelay) pick(ctx context.Context, params RelayPendingParams) (*models.PendingMultisigTransaction, error) {
	if params.SafeTxHash != "" {
		raw := common.FromHex(params.SafeTxHash)
		if len(raw) != common.HashLength {
			return nil, fmt.Errorf("invalid safeTxHash %q", params.SafeTxHash)
		}
		return uc.source.GetTransaction(ctx, common.BytesToHash(raw))
	}

	if uc.cfg.NonInteractive || uc.selector == nil {
		return nil, ErrSelectionRequired
	}

	account, err := uc.ResolveAccount(ctx, params.Target)
	if err != nil {
		return nil, err
	}

	var all []*models.PendingMultisigTransaction
	for pending, err := range uc.ListPending(ctx, account) {
		if err != nil {
			return nil, err
		}
		all = append(all, pending)
	}

	relayable := lo.Filter(all, func(p *models.PendingMultisigTransaction, _ int) bool {
		_, err := ToEnvelope(p)
		return err == nil
	})
	if len(relayable) == 0 {
		return nil, fmt.Errorf("%w: no approved pending transactions for %s", domain.ErrNotFound, account.Hex())
	}

	return uc.selector.SelectPending(ctx, relayable, "Select a transaction to relay")
}
