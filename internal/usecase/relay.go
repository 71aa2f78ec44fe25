package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// DefaultRelayGasLimit is the gas ceiling used when none is configured.
const DefaultRelayGasLimit uint64 = 1_000_000

// RelayParams contains parameters for relaying a built envelope
type RelayParams struct {
	Plugin         models.PluginAddress
	GuardedAccount common.Address
	Envelope       models.Envelope
	// ManagerOverride is used verbatim when set.
	ManagerOverride *common.Address
	// Conn is an already resolved connection to submit on. It stays open;
	// when nil the relay dials and closes its own.
	Conn domain.Connection
}

// Relay is a use case for forwarding an envelope through the plugin's
// execution entry point. Each call is a single attempt; nothing is retried.
type Relay struct {
	connections *ConnectionResolver
	managers    ManagerResolver
	ledger      *NonceLedger
	progress    ProgressSink
	cfg         *config.RuntimeConfig
	log         *slog.Logger
}

// NewRelay creates a new Relay use case
func NewRelay(
	connections *ConnectionResolver,
	managers ManagerResolver,
	ledger *NonceLedger,
	progress ProgressSink,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *Relay {
	return &Relay{
		connections: connections,
		managers:    managers,
		ledger:      ledger,
		progress:    progress,
		cfg:         cfg,
		log:         log.With("component", "Relay"),
	}
}

// Run submits the envelope over a direct credentialed connection and waits
// once for inclusion. Every failure matches domain.ErrRelayFailed.
func (uc *Relay) Run(ctx context.Context, params RelayParams) (*models.RelayReceipt, error) {
	if params.Envelope == nil {
		return nil, fmt.Errorf("%w: missing envelope", domain.ErrInvalidEnvelope)
	}
	nonce := params.Envelope.EnvelopeNonce()
	if nonce == nil {
		return nil, fmt.Errorf("%w: missing nonce", domain.ErrInvalidEnvelope)
	}

	attempt := models.NewRelayAttempt(params.Plugin.Address, params.GuardedAccount, params.Envelope)
	log := uc.log.With(
		"attempt", attempt.ID.String(),
		"plugin", params.Plugin.Address.Hex(),
		"safe", params.GuardedAccount.Hex(),
		"nonce", nonce.String(),
		"kind", params.Envelope.EnvelopeKind())

	if err := uc.ledger.Reserve(params.Plugin, params.GuardedAccount, nonce); err != nil {
		return nil, err
	}
	submitted := false
	defer func() {
		if !submitted {
			uc.ledger.Release(params.Plugin, params.GuardedAccount, nonce)
		}
	}()

	conn := params.Conn
	if conn == nil || conn.Kind() != domain.ConnectionDirect {
		dialed, err := uc.connections.Resolve(ctx, true)
		if err != nil {
			return nil, &domain.RelayError{Stage: domain.RelayStageSubmit, Cause: err}
		}
		defer dialed.Close()
		conn = dialed
	}
	submitter, ok := conn.(domain.Submitter)
	if !ok {
		return nil, &domain.RelayError{Stage: domain.RelayStageSubmit, Cause: domain.ErrNotCredentialed}
	}
	if err := checkChain(ctx, conn, params.Plugin.ChainID); err != nil {
		return nil, &domain.RelayError{Stage: domain.RelayStageSubmit, Cause: err}
	}

	manager, err := uc.resolveManager(ctx, conn, params)
	if err != nil {
		return nil, &domain.RelayError{Stage: domain.RelayStageManager, Cause: err}
	}
	attempt.Manager = manager

	plugin, err := bindings.BindWhitelistPlugin(params.Plugin.Address.Hex(), conn)
	if err != nil {
		return nil, &domain.RelayError{Stage: domain.RelayStageEncode, Cause: err}
	}
	calldata, err := packExecution(plugin.Contract(), manager, params.GuardedAccount, params.Envelope)
	if err != nil {
		return nil, &domain.RelayError{Stage: domain.RelayStageEncode, Cause: err}
	}

	gasLimit := uc.cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultRelayGasLimit
	}

	log.Info("submitting relay", "manager", manager.Hex(), "gas", gasLimit)
	txHash, err := plugin.Transact(ctx, calldata, nil, gasLimit)
	if err != nil {
		_ = attempt.Advance(models.RelayNetworkFailed)
		return nil, &domain.RelayError{Stage: domain.RelayStageSubmit, Cause: err}
	}
	submitted = true
	attempt.TxHash = txHash
	if err := attempt.Advance(models.RelaySubmitted); err != nil {
		return nil, err
	}

	receipt, err := uc.waitForInclusion(ctx, submitter, txHash)
	if err != nil {
		_ = attempt.Advance(models.RelayNetworkFailed)
		log.Warn("relay inclusion failed", "tx", txHash.Hex(), "error", err)
		return nil, &domain.RelayError{Stage: domain.RelayStageInclude, TxHash: txHash.Hex(), Cause: err}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		_ = attempt.Advance(models.RelayReverted)
		log.Warn("relay reverted", "tx", txHash.Hex(), "block", receipt.BlockNumber)
		return nil, &domain.RelayError{Stage: domain.RelayStageInclude, TxHash: txHash.Hex(), Cause: domain.ErrReverted}
	}
	if err := attempt.Advance(models.RelayIncluded); err != nil {
		return nil, err
	}

	log.Info("relay included", "tx", txHash.Hex(), "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed)
	return &models.RelayReceipt{
		AttemptID:   attempt.ID,
		TxHash:      txHash,
		Status:      attempt.State,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		GasLimit:    gasLimit,
		Manager:     manager,
		Nonce:       nonce,
		Kind:        params.Envelope.EnvelopeKind(),
	}, nil
}

func (uc *Relay) resolveManager(ctx context.Context, conn domain.Connection, params RelayParams) (common.Address, error) {
	if params.ManagerOverride != nil {
		return *params.ManagerOverride, nil
	}
	if uc.managers == nil {
		return common.Address{}, fmt.Errorf("%w: no manager resolver", domain.ErrNotFound)
	}
	return uc.managers.ManagerFor(ctx, conn, params.GuardedAccount)
}

func (uc *Relay) waitForInclusion(ctx context.Context, submitter domain.Submitter, txHash common.Hash) (*types.Receipt, error) {
	if uc.cfg.ReceiptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.ReceiptTimeout)
		defer cancel()
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "include",
		Message: fmt.Sprintf("Waiting for %s to be included...", txHash.Hex()),
		Spinner: true,
	})
	defer uc.progress.OnProgress(ctx, ProgressEvent{Stage: "include"})

	return submitter.Wait(ctx, txHash)
}

// packExecution encodes the plugin entry point matching the envelope variant.
func packExecution(plugin *bindings.WhitelistPlugin, manager, account common.Address, envelope models.Envelope) ([]byte, error) {
	switch env := envelope.(type) {
	case models.SafeTransaction:
		return plugin.PackExecuteFromPlugin(manager, account, bindings.ToSafeTransaction(env))
	case models.SafeRootAccess:
		return plugin.PackExecuteRootAccessFromPlugin(manager, account, bindings.ToSafeRootAccess(env))
	default:
		return nil, fmt.Errorf("%w: unsupported envelope %T", domain.ErrInvalidEnvelope, envelope)
	}
}

func checkChain(ctx context.Context, conn domain.Connection, want uint64) error {
	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != want {
		return fmt.Errorf("%w: plugin is on chain %d, connection on %s", domain.ErrNetworkMismatch, want, chainID)
	}
	return nil
}
