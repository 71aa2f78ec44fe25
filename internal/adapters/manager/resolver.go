package manager

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// FallbackHandlerSlot is keccak256("fallback_manager.handler.address"), where
// a Safe stores its fallback handler. Safe{Core} protocol managers are
// installed as both fallback handler and module.
var FallbackHandlerSlot = common.HexToHash("0x6c9a6c4a39284e37ed1cf53d337577d14212a4870fb976a4366c693b939918d5")

// Resolver finds the execution manager of a Safe.
type Resolver struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewResolver creates a new manager resolver
func NewResolver(cfg *config.RuntimeConfig, log *slog.Logger) *Resolver {
	return &Resolver{cfg: cfg, log: log.With("component", "ManagerResolver")}
}

// ManagerFor returns the configured manager for the connection's chain, or
// else the account's fallback handler. Either way the manager must be an
// enabled module of the account.
func (r *Resolver) ManagerFor(ctx context.Context, conn domain.Connection, account common.Address) (common.Address, error) {
	manager, err := r.candidate(ctx, conn, account)
	if err != nil {
		return common.Address{}, err
	}

	safe, err := bindings.BindSafe(account.Hex(), conn)
	if err != nil {
		return common.Address{}, err
	}
	enabled, err := safe.IsModuleEnabled(ctx, manager)
	if err != nil {
		return common.Address{}, err
	}
	if !enabled {
		return common.Address{}, fmt.Errorf("%s on %s: %w", manager.Hex(), account.Hex(), domain.ErrManagerNotEnabled)
	}

	r.log.Debug("resolved manager", "safe", account, "manager", manager)
	return manager, nil
}

func (r *Resolver) candidate(ctx context.Context, conn domain.Connection, account common.Address) (common.Address, error) {
	if r.cfg.Network != nil && r.cfg.Network.Manager != "" {
		chainID, err := conn.ChainID(ctx)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to get chain ID: %w", err)
		}
		if r.cfg.Network.ChainID == 0 || chainID.Uint64() == r.cfg.Network.ChainID {
			return domain.ParseAddress(r.cfg.Network.Manager)
		}
	}

	raw, err := conn.StorageAt(ctx, account, FallbackHandlerSlot)
	if err != nil {
		return common.Address{}, &domain.ReadError{Contract: "Safe", Method: "fallbackHandler", Cause: err}
	}
	handler := common.BytesToAddress(raw)
	if handler == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no fallback handler on %s: %w", account.Hex(), domain.ErrNotFound)
	}
	return handler, nil
}

var _ usecase.ManagerResolver = (*Resolver)(nil)
