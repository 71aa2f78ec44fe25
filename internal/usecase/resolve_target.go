package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// ErrNoGuardedAccount is returned when no account was given and none can be inferred.
var ErrNoGuardedAccount = errors.New("no guarded account: pass --safe, set PLUGRELAY_SAFE or run inside a host")

// TargetParams selects the plugin and account an operation acts on.
// Empty fields fall back to the host session and then to configuration.
type TargetParams struct {
	Plugin      string
	Account     string
	ForceDirect bool
}

// Target is a resolved (connection, plugin, account) triple. The caller
// owns Conn and closes it.
type Target struct {
	Conn    domain.Connection
	Plugin  models.PluginAddress
	Account common.Address
}

// TargetResolver resolves the plugin and guarded account for an operation.
type TargetResolver struct {
	connections *ConnectionResolver
	host        HostSession
	registry    PluginRegistry
	cfg         *config.RuntimeConfig
	log         *slog.Logger
}

// NewTargetResolver creates a new TargetResolver
func NewTargetResolver(
	connections *ConnectionResolver,
	host HostSession,
	registry PluginRegistry,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *TargetResolver {
	return &TargetResolver{
		connections: connections,
		host:        host,
		registry:    registry,
		cfg:         cfg,
		log:         log.With("component", "TargetResolver"),
	}
}

// Resolve opens a connection and validates the plugin against the registry
// for the connection's chain. Unregistered plugins yield ErrUnknownPlugin.
// On error the connection is already closed.
func (r *TargetResolver) Resolve(ctx context.Context, params TargetParams) (*Target, error) {
	conn, err := r.connections.Resolve(ctx, params.ForceDirect)
	if err != nil {
		return nil, err
	}

	target, err := r.resolveOn(ctx, conn, params)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return target, nil
}

func (r *TargetResolver) resolveOn(ctx context.Context, conn domain.Connection, params TargetParams) (*Target, error) {
	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return nil, fmt.Errorf("%w: chain id %s", domain.ErrNetworkMismatch, chainID)
	}

	plugin, err := r.selectPlugin(chainID.Uint64(), params.Plugin)
	if err != nil {
		return nil, err
	}

	account, err := r.selectAccount(ctx, chainID.Uint64(), params.Account)
	if err != nil {
		return nil, err
	}

	r.log.Debug("resolved target",
		"kind", conn.Kind(),
		"chain", plugin.ChainID,
		"plugin", plugin.Address.Hex(),
		"safe", account.Hex())

	return &Target{Conn: conn, Plugin: plugin, Account: account}, nil
}

func (r *TargetResolver) selectPlugin(chainID uint64, requested string) (models.PluginAddress, error) {
	if requested == "" {
		requested = r.cfg.Plugin
	}
	if requested == "" {
		onChain := lo.Filter(r.registry.Registrations(), func(reg models.PluginRegistration, _ int) bool {
			return reg.ChainID == chainID
		})
		if len(onChain) != 1 {
			return models.PluginAddress{}, fmt.Errorf("%w: no plugin selected and %d registered on chain %d", domain.ErrUnknownPlugin, len(onChain), chainID)
		}
		requested = onChain[0].Address.Hex()
	}

	addr, err := domain.ParseAddress(requested)
	if err != nil {
		return models.PluginAddress{}, err
	}
	if !r.registry.IsKnownPlugin(chainID, addr.Hex()) {
		return models.PluginAddress{}, fmt.Errorf("%w: %s on chain %d", domain.ErrUnknownPlugin, addr.Hex(), chainID)
	}
	return models.PluginAddress{ChainID: chainID, Address: addr}, nil
}

func (r *TargetResolver) selectAccount(ctx context.Context, chainID uint64, requested string) (common.Address, error) {
	if requested != "" {
		return domain.ParseAddress(requested)
	}

	if r.host != nil && r.host.Active(ctx) {
		info, err := r.host.SafeInfo(ctx)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to read host safe info: %w", err)
		}
		if info.ChainID != chainID {
			return common.Address{}, fmt.Errorf("%w: host is on chain %d, connection on %d", domain.ErrNetworkMismatch, info.ChainID, chainID)
		}
		return info.SafeAddress, nil
	}

	if r.cfg.Safe != "" {
		return domain.ParseAddress(r.cfg.Safe)
	}
	return common.Address{}, ErrNoGuardedAccount
}
