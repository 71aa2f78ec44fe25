package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// ShowPluginParams identifies a plugin to describe. A zero ChainID means the
// chain of the resolved connection.
type ShowPluginParams struct {
	ChainID uint64
	Address string
}

// PluginCatalog is a use case for listing, checking and describing plugins
type PluginCatalog struct {
	registry    PluginRegistry
	connections *ConnectionResolver
	log         *slog.Logger
}

// NewPluginCatalog creates a new PluginCatalog use case
func NewPluginCatalog(registry PluginRegistry, connections *ConnectionResolver, log *slog.Logger) *PluginCatalog {
	return &PluginCatalog{
		registry:    registry,
		connections: connections,
		log:         log.With("component", "PluginCatalog"),
	}
}

// List returns all registrations ordered by chain and name.
func (uc *PluginCatalog) List() []models.PluginRegistration {
	regs := uc.registry.Registrations()
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].ChainID != regs[j].ChainID {
			return regs[i].ChainID < regs[j].ChainID
		}
		return regs[i].Name < regs[j].Name
	})
	return regs
}

// IsKnownPlugin reports whether address is registered on chainID.
func (uc *PluginCatalog) IsKnownPlugin(chainID uint64, address string) bool {
	return uc.registry.IsKnownPlugin(chainID, address)
}

// Show looks up the details of a registered plugin, reading its metadata on
// chain when the registration does not carry a static block.
func (uc *PluginCatalog) Show(ctx context.Context, params ShowPluginParams) (*models.PluginDetails, error) {
	addr, err := domain.ParseAddress(params.Address)
	if err != nil {
		return nil, err
	}

	conn, err := uc.connections.Resolve(ctx, false)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if params.ChainID != 0 && chainID.Uint64() != params.ChainID {
		return nil, fmt.Errorf("%w: requested chain %d, connected to %s", domain.ErrNetworkMismatch, params.ChainID, chainID)
	}

	uc.log.Debug("looking up plugin", "plugin", addr.Hex(), "chain", chainID)
	return uc.registry.Lookup(ctx, conn, models.PluginAddress{ChainID: chainID.Uint64(), Address: addr})
}
