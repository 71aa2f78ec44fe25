package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// SampleRegistration is the whitelist sample plugin deployed on Goerli.
var SampleRegistration = models.PluginRegistration{
	Name:    "Sample Whitelist Plugin",
	ChainID: 5,
	Address: common.HexToAddress("0x72F73a7Ed4b470c383008685485f79d3Aed5ABca"),
	Source:  models.MetadataFromChain,
}

// Metadata provider types as returned by metadataProvider().
const (
	providerContract = 0
	providerEvent    = 1
)

// PluginRegistry holds the plugins this client relays for: the built-in
// sample plus the [[plugins]] entries of plugrelay.toml.
type PluginRegistry struct {
	regs     []models.PluginRegistration
	registry string
	// registryChain is the network's configured chain id; zero means the
	// chain of whatever connection the lookup runs on.
	registryChain uint64
	log           *slog.Logger
}

// NewPluginRegistry builds the registry from configuration. A configured
// entry replaces a built-in one with the same chain and address.
func NewPluginRegistry(cfg *config.RuntimeConfig, log *slog.Logger) (*PluginRegistry, error) {
	r := &PluginRegistry{log: log.With("component", "PluginRegistry")}

	for i, pc := range cfg.Plugins {
		reg, err := fromConfig(pc)
		if err != nil {
			return nil, fmt.Errorf("plugins[%d]: %w", i, err)
		}
		r.regs = append(r.regs, reg)
	}

	if !r.has(SampleRegistration.ChainID, SampleRegistration.Address) {
		r.regs = append(r.regs, SampleRegistration)
	}

	if cfg.Network != nil && cfg.Network.Registry != "" {
		if _, err := domain.ParseAddress(cfg.Network.Registry); err != nil {
			return nil, fmt.Errorf("network registry: %w", err)
		}
		r.registry = cfg.Network.Registry
		r.registryChain = cfg.Network.ChainID
	}
	return r, nil
}

func fromConfig(pc config.PluginConfig) (models.PluginRegistration, error) {
	addr, err := domain.ParseAddress(pc.Address)
	if err != nil {
		return models.PluginRegistration{}, err
	}
	if pc.ChainID == 0 {
		return models.PluginRegistration{}, fmt.Errorf("chain_id is required for %s", pc.Address)
	}

	reg := models.PluginRegistration{
		Name:    lo.Ternary(pc.Name != "", pc.Name, addr.Hex()),
		ChainID: pc.ChainID,
		Address: addr,
		Source:  models.MetadataFromChain,
	}
	if pc.Metadata == nil {
		return reg, nil
	}

	meta := *pc.Metadata
	reg.Source = models.MetadataFromConfig
	reg.Metadata = &meta
	if reg.MetadataHash, err = protocol.MetadataHash(meta); err != nil {
		return models.PluginRegistration{}, err
	}
	if pc.MetadataHash == "" {
		return reg, nil
	}

	declared, err := hexutil.Decode(pc.MetadataHash)
	if err != nil || len(declared) != common.HashLength {
		return models.PluginRegistration{}, fmt.Errorf("metadata_hash %q for %s is not a 32-byte hex value", pc.MetadataHash, addr.Hex())
	}
	if common.BytesToHash(declared) != reg.MetadataHash {
		return models.PluginRegistration{}, fmt.Errorf("metadata_hash %s for %s, metadata hashes to %s: %w",
			pc.MetadataHash, addr.Hex(), reg.MetadataHash.Hex(), domain.ErrMetadataMismatch)
	}
	return reg, nil
}

func (r *PluginRegistry) has(chainID uint64, addr common.Address) bool {
	_, ok := r.find(chainID, addr)
	return ok
}

func (r *PluginRegistry) find(chainID uint64, addr common.Address) (models.PluginRegistration, bool) {
	return lo.Find(r.regs, func(reg models.PluginRegistration) bool {
		return reg.ChainID == chainID && reg.Address == addr
	})
}

// IsKnownPlugin matches the exact chain id and the address ignoring case.
// Malformed addresses are never known.
func (r *PluginRegistry) IsKnownPlugin(chainID uint64, address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	return r.has(chainID, common.HexToAddress(address))
}

func (r *PluginRegistry) Registrations() []models.PluginRegistration {
	return slices.Clone(r.regs)
}

// Lookup returns the plugin with its metadata. Metadata not given in config
// is read through the plugin's metadata provider and must hash to the
// plugin's metadataHash.
func (r *PluginRegistry) Lookup(ctx context.Context, conn domain.Connection, plugin models.PluginAddress) (*models.PluginDetails, error) {
	reg, ok := r.find(plugin.ChainID, plugin.Address)
	if !ok {
		return nil, fmt.Errorf("plugin %s on chain %d: %w", plugin.Address.Hex(), plugin.ChainID, domain.ErrNotFound)
	}

	if err := r.checkListed(ctx, conn, plugin); err != nil {
		return nil, err
	}

	if reg.Source == models.MetadataFromConfig && reg.Metadata != nil {
		return &models.PluginDetails{Address: plugin, Metadata: *reg.Metadata, MetadataHash: reg.MetadataHash}, nil
	}

	handle, err := bindings.BindWhitelistPlugin(plugin.Address.Hex(), conn)
	if err != nil {
		return nil, err
	}
	hash, err := handle.MetadataHash(ctx)
	if err != nil {
		return nil, err
	}
	provider, err := handle.MetadataProvider(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := r.retrieve(ctx, conn, provider, hash)
	if err != nil {
		return nil, err
	}
	meta, err := protocol.DecodeMetadata(raw, hash)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", plugin.Address.Hex(), err)
	}

	r.log.Debug("loaded plugin metadata", "plugin", plugin.Address, "name", meta.Name, "version", meta.Version)
	return &models.PluginDetails{Address: plugin, Metadata: meta, MetadataHash: hash}, nil
}

func (r *PluginRegistry) retrieve(ctx context.Context, conn domain.Connection, provider bindings.MetadataProviderInfo, hash common.Hash) ([]byte, error) {
	if provider.ProviderType == nil || provider.ProviderType.Int64() != providerContract {
		kind := "unknown"
		if provider.ProviderType != nil && provider.ProviderType.Int64() == providerEvent {
			kind = "event"
		}
		return nil, fmt.Errorf("unsupported metadata provider type %s", kind)
	}

	var location common.Address
	switch len(provider.Location) {
	case common.AddressLength:
		location = common.BytesToAddress(provider.Location)
	case 32:
		location = common.BytesToAddress(provider.Location[12:])
	default:
		return nil, fmt.Errorf("malformed metadata provider location (%d bytes)", len(provider.Location))
	}

	mp, err := bindings.BindMetadataProvider(location.Hex(), conn)
	if err != nil {
		return nil, err
	}
	return mp.RetrieveMetadata(ctx, hash)
}

// checkListed consults the SafeProtocolRegistry when one is configured for the chain.
func (r *PluginRegistry) checkListed(ctx context.Context, conn domain.Connection, plugin models.PluginAddress) error {
	if r.registry == "" {
		return nil
	}
	chainID := r.registryChain
	if chainID == 0 {
		id, err := conn.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("failed to get chain ID: %w", err)
		}
		chainID = id.Uint64()
	}
	if chainID != plugin.ChainID {
		return nil
	}

	address := r.registry
	reg, err := bindings.BindRegistry(address, conn)
	if err != nil {
		return err
	}
	check, err := reg.Check(ctx, plugin.Address)
	if err != nil {
		return err
	}
	if check.ListedAt == 0 {
		return fmt.Errorf("plugin %s is not listed in registry %s: %w", plugin.Address.Hex(), address, domain.ErrUnknownPlugin)
	}
	if check.FlaggedAt != 0 {
		return fmt.Errorf("plugin %s was flagged in registry %s: %w", plugin.Address.Hex(), address, domain.ErrUnknownPlugin)
	}
	return nil
}

var _ usecase.PluginRegistry = (*PluginRegistry)(nil)
