package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
)

// BuildAndRelayParams contains parameters for building and relaying one call
type BuildAndRelayParams struct {
	Target          TargetParams
	To              common.Address
	Value           *big.Int
	Data            []byte
	Nonce           *big.Int
	RootAccess      bool
	ManagerOverride *common.Address
}

// BuildAndRelay is a use case that binds a call to the plugin's registered
// metadata, builds the envelope and relays it.
type BuildAndRelay struct {
	targets  *TargetResolver
	registry PluginRegistry
	relay    *Relay
	log      *slog.Logger
}

// NewBuildAndRelay creates a new BuildAndRelay use case
func NewBuildAndRelay(targets *TargetResolver, registry PluginRegistry, relay *Relay, log *slog.Logger) *BuildAndRelay {
	return &BuildAndRelay{
		targets:  targets,
		registry: registry,
		relay:    relay,
		log:      log.With("component", "BuildAndRelay"),
	}
}

// Run resolves the plugin, refuses root access the plugin did not declare,
// builds the envelope and relays it.
func (uc *BuildAndRelay) Run(ctx context.Context, params BuildAndRelayParams) (*models.RelayReceipt, error) {
	params.Target.ForceDirect = true
	target, err := uc.targets.Resolve(ctx, params.Target)
	if err != nil {
		return nil, err
	}
	defer target.Conn.Close()

	details, err := uc.registry.Lookup(ctx, target.Conn, target.Plugin)
	if err != nil {
		return nil, fmt.Errorf("failed to look up plugin %s: %w", target.Plugin.Address.Hex(), err)
	}

	envelope, err := BuildEnvelope(details, params)
	if err != nil {
		return nil, err
	}

	uc.log.Debug("built envelope",
		"kind", envelope.EnvelopeKind(),
		"plugin", details.Metadata.Name,
		"metadataHash", details.MetadataHash.Hex())

	return uc.relay.Run(ctx, RelayParams{
		Plugin:          target.Plugin,
		GuardedAccount:  target.Account,
		Envelope:        envelope,
		ManagerOverride: params.ManagerOverride,
		Conn:            target.Conn,
	})
}

// BuildEnvelope builds the envelope variant requested by params, bound to
// the plugin's metadata hash.
func BuildEnvelope(details *models.PluginDetails, params BuildAndRelayParams) (models.Envelope, error) {
	if params.RootAccess {
		if !details.Metadata.RequiresRootAccess {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootAccessNotDeclared, details.Address.Address.Hex())
		}
		root, err := protocol.BuildRootAccess(params.To, params.Value, params.Data, params.Nonce, details.MetadataHash)
		if err != nil {
			return nil, err
		}
		return root, nil
	}

	batch, err := protocol.BuildBatch(params.To, params.Value, params.Data, params.Nonce, details.MetadataHash)
	if err != nil {
		return nil, err
	}
	return batch, nil
}
