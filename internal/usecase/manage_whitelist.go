package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/domain/protocol"
)

// ManageWhitelistParams contains parameters for editing an allow-list entry
type ManageWhitelistParams struct {
	Target  TargetParams
	Edit    models.WhitelistEdit
	Counter string
}

// ManageWhitelistResult is a proposed allow-list edit
type ManageWhitelistResult struct {
	Edit       models.WhitelistEdit
	Plugin     models.PluginAddress
	Account    string
	Counter    string
	Action     models.SafeProtocolAction
	ProposalID models.ProposalID
}

// ManageWhitelist is a use case for adding and removing allow-list entries.
// Edits are proposed to the guarded account; no current state is checked first.
type ManageWhitelist struct {
	targets  *TargetResolver
	proposer TransactionProposer
	log      *slog.Logger
}

// NewManageWhitelist creates a new ManageWhitelist use case
func NewManageWhitelist(targets *TargetResolver, proposer TransactionProposer, log *slog.Logger) *ManageWhitelist {
	return &ManageWhitelist{
		targets:  targets,
		proposer: proposer,
		log:      log.With("component", "ManageWhitelist"),
	}
}

// Add proposes addToWhitelist(counter).
func (uc *ManageWhitelist) Add(ctx context.Context, target TargetParams, counter string) (*ManageWhitelistResult, error) {
	return uc.Run(ctx, ManageWhitelistParams{Target: target, Edit: models.WhitelistAdd, Counter: counter})
}

// Remove proposes removeFromWhitelist(counter).
func (uc *ManageWhitelist) Remove(ctx context.Context, target TargetParams, counter string) (*ManageWhitelistResult, error) {
	return uc.Run(ctx, ManageWhitelistParams{Target: target, Edit: models.WhitelistRemove, Counter: counter})
}

// Run builds a single value-0 action against the plugin and proposes it.
func (uc *ManageWhitelist) Run(ctx context.Context, params ManageWhitelistParams) (*ManageWhitelistResult, error) {
	counter, err := domain.ParseAddress(params.Counter)
	if err != nil {
		return nil, err
	}

	target, err := uc.targets.Resolve(ctx, params.Target)
	if err != nil {
		return nil, err
	}
	// Only the plugin and account are needed; proposals travel their own path.
	target.Conn.Close()

	plugin := bindings.NewWhitelistPlugin()
	var data []byte
	switch params.Edit {
	case models.WhitelistAdd:
		data, err = plugin.PackAddToWhitelist(counter)
	case models.WhitelistRemove:
		data, err = plugin.PackRemoveFromWhitelist(counter)
	default:
		return nil, fmt.Errorf("unknown whitelist edit %q", params.Edit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", params.Edit, err)
	}

	action := protocol.BuildAction(target.Plugin.Address, nil, data)

	uc.log.Info("proposing whitelist edit",
		"edit", params.Edit,
		"plugin", target.Plugin.Address.Hex(),
		"safe", target.Account.Hex(),
		"counter", counter.Hex())

	id, err := uc.proposer.Propose(ctx, target.Account, []models.SafeProtocolAction{action})
	if err != nil {
		return nil, fmt.Errorf("failed to propose %s: %w", params.Edit, err)
	}

	return &ManageWhitelistResult{
		Edit:       params.Edit,
		Plugin:     target.Plugin,
		Account:    target.Account.Hex(),
		Counter:    counter.Hex(),
		Action:     action,
		ProposalID: id,
	}, nil
}
