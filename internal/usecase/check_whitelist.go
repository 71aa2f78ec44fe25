package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/bindings"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// IsWhitelisted reads whether counter is on guarded's allow-list. The value is
// always read fresh. On failure the boolean carries no meaning and the error
// matches domain.ErrReadFailed.
func IsWhitelisted(ctx context.Context, plugin *bindings.WhitelistPluginHandle, guarded, counter common.Address) (bool, error) {
	whitelisted, err := plugin.WhitelistedAddresses(ctx, guarded, counter)
	if err != nil {
		return false, err
	}
	return whitelisted, nil
}

// CheckWhitelistParams contains parameters for checking an allow-list entry
type CheckWhitelistParams struct {
	Target  TargetParams
	Counter string
}

// CheckWhitelist is a use case for checking allow-list membership
type CheckWhitelist struct {
	targets *TargetResolver
	log     *slog.Logger
}

// NewCheckWhitelist creates a new CheckWhitelist use case
func NewCheckWhitelist(targets *TargetResolver, log *slog.Logger) *CheckWhitelist {
	return &CheckWhitelist{
		targets: targets,
		log:     log.With("component", "CheckWhitelist"),
	}
}

// Run checks one entry. When the read fails the returned check has status
// unknown and the error is returned alongside it.
func (uc *CheckWhitelist) Run(ctx context.Context, params CheckWhitelistParams) (*models.WhitelistCheck, error) {
	counter, err := domain.ParseAddress(params.Counter)
	if err != nil {
		return nil, err
	}

	target, err := uc.targets.Resolve(ctx, params.Target)
	if err != nil {
		return nil, err
	}
	defer target.Conn.Close()

	plugin, err := bindings.BindWhitelistPlugin(target.Plugin.Address.Hex(), target.Conn)
	if err != nil {
		return nil, err
	}

	check := &models.WhitelistCheck{
		Plugin:         target.Plugin,
		GuardedAccount: target.Account,
		CounterAccount: counter,
	}

	whitelisted, err := IsWhitelisted(ctx, plugin, target.Account, counter)
	if err != nil {
		uc.log.Warn("whitelist check failed", "safe", target.Account.Hex(), "counter", counter.Hex(), "error", err)
		check.Status = models.WhitelistUnknown
		check.Error = err.Error()
		return check, err
	}

	if whitelisted {
		check.Status = models.WhitelistConfirmed
	} else {
		check.Status = models.WhitelistAbsent
	}
	return check, nil
}
