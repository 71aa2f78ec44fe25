package proposal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/adapters/safe"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// serviceProposer is the part of safe.ServiceProposer the router needs.
type serviceProposer interface {
	usecase.TransactionProposer
	Available() bool
}

// Router sends proposals through the host bridge when it is bound to the
// target account, and through the Safe Transaction Service otherwise.
type Router struct {
	host    usecase.HostSession
	service serviceProposer
	log     *slog.Logger
}

// NewRouter creates a proposal router
func NewRouter(host usecase.HostSession, service *safe.ServiceProposer, log *slog.Logger) *Router {
	return newRouter(host, service, log)
}

func newRouter(host usecase.HostSession, service serviceProposer, log *slog.Logger) *Router {
	return &Router{host: host, service: service, log: log.With("component", "ProposalRouter")}
}

func (r *Router) Propose(ctx context.Context, account common.Address, actions []models.SafeProtocolAction) (models.ProposalID, error) {
	if r.host != nil && r.host.Active(ctx) {
		info, err := r.host.SafeInfo(ctx)
		if err == nil && info.SafeAddress == account {
			r.log.Debug("proposing through host", "safe", account, "actions", len(actions))
			return r.host.SendTransactions(ctx, actions)
		}
		if err == nil {
			r.log.Debug("host bound to another account", "host", info.SafeAddress, "safe", account)
		}
	}

	if r.service != nil && r.service.Available() {
		r.log.Debug("proposing through transaction service", "safe", account, "actions", len(actions))
		return r.service.Propose(ctx, account, actions)
	}

	return "", fmt.Errorf("cannot propose to %s: %w", account.Hex(), domain.ErrConnectionUnavailable)
}

var _ usecase.TransactionProposer = (*Router)(nil)
