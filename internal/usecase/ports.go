package usecase

import (
	"context"
	"iter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// HostSession is the wallet bridge of an embedding host (a Safe app host).
type HostSession interface {
	// Active reports whether a host bridge is reachable for this call.
	Active(ctx context.Context) bool
	SafeInfo(ctx context.Context) (*models.SafeInfo, error)
	// Connection returns a read-only connection routed through the host.
	Connection(ctx context.Context) (domain.Connection, error)
	// SendTransactions proposes actions to the account the host is bound to.
	SendTransactions(ctx context.Context, actions []models.SafeProtocolAction) (models.ProposalID, error)
}

// DirectDialer opens a caller-managed connection to the configured endpoint.
// When a signing credential is configured the returned connection also
// implements domain.Submitter.
type DirectDialer interface {
	Dial(ctx context.Context) (domain.Connection, error)
}

// PluginRegistry answers which plugins this client knows about.
type PluginRegistry interface {
	IsKnownPlugin(chainID uint64, address string) bool
	Registrations() []models.PluginRegistration
	// Lookup returns ErrNotFound for unregistered plugins.
	Lookup(ctx context.Context, conn domain.Connection, plugin models.PluginAddress) (*models.PluginDetails, error)
}

// ManagerResolver finds the execution manager guarding an account.
type ManagerResolver interface {
	ManagerFor(ctx context.Context, conn domain.Connection, account common.Address) (common.Address, error)
}

// TransactionProposer submits actions for approval by the account owners.
type TransactionProposer interface {
	Propose(ctx context.Context, account common.Address, actions []models.SafeProtocolAction) (models.ProposalID, error)
}

// PendingTransactionSource reads queued multisig transactions.
type PendingTransactionSource interface {
	// ListPending yields unexecuted transactions lazily, page by page.
	ListPending(ctx context.Context, safe common.Address) iter.Seq2[*models.PendingMultisigTransaction, error]
	GetTransaction(ctx context.Context, safeTxHash common.Hash) (*models.PendingMultisigTransaction, error)
}

// InteractiveSelector handles interactive choices
type InteractiveSelector interface {
	SelectPending(ctx context.Context, txs []*models.PendingMultisigTransaction, prompt string) (*models.PendingMultisigTransaction, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string) {}
func (NopProgress) Error(string) {}
