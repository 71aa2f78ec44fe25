package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/adapters/blockchain"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// probeTimeout bounds the liveness check in Active.
const probeTimeout = 2 * time.Second

// BridgeSession talks to an embedding Safe app host over JSON-RPC. Besides
// the regular eth_* namespace the host serves safe_getInfo and
// safe_sendTransactions.
type BridgeSession struct {
	url string
	log *slog.Logger
}

// NewBridgeSession creates a session for cfg.HostURL. An empty URL yields a
// session that is never active.
func NewBridgeSession(cfg *config.RuntimeConfig, log *slog.Logger) *BridgeSession {
	return &BridgeSession{url: cfg.HostURL, log: log.With("component", "BridgeSession")}
}

type bridgeTx struct {
	To    string        `json:"to"`
	Value string        `json:"value"`
	Data  hexutil.Bytes `json:"data"`
}

type sendParams struct {
	Txs []bridgeTx `json:"txs"`
}

type sendResult struct {
	SafeTxHash string `json:"safeTxHash"`
}

// Active reports whether the host answers safe_getInfo right now.
func (s *BridgeSession) Active(ctx context.Context) bool {
	if s.url == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if _, err := s.SafeInfo(ctx); err != nil {
		s.log.Debug("host bridge not reachable", "error", err)
		return false
	}
	return true
}

func (s *BridgeSession) SafeInfo(ctx context.Context) (*models.SafeInfo, error) {
	client, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var info models.SafeInfo
	if err := client.CallContext(ctx, &info, "safe_getInfo"); err != nil {
		return nil, fmt.Errorf("safe_getInfo: %w", err)
	}
	return &info, nil
}

// Connection returns an ambient connection routed through the host.
func (s *BridgeSession) Connection(ctx context.Context) (domain.Connection, error) {
	client, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	return blockchain.NewConnection(domain.ConnectionAmbient, ethclient.NewClient(client)), nil
}

// SendTransactions hands the actions to the host, which proposes them to its
// bound account for owner approval.
func (s *BridgeSession) SendTransactions(ctx context.Context, actions []models.SafeProtocolAction) (models.ProposalID, error) {
	if len(actions) == 0 {
		return "", fmt.Errorf("no transactions to send: %w", domain.ErrInvalidEnvelope)
	}

	client, err := s.dial(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	params := sendParams{Txs: lo.Map(actions, func(a models.SafeProtocolAction, _ int) bridgeTx {
		value := "0"
		if a.Value != nil {
			value = a.Value.String()
		}
		return bridgeTx{To: a.To.Hex(), Value: value, Data: a.Data}
	})}

	var result sendResult
	if err := client.CallContext(ctx, &result, "safe_sendTransactions", params); err != nil {
		return "", fmt.Errorf("safe_sendTransactions: %w", err)
	}
	s.log.Debug("host accepted transactions", "count", len(actions), "safeTxHash", result.SafeTxHash)
	return models.ProposalID(result.SafeTxHash), nil
}

func (s *BridgeSession) dial(ctx context.Context) (*rpc.Client, error) {
	if s.url == "" {
		return nil, fmt.Errorf("no host bridge configured: %w", domain.ErrConnectionUnavailable)
	}
	client, err := rpc.DialContext(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionUnavailable, err)
	}
	return client, nil
}

var _ usecase.HostSession = (*BridgeSession)(nil)
