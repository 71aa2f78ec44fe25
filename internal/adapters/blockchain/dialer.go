package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
)

// Dialer opens direct connections to the configured RPC endpoint.
type Dialer struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewDialer creates a new dialer
func NewDialer(cfg *config.RuntimeConfig, log *slog.Logger) *Dialer {
	return &Dialer{cfg: cfg, log: log.With("component", "Dialer")}
}

// Dial connects and verifies the chain id. The connection is a Signer when a
// signer key is configured.
func (d *Dialer) Dial(ctx context.Context) (domain.Connection, error) {
	if d.cfg.Network == nil || d.cfg.Network.RPCURL == "" {
		return nil, fmt.Errorf("no rpc_url configured: %w", domain.ErrConnectionUnavailable)
	}

	client, err := ethclient.DialContext(ctx, d.cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w: %w", domain.ErrConnectionUnavailable, err)
	}
	conn := NewConnection(domain.ConnectionDirect, client)

	chainID, err := conn.ChainID(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionUnavailable, err)
	}

	// A zero chain id in config means accept whatever the endpoint reports
	if want := d.cfg.Network.ChainID; want != 0 && chainID.Uint64() != want {
		conn.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d: %w", want, chainID.Uint64(), domain.ErrNetworkMismatch)
	}

	if d.cfg.SignerKey == "" {
		d.log.Debug("dialed read-only connection", "network", d.cfg.Network.Name, "chain", chainID)
		return conn, nil
	}

	signer, err := NewSigner(conn, d.cfg.SignerKey, chainID)
	if err != nil {
		conn.Close()
		return nil, err
	}
	d.log.Debug("dialed signing connection", "network", d.cfg.Network.Name, "chain", chainID, "from", signer.From())
	return signer, nil
}
