package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/plugrelay/internal/domain"
)

// Connection is a domain.Connection over an ethclient.
type Connection struct {
	kind   domain.ConnectionKind
	client *ethclient.Client
}

// NewConnection wraps client. kind tells whether the endpoint is host managed.
func NewConnection(kind domain.ConnectionKind, client *ethclient.Client) *Connection {
	return &Connection{kind: kind, client: client}
}

func (c *Connection) Kind() domain.ConnectionKind {
	return c.kind
}

func (c *Connection) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id, nil
}

func (c *Connection) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

func (c *Connection) StorageAt(ctx context.Context, account common.Address, slot common.Hash) ([]byte, error) {
	return c.client.StorageAt(ctx, account, slot, nil)
}

func (c *Connection) Receipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, fmt.Errorf("receipt for %s: %w", txHash.Hex(), domain.ErrNotFound)
	}
	return receipt, err
}

// Close releases the underlying RPC client and its dispatch goroutines.
func (c *Connection) Close() {
	c.client.Close()
}

var _ domain.Connection = (*Connection)(nil)
