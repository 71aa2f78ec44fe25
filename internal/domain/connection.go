package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ConnectionKind tells an ambient (host managed) connection from a direct one.
type ConnectionKind string

const (
	ConnectionAmbient ConnectionKind = "ambient"
	ConnectionDirect  ConnectionKind = "direct"
)

// Connection is a resolved network handle. Implementations are not cached
// across calls; resolve a fresh one per operation and close it when done.
type Connection interface {
	Kind() ConnectionKind
	ChainID(ctx context.Context) (*big.Int, error)
	// Call executes a read-only contract call at the latest block.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	// StorageAt reads a raw storage slot at the latest block.
	StorageAt(ctx context.Context, account common.Address, slot common.Hash) ([]byte, error)
	// Receipt returns the receipt of an included transaction or ErrNotFound.
	Receipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	// Close releases the transport. Whoever resolved the connection closes it.
	Close()
}

// SubmitRequest is a state-changing call to be signed and sent.
type SubmitRequest struct {
	To       common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64
}

// Submitter is a direct connection holding a signing credential.
type Submitter interface {
	Connection
	From() common.Address
	// Submit signs and broadcasts the call with the explicit gas limit.
	Submit(ctx context.Context, req SubmitRequest) (common.Hash, error)
	// Wait blocks until the transaction is included or ctx is done.
	Wait(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}
