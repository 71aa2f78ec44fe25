// Package chaintest provides an in-memory domain.Connection for adapter tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/plugrelay/internal/domain"
)

type callKey struct {
	to       common.Address
	selector [4]byte
}

// Conn answers contract calls registered per address and method.
type Conn struct {
	t       testing.TB
	kind    domain.ConnectionKind
	chainID int64

	mu      sync.Mutex
	calls   map[callKey][]byte
	storage map[common.Address]map[common.Hash][]byte
	counts  map[callKey]int
	closed  int
}

// NewConn creates a connection of the given kind on chainID.
func NewConn(t testing.TB, kind domain.ConnectionKind, chainID int64) *Conn {
	return &Conn{
		t:       t,
		kind:    kind,
		chainID: chainID,
		calls:   map[callKey][]byte{},
		storage: map[common.Address]map[common.Hash][]byte{},
		counts:  map[callKey]int{},
	}
}

// Returns makes calls of method on to return the ABI encoding of values.
func (c *Conn) Returns(to common.Address, meta *bind.MetaData, method string, values ...any) *Conn {
	c.t.Helper()
	parsed, err := meta.ParseABI()
	require.NoError(c.t, err)
	m, ok := parsed.Methods[method]
	require.True(c.t, ok, "method %s not in %s", method, meta.ID)
	out, err := m.Outputs.Pack(values...)
	require.NoError(c.t, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[callKey{to: to, selector: [4]byte(m.ID)}] = out
	return c
}

// Store sets a raw storage slot.
func (c *Conn) Store(account common.Address, slot common.Hash, value []byte) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storage[account] == nil {
		c.storage[account] = map[common.Hash][]byte{}
	}
	c.storage[account][slot] = value
	return c
}

// CallCount returns how often method was called on to.
func (c *Conn) CallCount(to common.Address, meta *bind.MetaData, method string) int {
	parsed, err := meta.ParseABI()
	require.NoError(c.t, err)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[callKey{to: to, selector: [4]byte(parsed.Methods[method].ID)}]
}

func (c *Conn) Kind() domain.ConnectionKind { return c.kind }

func (c *Conn) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(c.chainID), nil
}

func (c *Conn) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("calldata too short")
	}
	key := callKey{to: to, selector: [4]byte(data[:4])}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	out, ok := c.calls[key]
	if !ok {
		return nil, fmt.Errorf("execution reverted")
	}
	return out, nil
}

func (c *Conn) StorageAt(_ context.Context, account common.Address, slot common.Hash) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.storage[account][slot]; ok {
		return v, nil
	}
	return make([]byte, 32), nil
}

func (c *Conn) Receipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, domain.ErrNotFound
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

// Closed returns how often Close was called.
func (c *Conn) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

var _ domain.Connection = (*Conn)(nil)
