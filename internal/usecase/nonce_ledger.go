package usecase

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

type nonceKey struct {
	chainID uint64
	plugin  common.Address
	account common.Address
	nonce   string
}

// NonceLedger records the envelope nonces this process has submitted per
// (plugin, account) pair. It is the only state shared between relays.
type NonceLedger struct {
	mu       sync.Mutex
	reserved map[nonceKey]bool
}

// NewNonceLedger creates an empty ledger
func NewNonceLedger() *NonceLedger {
	return &NonceLedger{reserved: make(map[nonceKey]bool)}
}

// Reserve claims nonce for (plugin, account). It fails with
// domain.ErrNonceReused if the nonce was already submitted or is in flight.
func (l *NonceLedger) Reserve(plugin models.PluginAddress, account common.Address, nonce *big.Int) error {
	key := nonceKey{chainID: plugin.ChainID, plugin: plugin.Address, account: account, nonce: nonce.String()}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reserved[key] {
		return fmt.Errorf("%w: nonce %s for %s on %s", domain.ErrNonceReused, nonce, account.Hex(), plugin.Address.Hex())
	}
	l.reserved[key] = true
	return nil
}

// Release gives back a reservation whose transaction never reached the network.
func (l *NonceLedger) Release(plugin models.PluginAddress, account common.Address, nonce *big.Int) {
	key := nonceKey{chainID: plugin.ChainID, plugin: plugin.Address, account: account, nonce: nonce.String()}

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.reserved, key)
}
