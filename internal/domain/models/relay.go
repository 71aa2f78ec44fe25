package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// RelayState is the state of a single relay attempt.
type RelayState string

const (
	RelayBuilt         RelayState = "built"
	RelaySubmitted     RelayState = "submitted"
	RelayIncluded      RelayState = "included"
	RelayReverted      RelayState = "reverted"
	RelayNetworkFailed RelayState = "network-failed"
)

// Terminal reports whether no further transition is allowed.
func (s RelayState) Terminal() bool {
	return s == RelayIncluded || s == RelayReverted || s == RelayNetworkFailed
}

var relayTransitions = map[RelayState][]RelayState{
	RelayBuilt:     {RelaySubmitted, RelayNetworkFailed},
	RelaySubmitted: {RelayIncluded, RelayReverted, RelayNetworkFailed},
}

// RelayAttempt tracks one envelope through submission. A new attempt always
// means a new envelope with a new nonce.
type RelayAttempt struct {
	ID             uuid.UUID      `json:"id"`
	State          RelayState     `json:"state"`
	Plugin         common.Address `json:"plugin"`
	GuardedAccount common.Address `json:"guardedAccount"`
	Manager        common.Address `json:"manager"`
	Envelope       Envelope       `json:"envelope"`
	TxHash         common.Hash    `json:"txHash"`
}

// NewRelayAttempt starts an attempt in the Built state.
func NewRelayAttempt(plugin, account common.Address, envelope Envelope) *RelayAttempt {
	return &RelayAttempt{
		ID:             uuid.New(),
		State:          RelayBuilt,
		Plugin:         plugin,
		GuardedAccount: account,
		Envelope:       envelope,
	}
}

// Advance moves the attempt to next, refusing transitions out of terminal states.
func (a *RelayAttempt) Advance(next RelayState) error {
	for _, allowed := range relayTransitions[a.State] {
		if allowed == next {
			a.State = next
			return nil
		}
	}
	return fmt.Errorf("invalid relay transition %s -> %s", a.State, next)
}

// RelayReceipt is the outcome of an included relay.
type RelayReceipt struct {
	AttemptID   uuid.UUID      `json:"attemptId"`
	TxHash      common.Hash    `json:"txHash"`
	Status      RelayState     `json:"status"`
	BlockNumber *big.Int       `json:"blockNumber"`
	GasUsed     uint64         `json:"gasUsed"`
	GasLimit    uint64         `json:"gasLimit"`
	Manager     common.Address `json:"manager"`
	Nonce       *big.Int       `json:"nonce"`
	Kind        EnvelopeKind   `json:"kind"`
}
