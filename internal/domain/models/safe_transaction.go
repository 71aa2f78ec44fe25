package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SafeOperation is the Safe call type of a multisig transaction.
type SafeOperation uint8

const (
	OperationCall         SafeOperation = 0
	OperationDelegateCall SafeOperation = 1
)

// PendingMultisigTransaction is a queued Safe multisig transaction that has
// not been executed yet.
type PendingMultisigTransaction struct {
	SafeTxHash            common.Hash    `json:"safeTxHash"`
	Safe                  common.Address `json:"safe"`
	To                    common.Address `json:"to"`
	Value                 *big.Int       `json:"value"`
	Data                  []byte         `json:"data"`
	Operation             SafeOperation  `json:"operation"`
	Nonce                 uint64         `json:"nonce"`
	Confirmations         []Confirmation `json:"confirmations"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	SubmittedAt           time.Time      `json:"submittedAt"`
}

// Confirmation represents a confirmation on a Safe transaction
type Confirmation struct {
	Signer      string    `json:"signer"`
	Signature   string    `json:"signature"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// IsApproved reports whether the transaction gathered its required confirmations.
func (p *PendingMultisigTransaction) IsApproved() bool {
	return p.ConfirmationsRequired > 0 && len(p.Confirmations) >= p.ConfirmationsRequired
}

// ProposalID identifies a transaction proposed to the account. For Safe
// accounts it is the safeTxHash.
type ProposalID string

// SafeInfo describes the account an ambient host session is bound to.
type SafeInfo struct {
	SafeAddress common.Address   `json:"safeAddress"`
	ChainID     uint64           `json:"chainId"`
	Threshold   int              `json:"threshold"`
	Owners      []common.Address `json:"owners"`
}
