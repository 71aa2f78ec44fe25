package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SafeProtocolAction is one atomic call executed by the guarded account.
type SafeProtocolAction struct {
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  []byte         `json:"data"`
}

// Envelope is either a SafeTransaction or a SafeRootAccess. The set of
// implementations is closed so a root access body can never be passed where a
// batch is expected.
type Envelope interface {
	EnvelopeKind() EnvelopeKind
	EnvelopeNonce() *big.Int
	EnvelopeMetadataHash() common.Hash
	isEnvelope()
}

// EnvelopeKind names the envelope variant.
type EnvelopeKind string

const (
	EnvelopeBatch      EnvelopeKind = "batch"
	EnvelopeRootAccess EnvelopeKind = "root-access"
)

// SafeTransaction is an ordered batch of actions sharing one nonce and one
// metadata binding.
type SafeTransaction struct {
	Actions      []SafeProtocolAction `json:"actions"`
	Nonce        *big.Int             `json:"nonce"`
	MetadataHash common.Hash          `json:"metadataHash"`
}

func (SafeTransaction) EnvelopeKind() EnvelopeKind {
	return EnvelopeBatch
}

func (t SafeTransaction) EnvelopeNonce() *big.Int {
	return t.Nonce
}

func (t SafeTransaction) EnvelopeMetadataHash() common.Hash {
	return t.MetadataHash
}

func (SafeTransaction) isEnvelope() {}

// SafeRootAccess is a single privileged call.
type SafeRootAccess struct {
	Action       SafeProtocolAction `json:"action"`
	Nonce        *big.Int           `json:"nonce"`
	MetadataHash common.Hash        `json:"metadataHash"`
}

func (SafeRootAccess) EnvelopeKind() EnvelopeKind {
	return EnvelopeRootAccess
}

func (r SafeRootAccess) EnvelopeNonce() *big.Int {
	return r.Nonce
}

func (r SafeRootAccess) EnvelopeMetadataHash() common.Hash {
	return r.MetadataHash
}

func (SafeRootAccess) isEnvelope() {}
