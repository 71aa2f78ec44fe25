package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConnectionUnavailable is returned when neither the host session nor a direct endpoint can be used
	ErrConnectionUnavailable = errors.New("no usable connection")

	// ErrInvalidAddress is returned when an Ethereum address is malformed or fails its checksum
	ErrInvalidAddress = errors.New("invalid address")

	// ErrReadFailed is returned when an on-chain query could not be answered
	ErrReadFailed = errors.New("read failed")

	// ErrRelayFailed is returned when a forwarded execution could not be submitted or included
	ErrRelayFailed = errors.New("relay failed")

	// ErrUnknownPlugin is returned when a plugin address/chain pair has no registration
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrInvalidEnvelope is returned when an action, batch or root access call is malformed
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrNotCredentialed is returned when a write is attempted without a signing credential
	ErrNotCredentialed = errors.New("connection has no signing credential")

	// ErrReverted is returned when a submitted transaction was included but reverted
	ErrReverted = errors.New("transaction reverted")

	// ErrNotApproved is returned when a pending multisig transaction lacks confirmations
	ErrNotApproved = errors.New("transaction not approved")

	// ErrUnsupportedOperation is returned for multisig transactions that cannot be expressed as a plugin action
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNonceReused is returned when relaying a nonce this process already submitted successfully
	ErrNonceReused = errors.New("nonce already used")

	// ErrRootAccessNotDeclared is returned when root access is requested for a plugin that does not declare it
	ErrRootAccessNotDeclared = errors.New("plugin does not require root access")

	// ErrManagerNotEnabled is returned when the execution manager is not an enabled module of the account
	ErrManagerNotEnabled = errors.New("manager not enabled on account")

	// ErrMetadataMismatch is returned when retrieved plugin metadata does not hash to the declared metadata hash
	ErrMetadataMismatch = errors.New("metadata hash mismatch")

	// ErrNetworkMismatch is returned when network configurations don't match
	ErrNetworkMismatch = errors.New("network mismatch")
)

// RelayStage names the step of a relay attempt that failed.
type RelayStage string

const (
	RelayStageManager RelayStage = "manager"
	RelayStageEncode  RelayStage = "encode"
	RelayStageSubmit  RelayStage = "submit"
	RelayStageInclude RelayStage = "include"
)

// RelayError is the failure of a single relay attempt. It matches ErrRelayFailed
// and unwraps to the underlying cause.
type RelayError struct {
	Stage  RelayStage
	TxHash string
	Cause  error
}

func (e *RelayError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("relay failed at %s (tx %s): %v", e.Stage, e.TxHash, e.Cause)
	}
	return fmt.Sprintf("relay failed at %s: %v", e.Stage, e.Cause)
}

func (e *RelayError) Unwrap() error {
	return e.Cause
}

func (e *RelayError) Is(target error) bool {
	return target == ErrRelayFailed
}

// ReadError is a failed on-chain query.
type ReadError struct {
	Contract string
	Method   string
	Cause    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s.%s failed: %v", e.Contract, e.Method, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed
}
