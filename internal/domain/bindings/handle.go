package bindings

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
)

// Handle is a contract bound to an address and a connection. Binding never
// touches the network.
type Handle struct {
	address common.Address
	name    string
	conn    domain.Connection
}

// Bind validates address and pairs it with conn. meta must carry a parseable ABI.
func Bind(address string, meta *bind.MetaData, conn domain.Connection) (*Handle, error) {
	addr, err := domain.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if _, err := meta.ParseABI(); err != nil {
		return nil, fmt.Errorf("invalid ABI for %s: %w", meta.ID, err)
	}
	if conn == nil {
		return nil, domain.ErrConnectionUnavailable
	}
	return &Handle{address: addr, name: meta.ID, conn: conn}, nil
}

// Address returns the bound contract address.
func (h *Handle) Address() common.Address {
	return h.address
}

// Connection returns the connection the handle was bound with.
func (h *Handle) Connection() domain.Connection {
	return h.conn
}

// Read performs a typed read-only call. Any failure, including decoding,
// is reported as a domain.ReadError.
func Read[T any](ctx context.Context, h *Handle, method string, calldata []byte, unpack func([]byte) (T, error)) (T, error) {
	var zero T
	raw, err := h.conn.Call(ctx, h.address, calldata)
	if err != nil {
		return zero, &domain.ReadError{Contract: h.name, Method: method, Cause: err}
	}
	out, err := unpack(raw)
	if err != nil {
		return zero, &domain.ReadError{Contract: h.name, Method: method, Cause: err}
	}
	return out, nil
}

// Transact submits calldata to the bound contract. It requires a direct,
// credentialed connection.
func (h *Handle) Transact(ctx context.Context, calldata []byte, value *big.Int, gasLimit uint64) (common.Hash, error) {
	submitter, ok := h.conn.(domain.Submitter)
	if !ok || h.conn.Kind() != domain.ConnectionDirect {
		return common.Hash{}, domain.ErrNotCredentialed
	}
	return submitter.Submit(ctx, domain.SubmitRequest{
		To:       h.address,
		Value:    value,
		Data:     calldata,
		GasLimit: gasLimit,
	})
}

// WhitelistPluginHandle exposes typed calls on a bound whitelist plugin.
type WhitelistPluginHandle struct {
	*Handle
	contract *WhitelistPlugin
}

// BindWhitelistPlugin binds the whitelist plugin at address.
func BindWhitelistPlugin(address string, conn domain.Connection) (*WhitelistPluginHandle, error) {
	h, err := Bind(address, &WhitelistPluginMetaData, conn)
	if err != nil {
		return nil, err
	}
	return &WhitelistPluginHandle{Handle: h, contract: NewWhitelistPlugin()}, nil
}

// Contract returns the calldata encoders.
func (p *WhitelistPluginHandle) Contract() *WhitelistPlugin {
	return p.contract
}

// WhitelistedAddresses reads whitelistedAddresses(safe, account).
func (p *WhitelistPluginHandle) WhitelistedAddresses(ctx context.Context, safe, account common.Address) (bool, error) {
	calldata, err := p.contract.PackWhitelistedAddresses(safe, account)
	if err != nil {
		return false, &domain.ReadError{Contract: p.name, Method: "whitelistedAddresses", Cause: err}
	}
	return Read(ctx, p.Handle, "whitelistedAddresses", calldata, p.contract.UnpackWhitelistedAddresses)
}

// MetadataHash reads metadataHash().
func (p *WhitelistPluginHandle) MetadataHash(ctx context.Context) (common.Hash, error) {
	calldata, err := p.contract.PackMetadataHash()
	if err != nil {
		return common.Hash{}, err
	}
	hash, err := Read(ctx, p.Handle, "metadataHash", calldata, p.contract.UnpackMetadataHash)
	return common.Hash(hash), err
}

// MetadataProvider reads metadataProvider().
func (p *WhitelistPluginHandle) MetadataProvider(ctx context.Context) (MetadataProviderInfo, error) {
	calldata, err := p.contract.PackMetadataProvider()
	if err != nil {
		return MetadataProviderInfo{}, err
	}
	return Read(ctx, p.Handle, "metadataProvider", calldata, p.contract.UnpackMetadataProvider)
}

// SafeHandle exposes typed calls on a bound Safe account.
type SafeHandle struct {
	*Handle
	contract *Safe
}

// BindSafe binds the Safe at address.
func BindSafe(address string, conn domain.Connection) (*SafeHandle, error) {
	h, err := Bind(address, &SafeMetaData, conn)
	if err != nil {
		return nil, err
	}
	return &SafeHandle{Handle: h, contract: NewSafe()}, nil
}

// Nonce reads nonce().
func (s *SafeHandle) Nonce(ctx context.Context) (*big.Int, error) {
	calldata, err := s.contract.PackNonce()
	if err != nil {
		return nil, err
	}
	return Read(ctx, s.Handle, "nonce", calldata, s.contract.UnpackNonce)
}

// IsModuleEnabled reads isModuleEnabled(module).
func (s *SafeHandle) IsModuleEnabled(ctx context.Context, module common.Address) (bool, error) {
	calldata, err := s.contract.PackIsModuleEnabled(module)
	if err != nil {
		return false, err
	}
	return Read(ctx, s.Handle, "isModuleEnabled", calldata, s.contract.UnpackIsModuleEnabled)
}

// MetadataProviderHandle exposes typed calls on a bound metadata provider.
type MetadataProviderHandle struct {
	*Handle
	contract *MetadataProvider
}

// BindMetadataProvider binds the metadata provider at address.
func BindMetadataProvider(address string, conn domain.Connection) (*MetadataProviderHandle, error) {
	h, err := Bind(address, &MetadataProviderMetaData, conn)
	if err != nil {
		return nil, err
	}
	return &MetadataProviderHandle{Handle: h, contract: NewMetadataProvider()}, nil
}

// RetrieveMetadata reads retrieveMetadata(metadataHash).
func (m *MetadataProviderHandle) RetrieveMetadata(ctx context.Context, metadataHash common.Hash) ([]byte, error) {
	calldata, err := m.contract.PackRetrieveMetadata(metadataHash)
	if err != nil {
		return nil, err
	}
	return Read(ctx, m.Handle, "retrieveMetadata", calldata, m.contract.UnpackRetrieveMetadata)
}

// RegistryHandle exposes typed calls on a bound SafeProtocolRegistry.
type RegistryHandle struct {
	*Handle
	contract *Registry
}

// BindRegistry binds the registry at address.
func BindRegistry(address string, conn domain.Connection) (*RegistryHandle, error) {
	h, err := Bind(address, &RegistryMetaData, conn)
	if err != nil {
		return nil, err
	}
	return &RegistryHandle{Handle: h, contract: NewRegistry()}, nil
}

// Check reads check(module).
func (r *RegistryHandle) Check(ctx context.Context, module common.Address) (RegistryCheck, error) {
	calldata, err := r.contract.PackCheck(module)
	if err != nil {
		return RegistryCheck{}, err
	}
	return Read(ctx, r.Handle, "check", calldata, r.contract.UnpackCheck)
}
