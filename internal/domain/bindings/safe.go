package bindings

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
)

// SafeMetaData contains the subset of the Safe ABI used by the relay.
var SafeMetaData = bind.MetaData{
	ABI: `[
{"type":"function","name":"nonce","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},
{"type":"function","name":"isModuleEnabled","stateMutability":"view","inputs":[{"name":"module","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"bool","internalType":"bool"}]}
]`,
	ID: "Safe",
}

// Safe is the Go binding around a Safe account.
type Safe struct {
	abi abi.ABI
}

// NewSafe creates a new instance of Safe.
func NewSafe() *Safe {
	parsed, err := SafeMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &Safe{abi: *parsed}
}

// PackNonce packs nonce().
func (c *Safe) PackNonce() ([]byte, error) {
	return c.abi.Pack("nonce")
}

// UnpackNonce unpacks the uint256 returned by nonce.
func (c *Safe) UnpackNonce(data []byte) (*big.Int, error) {
	out, err := c.abi.Unpack("nonce", data)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// PackIsModuleEnabled packs isModuleEnabled(address module).
func (c *Safe) PackIsModuleEnabled(module common.Address) ([]byte, error) {
	return c.abi.Pack("isModuleEnabled", module)
}

// UnpackIsModuleEnabled unpacks the bool returned by isModuleEnabled.
func (c *Safe) UnpackIsModuleEnabled(data []byte) (bool, error) {
	out, err := c.abi.Unpack("isModuleEnabled", data)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// MultiSendMetaData contains the MultiSendCallOnly ABI.
var MultiSendMetaData = bind.MetaData{
	ABI: `[{"type":"function","name":"multiSend","stateMutability":"payable","inputs":[{"name":"transactions","type":"bytes","internalType":"bytes"}],"outputs":[]}]`,
	ID:  "MultiSendCallOnly",
}

// MultiSend is the Go binding around MultiSendCallOnly.
type MultiSend struct {
	abi abi.ABI
}

// NewMultiSend creates a new instance of MultiSend.
func NewMultiSend() *MultiSend {
	parsed, err := MultiSendMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &MultiSend{abi: *parsed}
}

// PackMultiSend packs multiSend(bytes transactions).
func (c *MultiSend) PackMultiSend(transactions []byte) ([]byte, error) {
	return c.abi.Pack("multiSend", transactions)
}

// MetadataProviderMetaData contains the IMetadataProvider ABI.
var MetadataProviderMetaData = bind.MetaData{
	ABI: `[{"type":"function","name":"retrieveMetadata","stateMutability":"view","inputs":[{"name":"metadataHash","type":"bytes32","internalType":"bytes32"}],"outputs":[{"name":"metadata","type":"bytes","internalType":"bytes"}]}]`,
	ID:  "MetadataProvider",
}

// MetadataProvider is the Go binding around an on-chain plugin metadata provider.
type MetadataProvider struct {
	abi abi.ABI
}

// NewMetadataProvider creates a new instance of MetadataProvider.
func NewMetadataProvider() *MetadataProvider {
	parsed, err := MetadataProviderMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &MetadataProvider{abi: *parsed}
}

// PackRetrieveMetadata packs retrieveMetadata(bytes32 metadataHash).
func (c *MetadataProvider) PackRetrieveMetadata(metadataHash [32]byte) ([]byte, error) {
	return c.abi.Pack("retrieveMetadata", metadataHash)
}

// UnpackRetrieveMetadata unpacks the metadata bytes.
func (c *MetadataProvider) UnpackRetrieveMetadata(data []byte) ([]byte, error) {
	out, err := c.abi.Unpack("retrieveMetadata", data)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]byte)).(*[]byte), nil
}

// RegistryMetaData contains the SafeProtocolRegistry check ABI.
var RegistryMetaData = bind.MetaData{
	ABI: `[{"type":"function","name":"check","stateMutability":"view","inputs":[{"name":"module","type":"address","internalType":"address"}],"outputs":[{"name":"listedAt","type":"uint64","internalType":"uint64"},{"name":"flaggedAt","type":"uint64","internalType":"uint64"}]}]`,
	ID:  "SafeProtocolRegistry",
}

// RegistryCheck is the return value of check(address).
type RegistryCheck struct {
	ListedAt  uint64
	FlaggedAt uint64
}

// Registry is the Go binding around SafeProtocolRegistry.
type Registry struct {
	abi abi.ABI
}

// NewRegistry creates a new instance of Registry.
func NewRegistry() *Registry {
	parsed, err := RegistryMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &Registry{abi: *parsed}
}

// PackCheck packs check(address module).
func (c *Registry) PackCheck(module common.Address) ([]byte, error) {
	return c.abi.Pack("check", module)
}

// UnpackCheck unpacks the (listedAt, flaggedAt) pair.
func (c *Registry) UnpackCheck(data []byte) (RegistryCheck, error) {
	out, err := c.abi.Unpack("check", data)
	if err != nil {
		return RegistryCheck{}, err
	}
	return RegistryCheck{
		ListedAt:  *abi.ConvertType(out[0], new(uint64)).(*uint64),
		FlaggedAt: *abi.ConvertType(out[1], new(uint64)).(*uint64),
	}, nil
}
