package bindings

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SafeProtocolAction mirrors the protocol's SafeProtocolAction struct.
type SafeProtocolAction struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// SafeTransaction mirrors the protocol's SafeTransaction struct.
type SafeTransaction struct {
	Actions      []SafeProtocolAction
	Nonce        *big.Int
	MetadataHash [32]byte
}

// SafeRootAccess mirrors the protocol's SafeRootAccess struct.
type SafeRootAccess struct {
	Action       SafeProtocolAction
	Nonce        *big.Int
	MetadataHash [32]byte
}

// MetadataProviderInfo is the return value of metadataProvider().
type MetadataProviderInfo struct {
	ProviderType *big.Int
	Location     []byte
}

// WhitelistPluginMetaData contains all meta data concerning the WhitelistPlugin contract.
var WhitelistPluginMetaData = bind.MetaData{
	ABI: `[
{"type":"function","name":"addToWhitelist","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address","internalType":"address"}],"outputs":[]},
{"type":"function","name":"removeFromWhitelist","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address","internalType":"address"}],"outputs":[]},
{"type":"function","name":"whitelistedAddresses","stateMutability":"view","inputs":[{"name":"","type":"address","internalType":"address"},{"name":"","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"bool","internalType":"bool"}]},
{"type":"function","name":"executeFromPlugin","stateMutability":"nonpayable","inputs":[{"name":"manager","type":"address","internalType":"contract ISafeProtocolManager"},{"name":"safe","type":"address","internalType":"contract ISafe"},{"name":"transaction","type":"tuple","internalType":"struct SafeTransaction","components":[{"name":"actions","type":"tuple[]","internalType":"struct SafeProtocolAction[]","components":[{"name":"to","type":"address","internalType":"address payable"},{"name":"value","type":"uint256","internalType":"uint256"},{"name":"data","type":"bytes","internalType":"bytes"}]},{"name":"nonce","type":"uint256","internalType":"uint256"},{"name":"metadataHash","type":"bytes32","internalType":"bytes32"}]}],"outputs":[{"name":"data","type":"bytes[]","internalType":"bytes[]"}]},
{"type":"function","name":"executeRootAccessFromPlugin","stateMutability":"nonpayable","inputs":[{"name":"manager","type":"address","internalType":"contract ISafeProtocolManager"},{"name":"safe","type":"address","internalType":"contract ISafe"},{"name":"rootAccess","type":"tuple","internalType":"struct SafeRootAccess","components":[{"name":"action","type":"tuple","internalType":"struct SafeProtocolAction","components":[{"name":"to","type":"address","internalType":"address payable"},{"name":"value","type":"uint256","internalType":"uint256"},{"name":"data","type":"bytes","internalType":"bytes"}]},{"name":"nonce","type":"uint256","internalType":"uint256"},{"name":"metadataHash","type":"bytes32","internalType":"bytes32"}]}],"outputs":[{"name":"data","type":"bytes","internalType":"bytes"}]},
{"type":"function","name":"metadataHash","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32","internalType":"bytes32"}]},
{"type":"function","name":"metadataProvider","stateMutability":"view","inputs":[],"outputs":[{"name":"providerType","type":"uint256","internalType":"uint256"},{"name":"location","type":"bytes","internalType":"bytes"}]},
{"type":"event","name":"AccountWhitelisted","anonymous":false,"inputs":[{"name":"safe","type":"address","indexed":true,"internalType":"address"},{"name":"account","type":"address","indexed":true,"internalType":"address"}]},
{"type":"event","name":"AccountRemovedFromWhitelist","anonymous":false,"inputs":[{"name":"safe","type":"address","indexed":true,"internalType":"address"},{"name":"account","type":"address","indexed":true,"internalType":"address"}]}
]`,
	ID: "WhitelistPlugin",
}

// WhitelistPlugin is the Go binding around the whitelist plugin contract.
type WhitelistPlugin struct {
	abi abi.ABI
}

// NewWhitelistPlugin creates a new instance of WhitelistPlugin.
func NewWhitelistPlugin() *WhitelistPlugin {
	parsed, err := WhitelistPluginMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &WhitelistPlugin{abi: *parsed}
}

// PackAddToWhitelist packs addToWhitelist(address account).
func (c *WhitelistPlugin) PackAddToWhitelist(account common.Address) ([]byte, error) {
	return c.abi.Pack("addToWhitelist", account)
}

// PackRemoveFromWhitelist packs removeFromWhitelist(address account).
func (c *WhitelistPlugin) PackRemoveFromWhitelist(account common.Address) ([]byte, error) {
	return c.abi.Pack("removeFromWhitelist", account)
}

// PackWhitelistedAddresses packs whitelistedAddresses(address safe, address account).
func (c *WhitelistPlugin) PackWhitelistedAddresses(safe, account common.Address) ([]byte, error) {
	return c.abi.Pack("whitelistedAddresses", safe, account)
}

// UnpackWhitelistedAddresses unpacks the bool returned by whitelistedAddresses.
func (c *WhitelistPlugin) UnpackWhitelistedAddresses(data []byte) (bool, error) {
	out, err := c.abi.Unpack("whitelistedAddresses", data)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// PackExecuteFromPlugin packs executeFromPlugin(manager, safe, transaction).
func (c *WhitelistPlugin) PackExecuteFromPlugin(manager, safe common.Address, transaction SafeTransaction) ([]byte, error) {
	return c.abi.Pack("executeFromPlugin", manager, safe, transaction)
}

// PackExecuteRootAccessFromPlugin packs executeRootAccessFromPlugin(manager, safe, rootAccess).
func (c *WhitelistPlugin) PackExecuteRootAccessFromPlugin(manager, safe common.Address, rootAccess SafeRootAccess) ([]byte, error) {
	return c.abi.Pack("executeRootAccessFromPlugin", manager, safe, rootAccess)
}

// PackMetadataHash packs metadataHash().
func (c *WhitelistPlugin) PackMetadataHash() ([]byte, error) {
	return c.abi.Pack("metadataHash")
}

// UnpackMetadataHash unpacks the bytes32 returned by metadataHash.
func (c *WhitelistPlugin) UnpackMetadataHash(data []byte) ([32]byte, error) {
	out, err := c.abi.Unpack("metadataHash", data)
	if err != nil {
		return [32]byte{}, err
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

// PackMetadataProvider packs metadataProvider().
func (c *WhitelistPlugin) PackMetadataProvider() ([]byte, error) {
	return c.abi.Pack("metadataProvider")
}

// UnpackMetadataProvider unpacks the (providerType, location) pair returned by metadataProvider.
func (c *WhitelistPlugin) UnpackMetadataProvider(data []byte) (MetadataProviderInfo, error) {
	out, err := c.abi.Unpack("metadataProvider", data)
	if err != nil {
		return MetadataProviderInfo{}, err
	}
	return MetadataProviderInfo{
		ProviderType: abi.ConvertType(out[0], new(big.Int)).(*big.Int),
		Location:     *abi.ConvertType(out[1], new([]byte)).(*[]byte),
	}, nil
}

// WhitelistPluginAccountWhitelisted represents an AccountWhitelisted event.
type WhitelistPluginAccountWhitelisted struct {
	Safe    common.Address
	Account common.Address
	Raw     *types.Log
}

const WhitelistPluginAccountWhitelistedEventName = "AccountWhitelisted"

// ContractEventName returns the user-defined event name.
func (WhitelistPluginAccountWhitelisted) ContractEventName() string {
	return WhitelistPluginAccountWhitelistedEventName
}

// UnpackAccountWhitelistedEvent unpacks an AccountWhitelisted log.
//
// Solidity: event AccountWhitelisted(address indexed safe, address indexed account)
func (c *WhitelistPlugin) UnpackAccountWhitelistedEvent(log *types.Log) (*WhitelistPluginAccountWhitelisted, error) {
	out := new(WhitelistPluginAccountWhitelisted)
	if err := c.unpackIndexedEvent(WhitelistPluginAccountWhitelistedEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// WhitelistPluginAccountRemovedFromWhitelist represents an AccountRemovedFromWhitelist event.
type WhitelistPluginAccountRemovedFromWhitelist struct {
	Safe    common.Address
	Account common.Address
	Raw     *types.Log
}

const WhitelistPluginAccountRemovedFromWhitelistEventName = "AccountRemovedFromWhitelist"

// ContractEventName returns the user-defined event name.
func (WhitelistPluginAccountRemovedFromWhitelist) ContractEventName() string {
	return WhitelistPluginAccountRemovedFromWhitelistEventName
}

// UnpackAccountRemovedFromWhitelistEvent unpacks an AccountRemovedFromWhitelist log.
//
// Solidity: event AccountRemovedFromWhitelist(address indexed safe, address indexed account)
func (c *WhitelistPlugin) UnpackAccountRemovedFromWhitelistEvent(log *types.Log) (*WhitelistPluginAccountRemovedFromWhitelist, error) {
	out := new(WhitelistPluginAccountRemovedFromWhitelist)
	if err := c.unpackIndexedEvent(WhitelistPluginAccountRemovedFromWhitelistEventName, log, out); err != nil {
		return nil, err
	}
	out.Raw = log
	return out, nil
}

// GetEventID returns the event signature hash for a given event name
func (c *WhitelistPlugin) GetEventID(eventName string) (common.Hash, error) {
	event, exists := c.abi.Events[eventName]
	if !exists {
		return common.Hash{}, errors.New("event " + eventName + " not found")
	}
	return event.ID, nil
}

func (c *WhitelistPlugin) unpackIndexedEvent(event string, log *types.Log, out interface{}) error {
	if len(log.Topics) == 0 || log.Topics[0] != c.abi.Events[event].ID {
		return errors.New("event signature mismatch")
	}
	if len(log.Data) > 0 {
		if err := c.abi.UnpackIntoInterface(out, event, log.Data); err != nil {
			return err
		}
	}
	var indexed abi.Arguments
	for _, arg := range c.abi.Events[event].Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return abi.ParseTopics(out, indexed, log.Topics[1:])
}
