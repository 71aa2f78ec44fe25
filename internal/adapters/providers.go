package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/plugrelay/internal/adapters/blockchain"
	"github.com/trebuchet-org/plugrelay/internal/adapters/host"
	"github.com/trebuchet-org/plugrelay/internal/adapters/interactive"
	"github.com/trebuchet-org/plugrelay/internal/adapters/manager"
	"github.com/trebuchet-org/plugrelay/internal/adapters/proposal"
	"github.com/trebuchet-org/plugrelay/internal/adapters/registry"
	"github.com/trebuchet-org/plugrelay/internal/adapters/safe"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// BlockchainSet provides the direct RPC connection
var BlockchainSet = wire.NewSet(
	blockchain.NewDialer,
	wire.Bind(new(usecase.DirectDialer), new(*blockchain.Dialer)),
)

// HostSet provides the host wallet bridge
var HostSet = wire.NewSet(
	host.NewBridgeSession,
	wire.Bind(new(usecase.HostSession), new(*host.BridgeSession)),
)

// SafeSet provides the Safe Transaction Service client and the proposal path
var SafeSet = wire.NewSet(
	safe.NewServiceClient,
	wire.Bind(new(usecase.PendingTransactionSource), new(*safe.ServiceClient)),

	safe.NewServiceProposer,

	proposal.NewRouter,
	wire.Bind(new(usecase.TransactionProposer), new(*proposal.Router)),
)

// RegistrySet provides plugin registrations
var RegistrySet = wire.NewSet(
	registry.NewPluginRegistry,
	wire.Bind(new(usecase.PluginRegistry), new(*registry.PluginRegistry)),
)

// ManagerSet provides execution-manager resolution
var ManagerSet = wire.NewSet(
	manager.NewResolver,
	wire.Bind(new(usecase.ManagerResolver), new(*manager.Resolver)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	BlockchainSet,
	HostSet,
	SafeSet,
	RegistrySet,
	ManagerSet,
	InteractiveSet,
)
