//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/plugrelay/internal/adapters"
	"github.com/trebuchet-org/plugrelay/internal/api"
	"github.com/trebuchet-org/plugrelay/internal/config"
	"github.com/trebuchet-org/plugrelay/internal/logging"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewConnectionResolver,
		usecase.NewTargetResolver,
		usecase.NewNonceLedger,
		usecase.NewCheckWhitelist,
		usecase.NewManageWhitelist,
		usecase.NewRelay,
		usecase.NewBuildAndRelay,
		usecase.NewPendingRelay,
		usecase.NewPluginCatalog,
		usecase.NewShowReceipt,

		// HTTP API
		api.NewServer,

		// App
		NewApp,
	)
	return nil, nil
}
