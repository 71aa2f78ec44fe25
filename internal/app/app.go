package app

import (
	"log/slog"

	"github.com/trebuchet-org/plugrelay/internal/api"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.InteractiveSelector

	// Use cases
	CheckWhitelist  *usecase.CheckWhitelist
	ManageWhitelist *usecase.ManageWhitelist
	BuildAndRelay   *usecase.BuildAndRelay
	PendingRelay    *usecase.PendingRelay
	Plugins         *usecase.PluginCatalog
	ShowReceipt     *usecase.ShowReceipt

	// HTTP API for plugrelay serve
	Server *api.Server
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.InteractiveSelector,
	checkWhitelist *usecase.CheckWhitelist,
	manageWhitelist *usecase.ManageWhitelist,
	buildAndRelay *usecase.BuildAndRelay,
	pendingRelay *usecase.PendingRelay,
	plugins *usecase.PluginCatalog,
	showReceipt *usecase.ShowReceipt,
	server *api.Server,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		Selector:        selector,
		CheckWhitelist:  checkWhitelist,
		ManageWhitelist: manageWhitelist,
		BuildAndRelay:   buildAndRelay,
		PendingRelay:    pendingRelay,
		Plugins:         plugins,
		ShowReceipt:     showReceipt,
		Server:          server,
	}, nil
}
