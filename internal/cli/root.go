package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/adapters/progress"
	"github.com/trebuchet-org/plugrelay/internal/app"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
	"github.com/trebuchet-org/plugrelay/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plugrelay",
		Short: "Relay transactions through Safe{Core} protocol plugins",
		Long: `plugrelay lets a Safe delegate pre-authorized calls to a Safe{Core} protocol
plugin. It manages the plugin's counter-account whitelist, builds nonce- and
metadata-bound envelopes and relays them through the plugin to the Safe's
execution manager.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			output := v.GetString("output")
			machine := v.GetBool("json") || render.Structured(output)
			sink := progress.ForOutput(v.GetBool("non_interactive"), machine)

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// The API server runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.StringP("network", "n", "", "Network from plugrelay.toml [networks] (e.g. goerli)")
	flags.String("rpc-url", "", "RPC endpoint for direct connections (overrides the network's)")
	flags.Uint64("chain-id", 0, "Expected chain id of the RPC endpoint")
	flags.String("host-url", "", "Wallet bridge URL of an embedding Safe app host")
	flags.String("safe", "", "Guarded Safe account")
	flags.String("plugin", "", "Plugin address (defaults to the single registered plugin)")
	flags.String("safe-service-url", "", "Safe Transaction Service URL (overrides the per-chain default)")
	flags.Bool("json", false, "Output JSON")
	flags.StringP("output", "o", render.FormatTable, "Output format (table, json, yaml)")
	flags.Duration("timeout", 0, "Overall command timeout (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	whitelistCmd := NewWhitelistCmd()
	whitelistCmd.GroupID = "main"
	rootCmd.AddCommand(whitelistCmd)

	relayCmd := NewRelayCmd()
	relayCmd.GroupID = "main"
	rootCmd.AddCommand(relayCmd)

	pendingCmd := NewPendingCmd()
	pendingCmd.GroupID = "main"
	rootCmd.AddCommand(pendingCmd)

	// Management commands
	pluginsCmd := NewPluginsCmd()
	pluginsCmd.GroupID = "management"
	rootCmd.AddCommand(pluginsCmd)

	receiptCmd := NewReceiptCmd()
	receiptCmd.GroupID = "management"
	rootCmd.AddCommand(receiptCmd)

	serveCmd := NewServeCmd()
	serveCmd.GroupID = "management"
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
