package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the whitelist and relay operations over HTTP",
		Long: `Start the HTTP API used by embedding hosts:

  GET  /v1/whitelist/:safe/:counter
  POST /v1/whitelist
  POST /v1/relay
  GET  /v1/pending/:safe
  GET  /v1/plugins

The POST routes sign or propose transactions and require
"Authorization: Bearer $PLUGRELAY_API_TOKEN"; without a token they are
disabled. Browsers get cross-origin access only for --cors-origins.

The server runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Server.Start(ctx)
		},
	}

	cmd.Flags().String("listen", "127.0.0.1:8547", "Listen address")
	cmd.Flags().StringSlice("cors-origins", nil, "Origins allowed to call the API from a browser")
	return cmd
}
