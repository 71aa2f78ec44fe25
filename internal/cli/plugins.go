package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/app"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// NewPluginsCmd creates the plugins command group
func NewPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect registered plugins",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered plugins",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return render.NewPluginsRenderer(cmd.OutOrStdout(), app.Config.Output).RenderList(app.Plugins.List())
		},
	})

	var chainID uint64
	checkCmd := &cobra.Command{
		Use:   "check <address>",
		Short: "Check whether an address is a registered plugin",
		Long: `Check whether an address is a registered plugin on a chain. The chain is
taken from --chain, then from the configured network.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := pluginChain(app, chainID)
			if err != nil {
				return err
			}
			known := app.Plugins.IsKnownPlugin(id, args[0])
			if err := render.NewPluginsRenderer(cmd.OutOrStdout(), app.Config.Output).RenderKnown(id, args[0], known); err != nil {
				return err
			}
			if !known {
				return fmt.Errorf("unknown plugin %s on chain %d", args[0], id)
			}
			return nil
		},
	}
	checkCmd.Flags().Uint64Var(&chainID, "chain", 0, "Chain id to check against")
	cmd.AddCommand(checkCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [address]",
		Short: "Show a plugin's metadata and metadata hash",
		Long: `Show a registered plugin's metadata. Metadata not configured statically is
read from the plugin's metadata provider and verified against its
metadataHash.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowPluginParams{Address: app.Config.Plugin}
			if len(args) == 1 {
				params.Address = args[0]
			}
			if params.Address == "" {
				return fmt.Errorf("plugin address required: pass it as an argument or set --plugin")
			}

			details, err := app.Plugins.Show(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewPluginsRenderer(cmd.OutOrStdout(), app.Config.Output).RenderDetails(details)
		},
	})

	return cmd
}

func pluginChain(app *app.App, flag uint64) (uint64, error) {
	if flag != 0 {
		return flag, nil
	}
	if app.Config.Network != nil && app.Config.Network.ChainID != 0 {
		return app.Config.Network.ChainID, nil
	}
	return 0, fmt.Errorf("no chain: pass --chain or select a network")
}
