package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
)

// NewReceiptCmd creates the receipt command
func NewReceiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <txHash>",
		Short: "Show a transaction receipt and its plugin events",
		Long: `Fetch a transaction receipt over the direct RPC connection and list its logs.
Whitelist plugin events are decoded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowReceipt.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.NewReceiptRenderer(cmd.OutOrStdout(), app.Config.Output).Render(result)
		},
	}
}
