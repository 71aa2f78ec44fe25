package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// NewPendingCmd creates the pending command group
func NewPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List and relay approved Safe multisig transactions",
	}

	cmd.AddCommand(newPendingListCmd())
	cmd.AddCommand(newPendingRelayCmd())
	return cmd
}

func newPendingListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List unexecuted multisig transactions of the Safe",
		Long: `List the Safe's queued multisig transactions from the Safe Transaction
Service, starting at the Safe's current nonce. Transactions with all required
confirmations and a plain call operation are marked relayable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			account, err := app.PendingRelay.ResolveAccount(cmd.Context(), usecase.TargetParams{})
			if err != nil {
				return err
			}

			var txs []*models.PendingMultisigTransaction
			for pending, err := range app.PendingRelay.ListPending(cmd.Context(), account) {
				if err != nil {
					return err
				}
				txs = append(txs, pending)
				if limit > 0 && len(txs) >= limit {
					break
				}
			}

			return render.NewPendingRenderer(cmd.OutOrStdout(), app.Config.Output).Render(render.NewPendingRows(txs))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many transactions (0 for all)")
	return cmd
}

func newPendingRelayCmd() *cobra.Command {
	var (
		nonce   string
		manager string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "relay [safeTxHash]",
		Short: "Relay an approved pending transaction through the plugin",
		Long: `Relay an approved pending multisig transaction as a plugin envelope.

Without a safeTxHash an interactive picker lists the Safe's relayable
transactions. Delegate calls and transactions missing confirmations are
rejected.`,
		Example: `  # Relay a known transaction with plugin nonce 19
  plugrelay pending relay 0x8d5c... --nonce 19

  # Pick interactively
  plugrelay pending relay --safe 0x5afe... --nonce 19`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			n, err := parseUint256("nonce", nonce)
			if err != nil {
				return err
			}

			params := usecase.RelayPendingParams{Nonce: n}
			if len(args) == 1 {
				params.SafeTxHash = args[0]
			}
			if manager != "" {
				if params.ManagerOverride, err = parseManager(manager); err != nil {
					return err
				}
			}

			if !yes && params.SafeTxHash != "" {
				ok, err := app.Selector.Confirm(cmd.Context(),
					fmt.Sprintf("Relay %s with plugin nonce %s", params.SafeTxHash, n))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("relay cancelled")
				}
			}

			result, err := app.PendingRelay.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewRelayRenderer(cmd.OutOrStdout(), app.Config.Output).RenderPending(result)
		},
	}

	cmd.Flags().StringVar(&nonce, "nonce", "", "Plugin nonce of the envelope")
	cmd.Flags().StringVar(&manager, "manager", "", "Execution manager to use verbatim")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	addRelayFlags(cmd)
	_ = cmd.MarkFlagRequired("nonce")
	return cmd
}
