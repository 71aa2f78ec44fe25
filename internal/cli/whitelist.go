package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// NewWhitelistCmd creates the whitelist command group
func NewWhitelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "whitelist",
		Aliases: []string{"wl"},
		Short:   "Inspect and edit the plugin's counter-account whitelist",
	}

	cmd.AddCommand(newWhitelistCheckCmd())
	cmd.AddCommand(newWhitelistEditCmd(models.WhitelistAdd))
	cmd.AddCommand(newWhitelistEditCmd(models.WhitelistRemove))
	return cmd
}

func newWhitelistCheckCmd() *cobra.Command {
	var direct bool

	cmd := &cobra.Command{
		Use:   "check <counter>",
		Short: "Check whether a counter account is whitelisted for the Safe",
		Long: `Read the plugin's whitelist entry for (safe, counter).

The entry is always read fresh from chain. If the read fails the status is
reported as unknown and the command exits non-zero.`,
		Example: `  # Check through the configured network
  plugrelay whitelist check 0xC0ffee254729296a45a3885639AC7E10F9d54979 --safe 0x5afe... -n goerli`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			check, err := app.CheckWhitelist.Run(cmd.Context(), usecase.CheckWhitelistParams{
				Target:  usecase.TargetParams{ForceDirect: direct},
				Counter: args[0],
			})
			if check != nil {
				if renderErr := render.NewWhitelistRenderer(cmd.OutOrStdout(), app.Config.Output).RenderCheck(check); renderErr != nil {
					return renderErr
				}
			}
			if err != nil && errors.Is(err, domain.ErrReadFailed) {
				return errors.New("whitelist status unknown")
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "Use the direct RPC connection even when a host is available")
	return cmd
}

func newWhitelistEditCmd(edit models.WhitelistEdit) *cobra.Command {
	short := "Propose adding a counter account to the whitelist"
	if edit == models.WhitelistRemove {
		short = "Propose removing a counter account from the whitelist"
	}

	return &cobra.Command{
		Use:   string(edit) + " <counter>",
		Short: short,
		Long: short + `.

The edit is proposed to the Safe, through the host wallet bridge when one is
active and through the Safe Transaction Service otherwise (requires
PLUGRELAY_PROPOSER_KEY). It takes effect once the Safe owners execute it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageWhitelist.Run(cmd.Context(), usecase.ManageWhitelistParams{
				Edit:    edit,
				Counter: args[0],
			})
			if err != nil {
				return err
			}
			return render.NewWhitelistRenderer(cmd.OutOrStdout(), app.Config.Output).RenderEdit(result)
		},
	}
}
