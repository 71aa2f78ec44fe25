package cli

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/plugrelay/internal/cli/render"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// NewRelayCmd creates the relay command
func NewRelayCmd() *cobra.Command {
	var (
		to         string
		value      string
		data       string
		nonce      string
		manager    string
		rootAccess bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Build an envelope and relay it through the plugin",
		Long: `Build a plugin envelope for one call and submit it through the plugin's
execution entry point.

The envelope is bound to the plugin's registered metadata hash and the given
plugin nonce. Submission needs a direct connection with PLUGRELAY_SIGNER_KEY
set. Each invocation is a single attempt; a failed relay is never retried.`,
		Example: `  # Relay a call with plugin nonce 19
  plugrelay relay --safe 0x5afe... --to 0xF1a9... --data 0x2c8a3a3f --nonce 19 -n goerli

  # Relay through an explicit execution manager
  plugrelay relay --to 0xF1a9... --nonce 20 --manager 0x3A8...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params, err := relayParams(to, value, data, nonce, manager)
			if err != nil {
				return err
			}
			params.RootAccess = rootAccess

			if !yes {
				ok, err := app.Selector.Confirm(cmd.Context(),
					fmt.Sprintf("Relay call to %s with plugin nonce %s", params.To.Hex(), params.Nonce))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("relay cancelled")
				}
			}

			receipt, err := app.BuildAndRelay.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewRelayRenderer(cmd.OutOrStdout(), app.Config.Output).Render(receipt)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Call target")
	cmd.Flags().StringVar(&value, "value", "0", "Call value in wei")
	cmd.Flags().StringVar(&data, "data", "", "Hex calldata")
	cmd.Flags().StringVar(&nonce, "nonce", "", "Plugin nonce of the envelope")
	cmd.Flags().StringVar(&manager, "manager", "", "Execution manager to use verbatim")
	cmd.Flags().BoolVar(&rootAccess, "root-access", false, "Build a root-access envelope (the plugin must declare it)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	addRelayFlags(cmd)
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("nonce")

	return cmd
}

// addRelayFlags adds the submission settings shared by relaying commands.
func addRelayFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("gas-limit", 0, fmt.Sprintf("Gas ceiling for the relay transaction (default %d)", usecase.DefaultRelayGasLimit))
	cmd.Flags().Duration("receipt-timeout", 0, "How long to wait for inclusion (default 3m)")
}

func relayParams(to, value, data, nonce, manager string) (usecase.BuildAndRelayParams, error) {
	target, err := domain.ParseAddress(to)
	if err != nil {
		return usecase.BuildAndRelayParams{}, fmt.Errorf("--to: %w", err)
	}

	n, err := parseUint256("nonce", nonce)
	if err != nil {
		return usecase.BuildAndRelayParams{}, err
	}
	v, err := parseUint256("value", value)
	if err != nil {
		return usecase.BuildAndRelayParams{}, err
	}

	var calldata []byte
	if data != "" && data != "0x" {
		if calldata, err = hexutil.Decode(data); err != nil {
			return usecase.BuildAndRelayParams{}, fmt.Errorf("--data: %w", err)
		}
	}

	params := usecase.BuildAndRelayParams{To: target, Value: v, Data: calldata, Nonce: n}
	if manager != "" {
		override, err := parseManager(manager)
		if err != nil {
			return usecase.BuildAndRelayParams{}, err
		}
		params.ManagerOverride = override
	}
	return params, nil
}

func parseUint256(name, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("--%s is required", name)
	}
	n, ok := math.ParseBig256(s)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("--%s: %w: %q is not a uint256", name, domain.ErrInvalidEnvelope, s)
	}
	return n, nil
}

func parseManager(s string) (*common.Address, error) {
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("--manager: %w", err)
	}
	return &addr, nil
}
