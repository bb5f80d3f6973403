package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/config"
)

// NewShowCmd creates the config show subcommand.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		Long: `Display the current effective configuration with sources.

Shows all configuration values and where they came from:
  - default: Built-in default value
  - config.toml: Value from config file
  - environment: Value from a WALLETOPS_* environment variable
  - flag: Value from command-line flag`,
		Args: cobra.NoArgs,
		RunE: shared.RunE(runShow),
	}

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := shared.Container(cmd)
	if err != nil {
		return err
	}
	cfg := c.Config()
	w := cmd.OutOrStdout()

	if c.Logger().IsJSONMode() {
		return outputShowJSON(w, cfg)
	}

	cfg.ToTable(w)
	if cfg.ConfigFilePath != "" {
		fmt.Fprintf(w, "\nConfig file: %s\n", cfg.ConfigFilePath)
	} else {
		fmt.Fprintln(w, "\nNo config file loaded")
	}
	return nil
}

type valueJSON struct {
	Value  interface{} `json:"value"`
	Source string      `json:"source"`
}

func outputShowJSON(w io.Writer, cfg *config.EffectiveConfig) error {
	out := map[string]interface{}{
		"home":                        valueJSON{cfg.Home.Value, cfg.Home.Source.String()},
		"chain.chain_id":              valueJSON{cfg.ChainID.Value, cfg.ChainID.Source.String()},
		"chain.bech32_prefix":         valueJSON{cfg.Bech32Prefix.Value, cfg.Bech32Prefix.Source.String()},
		"chain.coin_type":             valueJSON{cfg.CoinType.Value, cfg.CoinType.Source.String()},
		"chain.fee_denom":             valueJSON{cfg.FeeDenom.Value, cfg.FeeDenom.Source.String()},
		"chain.grpc_endpoint":         valueJSON{cfg.GRPCEndpoint.Value, cfg.GRPCEndpoint.Source.String()},
		"chain.rpc_endpoint":          valueJSON{cfg.RPCEndpoint.Value, cfg.RPCEndpoint.Source.String()},
		"chain.tls":                   valueJSON{cfg.TLS.Value, cfg.TLS.Source.String()},
		"chain.gas_prices_url":        valueJSON{cfg.GasPricesURL.Value, cfg.GasPricesURL.Source.String()},
		"chain.gas_prices":            valueJSON{cfg.GasPrices.Value, cfg.GasPrices.Source.String()},
		"chain.gov_version":           valueJSON{cfg.GovVersion.Value, cfg.GovVersion.Source.String()},
		"tx.gas_adjustment":           valueJSON{cfg.GasAdjustment.Value, cfg.GasAdjustment.Source.String()},
		"tx.gas_adjustment_increment": valueJSON{cfg.GasAdjustmentIncrement.Value, cfg.GasAdjustmentIncrement.Source.String()},
		"tx.max_gas_adjustment":       valueJSON{cfg.MaxGasAdjustment.Value, cfg.MaxGasAdjustment.Source.String()},
		"tx.max_sequence_retries":     valueJSON{cfg.MaxSequenceRetries.Value, cfg.MaxSequenceRetries.Source.String()},
		"tx.call_timeout":             valueJSON{cfg.CallTimeout.Value.String(), cfg.CallTimeout.Source.String()},
		"tx.memo":                     valueJSON{cfg.Memo.Value, cfg.Memo.Source.String()},
		"wallets.file":                valueJSON{cfg.WalletFile.Value, cfg.WalletFile.Source.String()},
		"swap.denom":                  valueJSON{cfg.SwapDenom.Value, cfg.SwapDenom.Source.String()},
		"swap.max_spread":             valueJSON{cfg.MaxSpread.Value, cfg.MaxSpread.Source.String()},
		"swap.pairs":                  cfg.Pairs,
		"pools.slippage_tolerance":    valueJSON{cfg.SlippageTolerance.Value, cfg.SlippageTolerance.Source.String()},
		"pools.named":                 cfg.Pools,
		"planner.withdraw_threshold":  valueJSON{cfg.WithdrawThreshold.Value, cfg.WithdrawThreshold.Source.String()},
		"planner.remainder":           valueJSON{cfg.Remainder.Value, cfg.Remainder.Source.String()},
		"planner.delegate":            valueJSON{cfg.Delegate.Value, cfg.Delegate.Source.String()},
		"config_file":                 cfg.ConfigFilePath,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
