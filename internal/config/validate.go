package config

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var govVersions = []string{"auto", "v1", "v1beta1"}

func validGovVersion(v string) bool {
	for _, g := range govVersions {
		if v == g {
			return true
		}
	}
	return false
}

// Validate validates the EffectiveConfig values against allowed ranges and types.
func (c *EffectiveConfig) Validate() error {
	if c.ChainID.Value == "" {
		return fmt.Errorf("chain.chain_id is required")
	}
	if c.Bech32Prefix.Value == "" {
		return fmt.Errorf("chain.bech32_prefix is required")
	}
	if c.CoinType.Value < 0 {
		return fmt.Errorf("invalid chain.coin_type: %d", c.CoinType.Value)
	}
	if err := sdk.ValidateDenom(c.FeeDenom.Value); err != nil {
		return fmt.Errorf("invalid chain.fee_denom: %w", err)
	}
	if c.GRPCEndpoint.Value == "" {
		return fmt.Errorf("chain.grpc_endpoint is required")
	}
	if c.RPCEndpoint.Value == "" {
		return fmt.Errorf("chain.rpc_endpoint is required")
	}
	if c.GasPricesURL.Value == "" && c.GasPrices.Value == "" {
		return fmt.Errorf("one of chain.gas_prices_url or chain.gas_prices is required")
	}
	if !validGovVersion(c.GovVersion.Value) {
		return fmt.Errorf("invalid chain.gov_version: %s (must be one of %s)", c.GovVersion.Value, strings.Join(govVersions, ", "))
	}

	if c.GasAdjustment.Value <= 0 {
		return fmt.Errorf("invalid tx.gas_adjustment: %g (must be positive)", c.GasAdjustment.Value)
	}
	if c.GasAdjustmentIncrement.Value <= 0 {
		return fmt.Errorf("invalid tx.gas_adjustment_increment: %g (must be positive)", c.GasAdjustmentIncrement.Value)
	}
	if c.MaxGasAdjustment.Value < c.GasAdjustment.Value {
		return fmt.Errorf("invalid tx.max_gas_adjustment: %g (must be at least gas_adjustment %g)",
			c.MaxGasAdjustment.Value, c.GasAdjustment.Value)
	}
	if c.MaxSequenceRetries.Value < 0 {
		return fmt.Errorf("invalid tx.max_sequence_retries: %d (0 means unlimited)", c.MaxSequenceRetries.Value)
	}
	if c.CallTimeout.Value <= 0 {
		return fmt.Errorf("invalid tx.call_timeout: %s", c.CallTimeout.Value)
	}
	if c.PollAttempts.Value < 0 {
		return fmt.Errorf("invalid tx.poll_attempts: %d", c.PollAttempts.Value)
	}

	for _, v := range []StringValue{c.MaxSpread, c.SlippageTolerance} {
		if _, err := sdkmath.LegacyNewDecFromStr(v.Value); err != nil {
			return fmt.Errorf("invalid decimal %q: %w", v.Value, err)
		}
	}
	for key := range c.Pairs {
		if parts := strings.Split(key, ":"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid swap.pairs key %q (expected \"offer:ask\")", key)
		}
	}
	for name, p := range c.Pools {
		if p.Contract == "" {
			return fmt.Errorf("pools.named.%s.contract is required", name)
		}
	}
	for _, v := range []StringValue{c.WithdrawThreshold, c.Remainder} {
		if n, ok := sdkmath.NewIntFromString(v.Value); !ok || n.IsNegative() {
			return fmt.Errorf("invalid base-unit amount %q", v.Value)
		}
	}

	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Chain.GovVersion != nil && !validGovVersion(*cfg.Chain.GovVersion) {
		return fmt.Errorf("invalid gov_version in config file: %s (must be one of %s)",
			*cfg.Chain.GovVersion, strings.Join(govVersions, ", "))
	}
	if cfg.Chain.CoinType != nil && *cfg.Chain.CoinType < 0 {
		return fmt.Errorf("invalid coin_type in config file: %d", *cfg.Chain.CoinType)
	}
	if cfg.Tx.GasAdjustment != nil && *cfg.Tx.GasAdjustment <= 0 {
		return fmt.Errorf("invalid gas_adjustment in config file: %g (must be positive)", *cfg.Tx.GasAdjustment)
	}
	if cfg.Tx.GasAdjustmentIncrement != nil && *cfg.Tx.GasAdjustmentIncrement <= 0 {
		return fmt.Errorf("invalid gas_adjustment_increment in config file: %g (must be positive)", *cfg.Tx.GasAdjustmentIncrement)
	}
	if cfg.Tx.MaxSequenceRetries != nil && *cfg.Tx.MaxSequenceRetries < 0 {
		return fmt.Errorf("invalid max_sequence_retries in config file: %d", *cfg.Tx.MaxSequenceRetries)
	}

	return nil
}
