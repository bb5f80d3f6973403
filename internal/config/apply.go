package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WALLETOPS_"

// ApplyStringFlag applies a string flag value if the flag was explicitly set.
func ApplyStringFlag(cmd *cobra.Command, flagName string, v *StringValue) {
	if !cmd.Flags().Changed(flagName) {
		return
	}
	if val, err := cmd.Flags().GetString(flagName); err == nil {
		*v = StringValue{Value: val, Source: SourceFlag}
	}
}

// ApplyBoolFlag applies a bool flag value if the flag was explicitly set.
// Checking Changed keeps an unset false flag from overriding a config true value.
func ApplyBoolFlag(cmd *cobra.Command, flagName string, v *BoolValue) {
	if !cmd.Flags().Changed(flagName) {
		return
	}
	if val, err := cmd.Flags().GetBool(flagName); err == nil {
		*v = BoolValue{Value: val, Source: SourceFlag}
	}
}

// ApplyFloatFlag applies a float flag value if the flag was explicitly set.
func ApplyFloatFlag(cmd *cobra.Command, flagName string, v *FloatValue) {
	if !cmd.Flags().Changed(flagName) {
		return
	}
	if val, err := cmd.Flags().GetFloat64(flagName); err == nil {
		*v = FloatValue{Value: val, Source: SourceFlag}
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays WALLETOPS_* variables. Flags applied afterwards win.
// Priority: default < config.toml < env < flag
func (c *EffectiveConfig) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := map[string]*StringValue{
		"HOME":           &c.Home,
		"CHAIN_ID":       &c.ChainID,
		"BECH32_PREFIX":  &c.Bech32Prefix,
		"FEE_DENOM":      &c.FeeDenom,
		"GRPC_ENDPOINT":  &c.GRPCEndpoint,
		"RPC_ENDPOINT":   &c.RPCEndpoint,
		"GAS_PRICES_URL": &c.GasPricesURL,
		"GAS_PRICES":     &c.GasPrices,
		"GOV_VERSION":    &c.GovVersion,
		"MEMO":           &c.Memo,
		"WALLET_FILE":    &c.WalletFile,
	}
	for name, v := range strs {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			*v = StringValue{Value: val, Source: SourceEnvironment}
		}
	}

	floats := map[string]*FloatValue{
		"GAS_ADJUSTMENT":           &c.GasAdjustment,
		"GAS_ADJUSTMENT_INCREMENT": &c.GasAdjustmentIncrement,
		"MAX_GAS_ADJUSTMENT":       &c.MaxGasAdjustment,
	}
	for name, v := range floats {
		val, ok := lookup(EnvPrefix + name)
		if !ok || val == "" {
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*v = FloatValue{Value: f, Source: SourceEnvironment}
	}

	ints := map[string]*IntValue{
		"COIN_TYPE":            &c.CoinType,
		"MAX_SEQUENCE_RETRIES": &c.MaxSequenceRetries,
		"POLL_ATTEMPTS":        &c.PollAttempts,
	}
	for name, v := range ints {
		val, ok := lookup(EnvPrefix + name)
		if !ok || val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*v = IntValue{Value: n, Source: SourceEnvironment}
	}

	if val, ok := lookup(EnvPrefix + "CALL_TIMEOUT"); ok && val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %sCALL_TIMEOUT: %w", EnvPrefix, err)
		}
		c.CallTimeout = DurationValue{Value: d, Source: SourceEnvironment}
	}

	if val, ok := lookup(EnvPrefix + "TLS"); ok && val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %sTLS: %w", EnvPrefix, err)
		}
		c.TLS = BoolValue{Value: b, Source: SourceEnvironment}
	}

	// NO_COLOR follows https://no-color.org
	if val, ok := lookup("NO_COLOR"); ok && strings.TrimSpace(val) != "" {
		c.NoColor = BoolValue{Value: true, Source: SourceEnvironment}
	}

	return nil
}
