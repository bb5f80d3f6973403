package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, "config.toml")
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)

	if err := os.WriteFile(w.Path(), []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

type tomlBuilder struct {
	sb strings.Builder
}

func (b *tomlBuilder) section(title, table string) {
	b.sb.WriteString("# =============================================================================\n")
	fmt.Fprintf(&b.sb, "# %s\n", title)
	b.sb.WriteString("# =============================================================================\n")
	if table != "" {
		fmt.Fprintf(&b.sb, "[%s]\n", table)
	}
}

func (b *tomlBuilder) str(key string, v *string, def string) {
	if v != nil {
		fmt.Fprintf(&b.sb, "%s = %q\n", key, *v)
		return
	}
	fmt.Fprintf(&b.sb, "# %s = %q\n", key, def)
}

func (b *tomlBuilder) boolean(key string, v *bool, def bool) {
	if v != nil {
		fmt.Fprintf(&b.sb, "%s = %t\n", key, *v)
		return
	}
	fmt.Fprintf(&b.sb, "# %s = %t\n", key, def)
}

func (b *tomlBuilder) integer(key string, v *int, def int) {
	if v != nil {
		fmt.Fprintf(&b.sb, "%s = %d\n", key, *v)
		return
	}
	fmt.Fprintf(&b.sb, "# %s = %d\n", key, def)
}

func (b *tomlBuilder) float(key string, v *float64, def float64) {
	if v != nil {
		fmt.Fprintf(&b.sb, "%s = %g\n", key, *v)
		return
	}
	fmt.Fprintf(&b.sb, "# %s = %g\n", key, def)
}

func (b *tomlBuilder) blank() {
	b.sb.WriteString("\n")
}

// generateTOMLWithComments creates TOML content with section comments.
// Unset values are written as commented defaults.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	if cfg == nil {
		cfg = &FileConfig{}
	}
	defaults := NewEffectiveConfig(w.homeDir)
	b := &tomlBuilder{}

	b.sb.WriteString("# walletops configuration file\n")
	b.sb.WriteString("# Priority: default < config.toml < environment (WALLETOPS_*) < CLI flag\n")
	b.sb.WriteString("#\n")
	fmt.Fprintf(&b.sb, "# Location: %s\n", w.Path())
	b.sb.WriteString("# Override with: --config /path/to/config.toml\n\n")

	b.section("Global Settings (apply to all commands)", "")
	b.str("home", cfg.Home, w.homeDir)
	b.boolean("verbose", cfg.Verbose, false)
	b.boolean("json", cfg.JSON, false)
	b.boolean("no_color", cfg.NoColor, false)
	b.blank()

	b.section("Chain", "chain")
	b.str("chain_id", cfg.Chain.ChainID, DefaultChainID)
	b.str("bech32_prefix", cfg.Chain.Bech32Prefix, DefaultBech32Prefix)
	b.integer("coin_type", cfg.Chain.CoinType, DefaultCoinType)
	b.str("fee_denom", cfg.Chain.FeeDenom, DefaultFeeDenom)
	b.str("grpc_endpoint", cfg.Chain.GRPCEndpoint, DefaultGRPCEndpoint)
	b.str("rpc_endpoint", cfg.Chain.RPCEndpoint, DefaultRPCEndpoint)
	b.boolean("tls", cfg.Chain.TLS, false)
	b.str("gas_prices_url", cfg.Chain.GasPricesURL, DefaultGasPricesURL)
	b.str("gas_prices", cfg.Chain.GasPrices, DefaultGasPrices)
	b.str("gov_version", cfg.Chain.GovVersion, DefaultGovVersion)
	b.blank()

	b.section("Transactions", "tx")
	b.float("gas_adjustment", cfg.Tx.GasAdjustment, defaults.GasAdjustment.Value)
	b.float("gas_adjustment_increment", cfg.Tx.GasAdjustmentIncrement, defaults.GasAdjustmentIncrement.Value)
	b.float("max_gas_adjustment", cfg.Tx.MaxGasAdjustment, defaults.MaxGasAdjustment.Value)
	b.sb.WriteString("# 0 retries sequence mismatches without limit\n")
	b.integer("max_sequence_retries", cfg.Tx.MaxSequenceRetries, defaults.MaxSequenceRetries.Value)
	b.str("call_timeout", cfg.Tx.CallTimeout, defaults.CallTimeout.Value.String())
	b.str("poll_interval", cfg.Tx.PollInterval, defaults.PollInterval.Value.String())
	b.integer("poll_attempts", cfg.Tx.PollAttempts, defaults.PollAttempts.Value)
	b.str("memo", cfg.Tx.Memo, "")
	b.blank()

	b.section("Wallets", "wallets")
	b.str("file", cfg.Wallets.File, defaults.WalletFile.Value)
	b.blank()

	b.section("Swaps", "swap")
	b.str("denom", cfg.Swap.Denom, DefaultSwapDenom)
	b.str("max_spread", cfg.Swap.MaxSpread, DefaultMaxSpread)
	b.blank()
	b.sb.WriteString("[swap.pairs]\n")
	if len(cfg.Swap.Pairs) == 0 {
		b.sb.WriteString("# \"uusd:uluna\" = \"terra1...\"\n")
	}
	for _, k := range sortedKeys(cfg.Swap.Pairs) {
		fmt.Fprintf(&b.sb, "%q = %q\n", k, cfg.Swap.Pairs[k])
	}
	b.blank()

	b.section("Liquidity pools", "pools")
	b.str("slippage_tolerance", cfg.Pools.SlippageTolerance, DefaultSlippageTolerance)
	if len(cfg.Pools.Named) == 0 {
		b.sb.WriteString("# [pools.named.lunc-ustc]\n# contract = \"terra1...\"\n# lp_token = \"terra1...\"\n")
	}
	names := make([]string, 0, len(cfg.Pools.Named))
	for name := range cfg.Pools.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := cfg.Pools.Named[name]
		fmt.Fprintf(&b.sb, "\n[pools.named.%s]\ncontract = %q\nlp_token = %q\n", name, p.Contract, p.LPToken)
	}
	b.blank()

	b.section("Manage planner", "planner")
	b.sb.WriteString("# Amounts are in base units (1 LUNC = 1000000 uluna)\n")
	b.str("withdraw_threshold", cfg.Planner.WithdrawThreshold, DefaultWithdrawThreshold)
	b.str("remainder", cfg.Planner.Remainder, DefaultRemainder)
	b.str("delegate", cfg.Planner.Delegate, DefaultDelegate)

	return b.sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
