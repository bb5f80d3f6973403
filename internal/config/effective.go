package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/altuslabsxyz/walletops/internal/txengine"
)

// Chain defaults for Terra Classic.
const (
	DefaultChainID      = "columbus-5"
	DefaultBech32Prefix = "terra"
	DefaultCoinType     = 330
	DefaultFeeDenom     = "uluna"
	DefaultGRPCEndpoint = "terra-classic-grpc.publicnode.com:443"
	DefaultRPCEndpoint  = "https://terra-classic-rpc.publicnode.com:443"
	DefaultGasPricesURL = "https://terra-classic-fcd.publicnode.com/v1/txs/gas_prices"
	DefaultGasPrices    = "28.325uluna"
	DefaultGovVersion   = "auto"

	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 15

	DefaultWalletFile = "user_config.yml"

	DefaultSwapDenom         = "uusd"
	DefaultMaxSpread         = "0.01"
	DefaultSlippageTolerance = "0.01"

	DefaultWithdrawThreshold = "0"
	DefaultRemainder         = "100000000"
	DefaultDelegate          = "100%"
)

// EffectiveConfig represents the final merged configuration after applying priority chain.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	// [chain]
	ChainID      StringValue
	Bech32Prefix StringValue
	CoinType     IntValue
	FeeDenom     StringValue
	GRPCEndpoint StringValue
	RPCEndpoint  StringValue
	TLS          BoolValue
	GasPricesURL StringValue
	GasPrices    StringValue
	GovVersion   StringValue

	// [tx]
	GasAdjustment          FloatValue
	GasAdjustmentIncrement FloatValue
	MaxGasAdjustment       FloatValue
	MaxSequenceRetries     IntValue
	CallTimeout            DurationValue
	PollInterval           DurationValue
	PollAttempts           IntValue
	Memo                   StringValue

	// [wallets]
	WalletFile StringValue

	// [swap]
	MaxSpread StringValue
	SwapDenom StringValue
	Pairs     map[string]string

	// [pools]
	SlippageTolerance StringValue
	Pools             map[string]PoolConfig

	// [planner]
	WithdrawThreshold StringValue
	Remainder         StringValue
	Delegate          StringValue

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	policy := txengine.DefaultRetryPolicy()
	return &EffectiveConfig{
		Home:    NewStringValue(defaultHomeDir),
		NoColor: NewBoolValue(false),
		Verbose: NewBoolValue(false),
		JSON:    NewBoolValue(false),

		ChainID:      NewStringValue(DefaultChainID),
		Bech32Prefix: NewStringValue(DefaultBech32Prefix),
		CoinType:     NewIntValue(DefaultCoinType),
		FeeDenom:     NewStringValue(DefaultFeeDenom),
		GRPCEndpoint: NewStringValue(DefaultGRPCEndpoint),
		RPCEndpoint:  NewStringValue(DefaultRPCEndpoint),
		TLS:          NewBoolValue(false),
		GasPricesURL: NewStringValue(DefaultGasPricesURL),
		GasPrices:    NewStringValue(DefaultGasPrices),
		GovVersion:   NewStringValue(DefaultGovVersion),

		GasAdjustment:          NewFloatValue(policy.GasAdjustment),
		GasAdjustmentIncrement: NewFloatValue(policy.GasAdjustmentIncrement),
		MaxGasAdjustment:       NewFloatValue(policy.MaxGasAdjustment),
		MaxSequenceRetries:     NewIntValue(policy.MaxSequenceRetries),
		CallTimeout:            NewDurationValue(txengine.DefaultCallTimeout),
		PollInterval:           NewDurationValue(DefaultPollInterval),
		PollAttempts:           NewIntValue(DefaultPollAttempts),
		Memo:                   NewStringValue(""),

		WalletFile: NewStringValue(filepath.Join(defaultHomeDir, DefaultWalletFile)),

		MaxSpread: NewStringValue(DefaultMaxSpread),
		SwapDenom: NewStringValue(DefaultSwapDenom),
		Pairs:     map[string]string{},

		SlippageTolerance: NewStringValue(DefaultSlippageTolerance),
		Pools:             map[string]PoolConfig{},

		WithdrawThreshold: NewStringValue(DefaultWithdrawThreshold),
		Remainder:         NewStringValue(DefaultRemainder),
		Delegate:          NewStringValue(DefaultDelegate),
	}
}

func fileString(dst *StringValue, src *string) {
	if src != nil {
		*dst = StringValue{Value: *src, Source: SourceConfigFile}
	}
}

func fileBool(dst *BoolValue, src *bool) {
	if src != nil {
		*dst = BoolValue{Value: *src, Source: SourceConfigFile}
	}
}

func fileInt(dst *IntValue, src *int) {
	if src != nil {
		*dst = IntValue{Value: *src, Source: SourceConfigFile}
	}
}

func fileFloat(dst *FloatValue, src *float64) {
	if src != nil {
		*dst = FloatValue{Value: *src, Source: SourceConfigFile}
	}
}

func fileDuration(dst *DurationValue, src *string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return err
	}
	*dst = DurationValue{Value: d, Source: SourceConfigFile}
	return nil
}

// ApplyFile overlays the values present in f.
func (c *EffectiveConfig) ApplyFile(f *FileConfig, path string) error {
	if f == nil {
		return nil
	}
	c.ConfigFilePath = path

	fileString(&c.Home, f.Home)
	fileBool(&c.NoColor, f.NoColor)
	fileBool(&c.Verbose, f.Verbose)
	fileBool(&c.JSON, f.JSON)

	fileString(&c.ChainID, f.Chain.ChainID)
	fileString(&c.Bech32Prefix, f.Chain.Bech32Prefix)
	fileInt(&c.CoinType, f.Chain.CoinType)
	fileString(&c.FeeDenom, f.Chain.FeeDenom)
	fileString(&c.GRPCEndpoint, f.Chain.GRPCEndpoint)
	fileString(&c.RPCEndpoint, f.Chain.RPCEndpoint)
	fileBool(&c.TLS, f.Chain.TLS)
	fileString(&c.GasPricesURL, f.Chain.GasPricesURL)
	fileString(&c.GasPrices, f.Chain.GasPrices)
	fileString(&c.GovVersion, f.Chain.GovVersion)

	fileFloat(&c.GasAdjustment, f.Tx.GasAdjustment)
	fileFloat(&c.GasAdjustmentIncrement, f.Tx.GasAdjustmentIncrement)
	fileFloat(&c.MaxGasAdjustment, f.Tx.MaxGasAdjustment)
	fileInt(&c.MaxSequenceRetries, f.Tx.MaxSequenceRetries)
	if err := fileDuration(&c.CallTimeout, f.Tx.CallTimeout); err != nil {
		return fmt.Errorf("invalid tx.call_timeout: %w", err)
	}
	if err := fileDuration(&c.PollInterval, f.Tx.PollInterval); err != nil {
		return fmt.Errorf("invalid tx.poll_interval: %w", err)
	}
	fileInt(&c.PollAttempts, f.Tx.PollAttempts)
	fileString(&c.Memo, f.Tx.Memo)

	fileString(&c.WalletFile, f.Wallets.File)

	fileString(&c.MaxSpread, f.Swap.MaxSpread)
	fileString(&c.SwapDenom, f.Swap.Denom)
	for k, v := range f.Swap.Pairs {
		c.Pairs[k] = v
	}

	fileString(&c.SlippageTolerance, f.Pools.SlippageTolerance)
	for k, v := range f.Pools.Named {
		c.Pools[k] = v
	}

	fileString(&c.WithdrawThreshold, f.Planner.WithdrawThreshold)
	fileString(&c.Remainder, f.Planner.Remainder)
	fileString(&c.Delegate, f.Planner.Delegate)

	return nil
}

// Finalize derives values that depend on other settings once all sources are applied.
func (c *EffectiveConfig) Finalize() {
	c.Home.Value = expandHome(c.Home.Value)
	if c.WalletFile.Source == SourceDefault {
		c.WalletFile.Value = filepath.Join(c.Home.Value, DefaultWalletFile)
	}
	c.WalletFile.Value = expandHome(c.WalletFile.Value)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// RetryPolicy returns the [tx] retry bounds.
func (c *EffectiveConfig) RetryPolicy() txengine.RetryPolicy {
	return txengine.RetryPolicy{
		GasAdjustment:          c.GasAdjustment.Value,
		GasAdjustmentIncrement: c.GasAdjustmentIncrement.Value,
		MaxGasAdjustment:       c.MaxGasAdjustment.Value,
		MaxSequenceRetries:     c.MaxSequenceRetries.Value,
	}
}

// PairKey is the [swap.pairs] key for an offer and ask denom.
func PairKey(offer, ask string) string {
	return offer + ":" + ask
}

// Pair returns the pair contract configured for offer and ask.
func (c *EffectiveConfig) Pair(offer, ask string) (string, bool) {
	addr, ok := c.Pairs[PairKey(offer, ask)]
	return addr, ok && addr != ""
}

// Pool resolves a pool by name, or by contract address when no name matches.
func (c *EffectiveConfig) Pool(nameOrAddress string) (PoolConfig, bool) {
	if p, ok := c.Pools[nameOrAddress]; ok {
		return p, true
	}
	for _, p := range c.Pools {
		if p.Contract == nameOrAddress {
			return p, true
		}
	}
	return PoolConfig{}, false
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "chain.chain_id\t%s\t%s\n", c.ChainID.Value, c.ChainID.Source)
	fmt.Fprintf(tw, "chain.bech32_prefix\t%s\t%s\n", c.Bech32Prefix.Value, c.Bech32Prefix.Source)
	fmt.Fprintf(tw, "chain.coin_type\t%d\t%s\n", c.CoinType.Value, c.CoinType.Source)
	fmt.Fprintf(tw, "chain.fee_denom\t%s\t%s\n", c.FeeDenom.Value, c.FeeDenom.Source)
	fmt.Fprintf(tw, "chain.grpc_endpoint\t%s\t%s\n", c.GRPCEndpoint.Value, c.GRPCEndpoint.Source)
	fmt.Fprintf(tw, "chain.rpc_endpoint\t%s\t%s\n", c.RPCEndpoint.Value, c.RPCEndpoint.Source)
	fmt.Fprintf(tw, "chain.tls\t%t\t%s\n", c.TLS.Value, c.TLS.Source)
	fmt.Fprintf(tw, "chain.gas_prices_url\t%s\t%s\n", orNotSet(c.GasPricesURL.Value), c.GasPricesURL.Source)
	fmt.Fprintf(tw, "chain.gas_prices\t%s\t%s\n", orNotSet(c.GasPrices.Value), c.GasPrices.Source)
	fmt.Fprintf(tw, "chain.gov_version\t%s\t%s\n", c.GovVersion.Value, c.GovVersion.Source)
	fmt.Fprintf(tw, "tx.gas_adjustment\t%g\t%s\n", c.GasAdjustment.Value, c.GasAdjustment.Source)
	fmt.Fprintf(tw, "tx.gas_adjustment_increment\t%g\t%s\n", c.GasAdjustmentIncrement.Value, c.GasAdjustmentIncrement.Source)
	fmt.Fprintf(tw, "tx.max_gas_adjustment\t%g\t%s\n", c.MaxGasAdjustment.Value, c.MaxGasAdjustment.Source)
	fmt.Fprintf(tw, "tx.max_sequence_retries\t%d\t%s\n", c.MaxSequenceRetries.Value, c.MaxSequenceRetries.Source)
	fmt.Fprintf(tw, "tx.call_timeout\t%s\t%s\n", c.CallTimeout.Value, c.CallTimeout.Source)
	fmt.Fprintf(tw, "tx.poll_interval\t%s\t%s\n", c.PollInterval.Value, c.PollInterval.Source)
	fmt.Fprintf(tw, "tx.poll_attempts\t%d\t%s\n", c.PollAttempts.Value, c.PollAttempts.Source)
	fmt.Fprintf(tw, "tx.memo\t%s\t%s\n", orNotSet(c.Memo.Value), c.Memo.Source)
	fmt.Fprintf(tw, "wallets.file\t%s\t%s\n", c.WalletFile.Value, c.WalletFile.Source)
	fmt.Fprintf(tw, "swap.denom\t%s\t%s\n", c.SwapDenom.Value, c.SwapDenom.Source)
	fmt.Fprintf(tw, "swap.max_spread\t%s\t%s\n", c.MaxSpread.Value, c.MaxSpread.Source)
	fmt.Fprintf(tw, "swap.pairs\t%s\t\n", joinMap(c.Pairs))
	fmt.Fprintf(tw, "pools.slippage_tolerance\t%s\t%s\n", c.SlippageTolerance.Value, c.SlippageTolerance.Source)
	fmt.Fprintf(tw, "pools.named\t%s\t\n", joinPools(c.Pools))
	fmt.Fprintf(tw, "planner.withdraw_threshold\t%s\t%s\n", c.WithdrawThreshold.Value, c.WithdrawThreshold.Source)
	fmt.Fprintf(tw, "planner.remainder\t%s\t%s\n", c.Remainder.Value, c.Remainder.Source)
	fmt.Fprintf(tw, "planner.delegate\t%s\t%s\n", c.Delegate.Value, c.Delegate.Source)
	tw.Flush()
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func joinMap(m map[string]string) string {
	if len(m) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ", ")
}

func joinPools(m map[string]PoolConfig) string {
	if len(m) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
