package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	Chain   ChainSection   `toml:"chain"`
	Tx      TxSection      `toml:"tx"`
	Wallets WalletsSection `toml:"wallets"`
	Swap    SwapSection    `toml:"swap"`
	Pools   PoolsSection   `toml:"pools"`
	Planner PlannerSection `toml:"planner"`
}

// ChainSection holds the [chain] table.
type ChainSection struct {
	ChainID      *string `toml:"chain_id"`
	Bech32Prefix *string `toml:"bech32_prefix"`
	CoinType     *int    `toml:"coin_type"`
	FeeDenom     *string `toml:"fee_denom"`

	GRPCEndpoint *string `toml:"grpc_endpoint"`
	RPCEndpoint  *string `toml:"rpc_endpoint"`
	TLS          *bool   `toml:"tls"`

	// GasPricesURL serves a {"denom": "price"} table.
	GasPricesURL *string `toml:"gas_prices_url"`
	// GasPrices is a static fallback such as "28.325uluna,0.75uusd".
	GasPrices *string `toml:"gas_prices"`

	// GovVersion is "auto", "v1" or "v1beta1".
	GovVersion *string `toml:"gov_version"`
}

// TxSection holds the [tx] table.
type TxSection struct {
	GasAdjustment          *float64 `toml:"gas_adjustment"`
	GasAdjustmentIncrement *float64 `toml:"gas_adjustment_increment"`
	MaxGasAdjustment       *float64 `toml:"max_gas_adjustment"`
	MaxSequenceRetries     *int     `toml:"max_sequence_retries"`

	CallTimeout  *string `toml:"call_timeout"`
	PollInterval *string `toml:"poll_interval"`
	PollAttempts *int    `toml:"poll_attempts"`
	Memo         *string `toml:"memo"`
}

// WalletsSection holds the [wallets] table.
type WalletsSection struct {
	File *string `toml:"file"`
}

// SwapSection holds the [swap] table.
type SwapSection struct {
	MaxSpread *string `toml:"max_spread"`
	// Pairs maps "offer:ask" to a pair contract address.
	Pairs map[string]string `toml:"pairs"`
	// Denom is the denomination the manage command swaps away.
	Denom *string `toml:"denom"`
}

// PoolsSection holds the [pools] table.
type PoolsSection struct {
	SlippageTolerance *string               `toml:"slippage_tolerance"`
	Named             map[string]PoolConfig `toml:"named"`
}

// PoolConfig names one liquidity pool.
type PoolConfig struct {
	Contract string `toml:"contract"`
	LPToken  string `toml:"lp_token"`
}

// PlannerSection holds the [planner] table.
type PlannerSection struct {
	// WithdrawThreshold is the minimum reward, in base units, worth withdrawing.
	WithdrawThreshold *string `toml:"withdraw_threshold"`
	// Remainder is the balance, in base units, left behind after delegating.
	Remainder *string `toml:"remainder"`
	// Delegate is "80%" or an absolute base-unit amount.
	Delegate *string `toml:"delegate"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.Chain == (ChainSection{}) &&
		f.Tx == (TxSection{}) &&
		f.Wallets == (WalletsSection{}) &&
		f.Swap.MaxSpread == nil && f.Swap.Denom == nil && len(f.Swap.Pairs) == 0 &&
		f.Pools.SlippageTolerance == nil && len(f.Pools.Named) == 0 &&
		f.Planner == (PlannerSection{})
}
