package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/walletops/internal/output"
)

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     output.LoggerInterface
}

// NewConfigLoader creates a new ConfigLoader.
func NewConfigLoader(homeDir, configPath string, logger output.LoggerInterface) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Priority: explicit path > ./config.toml > ~/.walletops/config.toml
// All config files are merged, with higher priority values overwriting lower ones.
// Returns the merged FileConfig and the primary (highest priority) config file path.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	var configFiles []string

	// 3. Home directory (lowest priority)
	homePath := filepath.Join(l.homeDir, "config.toml")
	if _, err := os.Stat(homePath); err == nil {
		configFiles = append(configFiles, homePath)
	}

	// 2. Current directory
	if _, err := os.Stat("./config.toml"); err == nil {
		if absPath, _ := filepath.Abs("./config.toml"); absPath != homePath {
			configFiles = append(configFiles, "./config.toml")
		}
	}

	// 1. Explicit path (highest priority)
	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", l.configPath)
		}
		absPath, _ := filepath.Abs(l.configPath)
		isDuplicate := false
		for _, cf := range configFiles {
			if abs, _ := filepath.Abs(cf); abs == absPath {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			configFiles = append(configFiles, l.configPath)
		}
	}

	if len(configFiles) == 0 {
		return &FileConfig{}, "", nil
	}

	var merged FileConfig
	var primaryFile string
	for _, configFile := range configFiles {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := ValidateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}

func mergeBool(dst **bool, src *bool) {
	if src != nil {
		*dst = src
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		*dst = src
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	mergeString(&dst.Home, src.Home)
	mergeBool(&dst.NoColor, src.NoColor)
	mergeBool(&dst.Verbose, src.Verbose)
	mergeBool(&dst.JSON, src.JSON)

	mergeString(&dst.Chain.ChainID, src.Chain.ChainID)
	mergeString(&dst.Chain.Bech32Prefix, src.Chain.Bech32Prefix)
	mergeInt(&dst.Chain.CoinType, src.Chain.CoinType)
	mergeString(&dst.Chain.FeeDenom, src.Chain.FeeDenom)
	mergeString(&dst.Chain.GRPCEndpoint, src.Chain.GRPCEndpoint)
	mergeString(&dst.Chain.RPCEndpoint, src.Chain.RPCEndpoint)
	mergeBool(&dst.Chain.TLS, src.Chain.TLS)
	mergeString(&dst.Chain.GasPricesURL, src.Chain.GasPricesURL)
	mergeString(&dst.Chain.GasPrices, src.Chain.GasPrices)
	mergeString(&dst.Chain.GovVersion, src.Chain.GovVersion)

	mergeFloat(&dst.Tx.GasAdjustment, src.Tx.GasAdjustment)
	mergeFloat(&dst.Tx.GasAdjustmentIncrement, src.Tx.GasAdjustmentIncrement)
	mergeFloat(&dst.Tx.MaxGasAdjustment, src.Tx.MaxGasAdjustment)
	mergeInt(&dst.Tx.MaxSequenceRetries, src.Tx.MaxSequenceRetries)
	mergeString(&dst.Tx.CallTimeout, src.Tx.CallTimeout)
	mergeString(&dst.Tx.PollInterval, src.Tx.PollInterval)
	mergeInt(&dst.Tx.PollAttempts, src.Tx.PollAttempts)
	mergeString(&dst.Tx.Memo, src.Tx.Memo)

	mergeString(&dst.Wallets.File, src.Wallets.File)

	mergeString(&dst.Swap.MaxSpread, src.Swap.MaxSpread)
	mergeString(&dst.Swap.Denom, src.Swap.Denom)
	for k, v := range src.Swap.Pairs {
		if dst.Swap.Pairs == nil {
			dst.Swap.Pairs = make(map[string]string)
		}
		dst.Swap.Pairs[k] = v
	}

	mergeString(&dst.Pools.SlippageTolerance, src.Pools.SlippageTolerance)
	for k, v := range src.Pools.Named {
		if dst.Pools.Named == nil {
			dst.Pools.Named = make(map[string]PoolConfig)
		}
		dst.Pools.Named[k] = v
	}

	mergeString(&dst.Planner.WithdrawThreshold, src.Planner.WithdrawThreshold)
	mergeString(&dst.Planner.Remainder, src.Planner.Remainder)
	mergeString(&dst.Planner.Delegate, src.Planner.Delegate)
}

var knownKeys = map[string]map[string]bool{
	"": {
		"home": true, "no_color": true, "verbose": true, "json": true,
		"chain": true, "tx": true, "wallets": true, "swap": true, "pools": true, "planner": true,
	},
	"chain": {
		"chain_id": true, "bech32_prefix": true, "coin_type": true, "fee_denom": true,
		"grpc_endpoint": true, "rpc_endpoint": true, "tls": true,
		"gas_prices_url": true, "gas_prices": true, "gov_version": true,
	},
	"tx": {
		"gas_adjustment": true, "gas_adjustment_increment": true, "max_gas_adjustment": true,
		"max_sequence_retries": true, "call_timeout": true, "poll_interval": true,
		"poll_attempts": true, "memo": true,
	},
	"wallets": {"file": true},
	"swap":    {"max_spread": true, "pairs": true, "denom": true},
	"pools":   {"slippage_tolerance": true, "named": true},
	"planner": {"withdraw_threshold": true, "remainder": true, "delegate": true},
}

// unknownKeys lists the keys of a config document that no section defines.
func unknownKeys(data []byte) []string {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil // main parsing reports the error
	}

	var unknown []string
	for key, value := range raw {
		if !knownKeys[""][key] {
			unknown = append(unknown, key)
			continue
		}
		section, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		known := knownKeys[key]
		for sub := range section {
			if !known[sub] {
				unknown = append(unknown, key+"."+sub)
			}
		}
	}
	return unknown
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(data []byte) {
	if l.logger == nil {
		return
	}
	for _, key := range unknownKeys(data) {
		l.logger.Warn("Unknown config key: %s", key)
	}
}
