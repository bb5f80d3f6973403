// Package di wires the chain client, broadcaster, message builder, wallet store
// and transaction runner from the effective configuration.
package di

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/planner"
	"github.com/altuslabsxyz/walletops/internal/txengine"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// Container holds all application dependencies.
// Dependencies are created on first use and shared afterwards.
type Container struct {
	mu sync.Mutex

	cfg    *config.EffectiveConfig
	logger *output.Logger

	codec       *cosmos.Codec
	client      network.ChainClient
	closer      io.Closer
	broadcaster network.Broadcaster
	builder     network.MessageBuilder
	store       *wallet.FileStore
	nodeVersion *cosmos.NodeVersion
}

// Option is a function that configures the container.
type Option func(*Container)

// WithLogger sets a custom logger.
func WithLogger(logger *output.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithChainClient injects a chain client instead of dialing gRPC.
func WithChainClient(client network.ChainClient) Option {
	return func(c *Container) {
		c.client = client
	}
}

// WithBroadcaster injects a broadcaster instead of using the RPC endpoint.
func WithBroadcaster(b network.Broadcaster) Option {
	return func(c *Container) {
		c.broadcaster = b
	}
}

// WithMessageBuilder injects a message builder and skips gov version detection.
func WithMessageBuilder(b network.MessageBuilder) Option {
	return func(c *Container) {
		c.builder = b
	}
}

// WithWalletStore injects an already loaded wallet store.
func WithWalletStore(s *wallet.FileStore) Option {
	return func(c *Container) {
		c.store = s
	}
}

// New creates a Container for cfg.
func New(cfg *config.EffectiveConfig, opts ...Option) *Container {
	c := &Container{cfg: cfg, logger: output.DefaultLogger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Container) Config() *config.EffectiveConfig {
	return c.cfg
}

// Logger returns the CLI logger.
func (c *Container) Logger() *output.Logger {
	return c.logger
}

// chainLogger is silent unless --verbose.
func (c *Container) chainLogger() log.Logger {
	if !c.logger.IsVerbose() {
		return log.NewNopLogger()
	}
	return log.NewLogger(c.logger.ErrWriter(), log.ColorOption(!c.cfg.NoColor.Value))
}

// Codec returns the codec for the configured bech32 prefix.
func (c *Container) Codec() (*cosmos.Codec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codecLocked()
}

func (c *Container) codecLocked() (*cosmos.Codec, error) {
	if c.codec != nil {
		return c.codec, nil
	}
	if err := cosmos.SetupSDKConfig(c.cfg.Bech32Prefix.Value); err != nil {
		return nil, err
	}
	cdc, err := cosmos.NewCodec(c.cfg.Bech32Prefix.Value)
	if err != nil {
		return nil, err
	}
	c.codec = cdc
	return cdc, nil
}

// GasPriceSource prefers the REST gas price endpoint and falls back to the
// static [chain] gas_prices.
func (c *Container) GasPriceSource() (cosmos.GasPriceSource, error) {
	var static cosmos.GasPriceSource
	if c.cfg.GasPrices.Value != "" {
		s, err := cosmos.ParseStaticGasPrices(c.cfg.GasPrices.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid chain.gas_prices: %w", err)
		}
		static = s
	}

	if c.cfg.GasPricesURL.Value == "" {
		if static == nil {
			return nil, fmt.Errorf("either chain.gas_prices_url or chain.gas_prices must be set")
		}
		return static, nil
	}

	rest := cosmos.NewRESTGasPrices(c.cfg.GasPricesURL.Value)
	if static == nil {
		return rest, nil
	}
	return cosmos.FallbackGasPrices{Primary: rest, Fallback: static, Logger: c.chainLogger()}, nil
}

// ChainClient returns the gRPC chain client.
func (c *Container) ChainClient() (network.ChainClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chainClientLocked()
}

func (c *Container) chainClientLocked() (network.ChainClient, error) {
	if c.client != nil {
		return c.client, nil
	}
	cdc, err := c.codecLocked()
	if err != nil {
		return nil, err
	}
	prices, err := c.GasPriceSource()
	if err != nil {
		return nil, err
	}

	client, err := cosmos.NewClient(cosmos.ClientConfig{
		GRPCEndpoint: c.cfg.GRPCEndpoint.Value,
		TLS:          c.cfg.TLS.Value,
		GasPrices:    prices,
		Logger:       c.chainLogger(),
		LegacyGov:    c.cfg.GovVersion.Value == "v1beta1",
	}, cdc)
	if err != nil {
		return nil, err
	}
	c.client = client
	c.closer = client
	return client, nil
}

// Broadcaster returns the RPC broadcaster. Inclusion is polled through the
// chain client when it can look transactions up.
func (c *Container) Broadcaster() (network.Broadcaster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broadcaster != nil {
		return c.broadcaster, nil
	}
	client, err := c.chainClientLocked()
	if err != nil {
		return nil, err
	}
	lookup, _ := client.(cosmos.TxLookup)

	b, err := cosmos.NewBroadcaster(cosmos.BroadcasterConfig{
		RPCEndpoint:  c.cfg.RPCEndpoint.Value,
		PollInterval: c.cfg.PollInterval.Value,
		PollAttempts: c.cfg.PollAttempts.Value,
		Logger:       c.chainLogger(),
	}, lookup)
	if err != nil {
		return nil, err
	}
	c.broadcaster = b
	return b, nil
}

// NodeVersion detects the node application version once.
func (c *Container) NodeVersion(ctx context.Context) (*cosmos.NodeVersion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nodeVersion != nil {
		return c.nodeVersion, nil
	}
	v, err := cosmos.DetectNodeVersion(ctx, c.cfg.RPCEndpoint.Value)
	if err != nil {
		return nil, err
	}
	c.nodeVersion = v
	return v, nil
}

// LegacyGov reports whether votes must use gov v1beta1 messages.
// "auto" asks the node and falls back to gov v1 when it cannot tell.
func (c *Container) LegacyGov(ctx context.Context) bool {
	switch c.cfg.GovVersion.Value {
	case "v1beta1":
		return true
	case "v1":
		return false
	}

	v, err := c.NodeVersion(ctx)
	if err != nil {
		c.logger.Debug("Node version detection failed, assuming gov v1: %v", err)
		return false
	}
	c.logger.Debug("Detected %s %s at height %d", v.AppName, v.Version, v.LastBlockHeight)
	return !v.HasFeature(cosmos.FeatureGovV1)
}

// MessageBuilder returns the builder matching the chain's gov module version.
func (c *Container) MessageBuilder(ctx context.Context) network.MessageBuilder {
	c.mu.Lock()
	if c.builder != nil {
		defer c.mu.Unlock()
		return c.builder
	}
	c.mu.Unlock()

	b := cosmos.NewMessageBuilder(c.LegacyGov(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.builder = b
	return b
}

// Runner creates a transaction runner approving through approver.
func (c *Container) Runner(ctx context.Context, approver network.Approver) (*txengine.Runner, error) {
	client, err := c.ChainClient()
	if err != nil {
		return nil, err
	}
	broadcaster, err := c.Broadcaster()
	if err != nil {
		return nil, err
	}

	return txengine.NewRunner(txengine.Dependencies{
		Client:      client,
		Builder:     c.MessageBuilder(ctx),
		Broadcaster: broadcaster,
		Approver:    approver,
		Logger:      c.logger,
	}, txengine.Config{
		FeeDenom:    c.cfg.FeeDenom.Value,
		Policy:      c.cfg.RetryPolicy(),
		CallTimeout: c.cfg.CallTimeout.Value,
	})
}

// KeyOptions returns the derivation settings of the configured chain.
func (c *Container) KeyOptions() wallet.KeyOptions {
	return wallet.KeyOptions{
		CoinType:     uint32(c.cfg.CoinType.Value),
		Bech32Prefix: c.cfg.Bech32Prefix.Value,
	}
}

// WalletStore loads the wallet file once.
func (c *Container) WalletStore() (*wallet.FileStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		return c.store, nil
	}
	store := wallet.NewFileStore(c.cfg.WalletFile.Value)
	if err := store.Load(); err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// Signer creates a signer for an unlocked wallet.
func (c *Container) Signer(w *wallet.Wallet) (*cosmos.Signer, error) {
	cdc, err := c.Codec()
	if err != nil {
		return nil, err
	}
	return cosmos.NewSigner(w.PrivKey, cosmos.SignerConfig{
		ChainID:      c.cfg.ChainID.Value,
		Bech32Prefix: c.cfg.Bech32Prefix.Value,
		Memo:         c.cfg.Memo.Value,
		TxConfig:     cdc.TxConfig,
	})
}

// Planner creates the manage planner from the [planner] and [swap] settings.
func (c *Container) Planner() (*planner.Planner, error) {
	client, err := c.ChainClient()
	if err != nil {
		return nil, err
	}
	remainder, ok := sdkmath.NewIntFromString(c.cfg.Remainder.Value)
	if !ok || remainder.IsNegative() {
		return nil, fmt.Errorf("planner.remainder must be an amount in base units, got %q", c.cfg.Remainder.Value)
	}

	pair, _ := c.cfg.Pair(c.cfg.SwapDenom.Value, c.cfg.FeeDenom.Value)
	return planner.New(client, planner.Config{
		StakeDenom: c.cfg.FeeDenom.Value,
		SwapDenom:  c.cfg.SwapDenom.Value,
		SwapPair:   pair,
		MaxSpread:  c.cfg.MaxSpread.Value,
		Remainder:  remainder,
	}, c.logger)
}

// Close releases the gRPC connection.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

type containerKey struct{}

// WithContainer returns a new context carrying c.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}

// FromContext retrieves the Container from context.
// Returns nil if no container is present.
func FromContext(ctx context.Context) *Container {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(containerKey{}).(*Container)
	return c
}
