package di

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

type stubClient struct {
	network.ChainClient
}

type stubBroadcaster struct {
	network.Broadcaster
}

type stubApprover struct{}

func (stubApprover) Approve(context.Context, *network.Preview) (bool, error) { return true, nil }

func testConfig(t *testing.T) *config.EffectiveConfig {
	cfg := config.NewEffectiveConfig(t.TempDir())
	cfg.Finalize()
	return cfg
}

func quietLogger() *output.Logger {
	return output.NewLoggerWithWriters(&bytes.Buffer{}, &bytes.Buffer{})
}

func TestGasPriceSource(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, WithLogger(quietLogger()))

	src, err := c.GasPriceSource()
	require.NoError(t, err)
	assert.IsType(t, cosmos.FallbackGasPrices{}, src)

	cfg.GasPricesURL.Value = ""
	src, err = c.GasPriceSource()
	require.NoError(t, err)
	prices, err := src.GasPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "28.325000000000000000uluna", prices.String())

	cfg.GasPrices.Value = ""
	_, err = c.GasPriceSource()
	require.Error(t, err)

	cfg.GasPricesURL.Value = "http://localhost/gas_prices"
	src, err = c.GasPriceSource()
	require.NoError(t, err)
	assert.IsType(t, &cosmos.RESTGasPrices{}, src)
}

func TestLegacyGov(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, WithLogger(quietLogger()))

	cfg.GovVersion.Value = "v1beta1"
	assert.True(t, c.LegacyGov(context.Background()))
	cfg.GovVersion.Value = "v1"
	assert.False(t, c.LegacyGov(context.Background()))
}

func TestLegacyGov_Auto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"response":{"data":"TerraApp","version":"v0.45.16","last_block_height":"100"}}}`))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.RPCEndpoint.Value = server.URL
	c := New(cfg, WithLogger(quietLogger()))
	assert.True(t, c.LegacyGov(context.Background()))

	v, err := c.NodeVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TerraApp", v.AppName)
}

func TestLegacyGov_AutoUnreachableAssumesV1(t *testing.T) {
	cfg := testConfig(t)
	cfg.RPCEndpoint.Value = "http://127.0.0.1:1"
	c := New(cfg, WithLogger(quietLogger()))
	assert.False(t, c.LegacyGov(context.Background()))
}

func TestRunner_UsesInjectedDependencies(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg,
		WithLogger(quietLogger()),
		WithChainClient(stubClient{}),
		WithBroadcaster(stubBroadcaster{}),
		WithMessageBuilder(cosmos.NewMessageBuilder(false)),
	)

	runner, err := c.Runner(context.Background(), stubApprover{})
	require.NoError(t, err)
	assert.NotNil(t, runner)
	require.NoError(t, c.Close())
}

func TestWalletStoreAndSigner(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, WithLogger(quietLogger()))

	store, err := c.WalletStore()
	require.NoError(t, err)
	assert.Empty(t, store.List())
	assert.Equal(t, filepath.Join(cfg.Home.Value, wallet.DefaultFileName), store.Path())

	again, err := c.WalletStore()
	require.NoError(t, err)
	assert.Same(t, store, again)

	mnemonic, err := wallet.GenerateMnemonic()
	require.NoError(t, err)
	priv, err := wallet.DeriveKey(mnemonic, c.KeyOptions())
	require.NoError(t, err)
	addr, err := wallet.Address(priv, "terra")
	require.NoError(t, err)

	signer, err := c.Signer(&wallet.Wallet{Entry: &wallet.Entry{Name: "w", Address: addr}, PrivKey: priv})
	require.NoError(t, err)
	assert.Equal(t, addr, signer.Address())
}

func TestPlanner(t *testing.T) {
	cfg := testConfig(t)
	c := New(cfg, WithLogger(quietLogger()), WithChainClient(stubClient{}))

	p, err := c.Planner()
	require.NoError(t, err)
	assert.NotNil(t, p)

	cfg.Remainder.Value = "50%"
	_, err = c.Planner()
	require.ErrorContains(t, err, "planner.remainder")
}

func TestContainerContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	c := New(testConfig(t))
	ctx := WithContainer(context.Background(), c)
	assert.Same(t, c, FromContext(ctx))
}
