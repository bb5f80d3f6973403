package shared

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/txengine"
	"github.com/altuslabsxyz/walletops/internal/wallet"
	"github.com/altuslabsxyz/walletops/pkg/network"
)

func TestDisplayCoin(t *testing.T) {
	tests := []struct {
		coin sdk.Coin
		want string
	}{
		{sdk.NewInt64Coin("uluna", 1500000), "1.5 LUNA"},
		{sdk.NewInt64Coin("uusd", 0), "0 USD"},
		{sdk.NewInt64Coin("uluna", 12000000), "12 LUNA"},
		{sdk.NewInt64Coin("stake", 7), "7stake"},
		{sdk.Coin{Denom: "uluna"}, "0 LUNA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayCoin(tt.coin))
	}
}

func TestPickWallets(t *testing.T) {
	wallets := []*wallet.Wallet{
		{Entry: &wallet.Entry{Name: "a"}},
		{Entry: &wallet.Entry{Name: "b"}},
	}

	picked, err := pickWallets(wallets, []string{"b", "a"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "b", picked[0].Name)

	_, err = pickWallets(wallets, []string{"c"})
	require.ErrorContains(t, err, `"c"`)
}

func TestHandleError(t *testing.T) {
	cmd := &cobra.Command{}
	err := HandleError(cmd, errors.New("bad flag"))
	require.Error(t, err)
	assert.False(t, cmd.SilenceUsage)

	cmd = &cobra.Command{}
	require.Error(t, HandleError(cmd, common.NewOperationalError("node down", "", nil)))
	assert.True(t, cmd.SilenceUsage)

	cmd = &cobra.Command{}
	require.Error(t, HandleError(cmd, fmt.Errorf("2 failed: %w", ErrReported)))
	assert.True(t, cmd.SilenceUsage)

	assert.NoError(t, HandleError(cmd, nil))
}

func TestRenderOutcome(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := output.NewLoggerWithWriters(&out, &errOut)
	logger.SetNoColor(true)

	RenderOutcome(logger, "main", &txengine.Outcome{
		Kind:     network.KindDelegate,
		Success:  true,
		TxHash:   "ABC",
		Fee:      sdk.NewCoin("uluna", sdkmath.NewInt(5000)),
		Sent:     sdk.NewCoins(sdk.NewInt64Coin("uluna", 100)),
		Attempts: 1,
	})
	assert.Contains(t, out.String(), "staking/delegate on main completed")
	assert.Contains(t, out.String(), "Fee:      5000uluna")
	assert.Contains(t, out.String(), "Tx Hash:  ABC")

	out.Reset()
	RenderOutcome(logger, "main", &txengine.Outcome{Kind: network.KindVote, Declined: true})
	assert.Contains(t, out.String(), "was not sent")

	RenderError(logger, "main", network.KindVote, errors.New("dial failed"))
	assert.Contains(t, errOut.String(), "gov/vote on main failed")
	assert.Contains(t, errOut.String(), "dial failed")
}
