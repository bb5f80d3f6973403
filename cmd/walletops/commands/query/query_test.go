package query

import (
	"bytes"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

func TestSumRewards(t *testing.T) {
	rewards := []network.Reward{
		{Validator: "a", Amount: sdk.NewDecCoins(sdk.NewDecCoinFromDec("uluna", sdkmath.LegacyMustNewDecFromStr("10.5")))},
		{Validator: "b", Amount: sdk.NewDecCoins(
			sdk.NewDecCoinFromDec("uluna", sdkmath.LegacyMustNewDecFromStr("4.75")),
			sdk.NewDecCoinFromDec("uusd", sdkmath.LegacyMustNewDecFromStr("1")),
		)},
	}

	total := sumRewards(rewards)
	assert.Equal(t, "15", total.AmountOf("uluna").TruncateInt().String())
	assert.Equal(t, "1", total.AmountOf("uusd").TruncateInt().String())
	assert.True(t, sumRewards(nil).IsZero())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []proposalJSON{{ID: 7, Title: "Burn"}}))
	assert.Contains(t, buf.String(), `"id": 7`)
	assert.Contains(t, buf.String(), `"title": "Burn"`)
}
