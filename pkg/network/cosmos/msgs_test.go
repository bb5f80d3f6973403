// pkg/network/cosmos/msgs_test.go
package cosmos

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

const (
	testSender    = "terra1sender"
	testValidator = "terravaloper1validator"
)

func TestMessageBuilder_Vote(t *testing.T) {
	set, err := NewMessageBuilder(false).Build(network.VoteRequest{ProposalID: 42, Option: "YES"}, testSender)
	require.NoError(t, err)
	require.Equal(t, network.KindVote, set.Kind)
	require.Len(t, set.Msgs, 1)

	msg, ok := set.Msgs[0].(*govv1.MsgVote)
	require.True(t, ok)
	assert.Equal(t, uint64(42), msg.ProposalId)
	assert.Equal(t, testSender, msg.Voter)
	assert.Equal(t, govv1.OptionYes, msg.Option)
}

func TestMessageBuilder_LegacyVote(t *testing.T) {
	set, err := NewMessageBuilder(true).Build(network.VoteRequest{ProposalID: 7, Option: "no_with_veto"}, testSender)
	require.NoError(t, err)

	msg, ok := set.Msgs[0].(*govv1beta1.MsgVote)
	require.True(t, ok)
	assert.Equal(t, govv1beta1.OptionNoWithVeto, msg.Option)
}

func TestMessageBuilder_Delegate(t *testing.T) {
	amount := sdk.NewInt64Coin("uluna", 5_000_000)
	set, err := NewMessageBuilder(false).Build(network.DelegateRequest{Validator: testValidator, Amount: amount}, testSender)
	require.NoError(t, err)

	msg, ok := set.Msgs[0].(*stakingtypes.MsgDelegate)
	require.True(t, ok)
	assert.Equal(t, testSender, msg.DelegatorAddress)
	assert.Equal(t, testValidator, msg.ValidatorAddress)
	assert.Equal(t, amount, msg.Amount)
}

func TestMessageBuilder_WithdrawOnePerValidator(t *testing.T) {
	vals := []string{"terravaloper1a", "terravaloper1b", "terravaloper1c"}
	set, err := NewMessageBuilder(false).Build(network.WithdrawRequest{Validators: vals}, testSender)
	require.NoError(t, err)
	require.Len(t, set.Msgs, 3)

	for i, m := range set.Msgs {
		msg, ok := m.(*distrtypes.MsgWithdrawDelegatorReward)
		require.True(t, ok)
		assert.Equal(t, vals[i], msg.ValidatorAddress)
	}
}

func TestMessageBuilder_Swap(t *testing.T) {
	offer := sdk.NewInt64Coin("uusd", 1000)
	set, err := NewMessageBuilder(false).Build(network.SwapRequest{
		Pair:      "terra1pair",
		Offer:     offer,
		AskDenom:  "uluna",
		MaxSpread: "0.01",
	}, testSender)
	require.NoError(t, err)

	msg, ok := set.Msgs[0].(*wasmtypes.MsgExecuteContract)
	require.True(t, ok)
	assert.Equal(t, "terra1pair", msg.Contract)
	assert.Equal(t, sdk.NewCoins(offer), msg.Funds)
	assert.JSONEq(t,
		`{"swap":{"offer_asset":{"info":{"native_token":{"denom":"uusd"}},"amount":"1000"},"ask_asset_info":{"native_token":{"denom":"uluna"}},"max_spread":"0.01"}}`,
		string(msg.Msg))
}

func TestMessageBuilder_PoolJoin(t *testing.T) {
	assets := sdk.NewCoins(sdk.NewInt64Coin("uluna", 100), sdk.NewInt64Coin("uusd", 50))
	set, err := NewMessageBuilder(false).Build(network.PoolJoinRequest{Pool: "terra1pool", Assets: assets}, testSender)
	require.NoError(t, err)

	msg := set.Msgs[0].(*wasmtypes.MsgExecuteContract)
	assert.Equal(t, "terra1pool", msg.Contract)
	assert.Equal(t, assets, msg.Funds)

	var body map[string]map[string][]map[string]any
	require.NoError(t, json.Unmarshal(msg.Msg, &body))
	require.Len(t, body["provide_liquidity"]["assets"], 2)
}

func TestMessageBuilder_PoolExit(t *testing.T) {
	set, err := NewMessageBuilder(false).Build(network.PoolExitRequest{
		Pool:    "terra1pool",
		LPToken: "terra1lptoken",
		Amount:  sdkmath.NewInt(250),
	}, testSender)
	require.NoError(t, err)

	msg := set.Msgs[0].(*wasmtypes.MsgExecuteContract)
	assert.Equal(t, "terra1lptoken", msg.Contract)
	assert.Empty(t, msg.Funds)

	var body struct {
		Send cw20SendBody `json:"send"`
	}
	require.NoError(t, json.Unmarshal(msg.Msg, &body))
	assert.Equal(t, "terra1pool", body.Send.Contract)
	assert.Equal(t, "250", body.Send.Amount)

	hook, err := base64.StdEncoding.DecodeString(body.Send.Msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"withdraw_liquidity":{}}`, string(hook))
}

func TestMessageBuilder_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		req   network.OperationRequest
		field string
	}{
		{"vote without option", network.VoteRequest{ProposalID: 1}, "vote option"},
		{"vote without proposal", network.VoteRequest{Option: "yes"}, "proposal id"},
		{"vote with bad option", network.VoteRequest{ProposalID: 1, Option: "maybe"}, "vote option"},
		{"delegate without validator", network.DelegateRequest{Amount: sdk.NewInt64Coin("uluna", 1)}, "validator address"},
		{"delegate zero amount", network.DelegateRequest{Validator: testValidator, Amount: sdk.NewInt64Coin("uluna", 0)}, "amount"},
		{"withdraw without validators", network.WithdrawRequest{}, "validator address"},
		{"swap without ask denom", network.SwapRequest{Pair: "terra1pair", Offer: sdk.NewInt64Coin("uusd", 1)}, "target denomination"},
		{"swap same denom", network.SwapRequest{Pair: "terra1pair", Offer: sdk.NewInt64Coin("uusd", 1), AskDenom: "uusd"}, "target denomination"},
		{"swap bad spread", network.SwapRequest{Pair: "terra1pair", Offer: sdk.NewInt64Coin("uusd", 1), AskDenom: "uluna", MaxSpread: "abc"}, "max spread"},
		{"join without pool", network.PoolJoinRequest{Assets: sdk.NewCoins(sdk.NewInt64Coin("uluna", 1))}, "pool contract"},
		{"exit without lp token", network.PoolExitRequest{Pool: "terra1pool", Amount: sdkmath.NewInt(1)}, "lp token contract"},
		{"exit without amount", network.PoolExitRequest{Pool: "terra1pool", LPToken: "terra1lp"}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewMessageBuilder(false).Build(tt.req, testSender)
			require.Nil(t, set)

			var paramErr *network.ParamError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.field, paramErr.Field)
		})
	}
}

func TestMessageBuilder_Deterministic(t *testing.T) {
	req := network.SwapRequest{Pair: "terra1pair", Offer: sdk.NewInt64Coin("uusd", 10), AskDenom: "uluna", BeliefPrice: "1.5"}
	b := NewMessageBuilder(false)

	first, err := b.Build(req, testSender)
	require.NoError(t, err)
	second, err := b.Build(req, testSender)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input       string
		want        sdk.Coin
		expectError bool
	}{
		{input: "1000uluna", want: sdk.NewInt64Coin("uluna", 1000)},
		{input: " 5ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2 ", want: sdk.NewInt64Coin("ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2", 5)},
		{input: "", expectError: true},
		{input: "uluna", expectError: true},
		{input: "1.5uluna", expectError: true},
		{input: "10u", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmounts(t *testing.T) {
	coins, err := ParseAmounts("100uusd,50uluna")
	require.NoError(t, err)
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uluna", 50), sdk.NewInt64Coin("uusd", 100)), coins)

	_, err = ParseAmounts(" , ")
	require.Error(t, err)
}

func TestParseGasPrice(t *testing.T) {
	price, err := ParseGasPrice("28.325uluna")
	require.NoError(t, err)
	assert.Equal(t, "uluna", price.Denom)
	assert.Equal(t, sdkmath.LegacyMustNewDecFromStr("28.325"), price.Amount)

	_, err = ParseGasPrice("uluna")
	require.Error(t, err)
}
