package planner

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

type fakeClient struct {
	balances   sdk.Coins
	rewards    []network.Reward
	balanceErr error
	rewardErr  error
}

func (f *fakeClient) AccountInfo(context.Context, string) (network.AccountState, error) {
	return network.AccountState{}, nil
}

func (f *fakeClient) GasPrices(context.Context) (sdk.DecCoins, error) { return nil, nil }

func (f *fakeClient) Simulate(context.Context, []byte) (uint64, error) { return 0, nil }

func (f *fakeClient) Balances(context.Context, string) (sdk.Coins, error) {
	return f.balances, f.balanceErr
}

func (f *fakeClient) Rewards(context.Context, string) ([]network.Reward, error) {
	return f.rewards, f.rewardErr
}

func (f *fakeClient) Proposals(context.Context, network.ProposalStatus, []byte) ([]network.Proposal, []byte, error) {
	return nil, nil, nil
}

func (f *fakeClient) PoolState(context.Context, string) (*network.PoolState, error) { return nil, nil }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

func reward(validator, amount string) network.Reward {
	dec := sdkmath.LegacyMustNewDecFromStr(amount)
	return network.Reward{Validator: validator, Amount: sdk.NewDecCoins(sdk.NewDecCoinFromDec("uluna", dec))}
}

func testConfig() Config {
	return Config{
		StakeDenom: "uluna",
		SwapDenom:  "uusd",
		SwapPair:   "terra1pair",
		MaxSpread:  "0.01",
		Remainder:  sdkmath.NewInt(100),
	}
}

var account = network.AccountState{Address: "terra1wallet", AccountNumber: 1, Sequence: 5}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, testConfig(), nil)
	require.Error(t, err)

	_, err = New(&fakeClient{}, Config{}, nil)
	require.Error(t, err)

	p, err := New(&fakeClient{}, Config{StakeDenom: "uluna"}, nopLogger{})
	require.NoError(t, err)
	assert.Equal(t, "0", p.cfg.Remainder.String())
}

func TestSteps_Order(t *testing.T) {
	p, err := New(&fakeClient{}, testConfig(), nopLogger{})
	require.NoError(t, err)

	assert.Len(t, p.Steps(ActionWithdraw, Policy{}), 1)
	assert.Len(t, p.Steps(ActionSwapDelegate, Policy{}), 2)
	assert.Len(t, p.Steps(ActionAll, Policy{}), 3)
}

func TestWithdrawStep(t *testing.T) {
	client := &fakeClient{rewards: []network.Reward{
		reward("terravaloper1a", "500.9"),
		reward("terravaloper1b", "1000.2"),
		reward("terravaloper1c", "1001.5"),
	}}
	p, err := New(client, testConfig(), nopLogger{})
	require.NoError(t, err)

	step := p.Steps(ActionWithdraw, Policy{Threshold: sdkmath.NewInt(1000)})[0]
	req, err := step(context.Background(), account)
	require.NoError(t, err)
	// 1000.2 truncates to 1000, which is not above the threshold
	assert.Equal(t, network.WithdrawRequest{Validators: []string{"terravaloper1c"}}, req)

	step = p.Steps(ActionWithdraw, Policy{Threshold: sdkmath.NewInt(5000)})[0]
	req, err = step(context.Background(), account)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestWithdrawStep_QueryError(t *testing.T) {
	p, err := New(&fakeClient{rewardErr: errors.New("unavailable")}, testConfig(), nopLogger{})
	require.NoError(t, err)

	_, err = p.Steps(ActionWithdraw, Policy{})[0](context.Background(), account)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query rewards")
}

func TestSwapStep(t *testing.T) {
	client := &fakeClient{balances: sdk.NewCoins(sdk.NewInt64Coin("uluna", 10), sdk.NewInt64Coin("uusd", 2500))}

	t.Run("not allowed", func(t *testing.T) {
		p, _ := New(client, testConfig(), nopLogger{})
		req, err := p.Steps(ActionSwap, Policy{AllowSwaps: false})[0](context.Background(), account)
		require.NoError(t, err)
		assert.Nil(t, req)
	})

	t.Run("swaps whole balance", func(t *testing.T) {
		p, _ := New(client, testConfig(), nopLogger{})
		req, err := p.Steps(ActionSwap, Policy{AllowSwaps: true})[0](context.Background(), account)
		require.NoError(t, err)
		require.IsType(t, network.SwapRequest{}, req)
		swap := req.(network.SwapRequest)
		assert.Equal(t, "terra1pair", swap.Pair)
		assert.Equal(t, "2500uusd", swap.Offer.String())
		assert.Equal(t, "uluna", swap.AskDenom)
		assert.Equal(t, "0.01", swap.MaxSpread)
	})

	t.Run("nothing to swap", func(t *testing.T) {
		p, _ := New(&fakeClient{balances: sdk.NewCoins(sdk.NewInt64Coin("uluna", 10))}, testConfig(), nopLogger{})
		req, err := p.Steps(ActionSwap, Policy{AllowSwaps: true})[0](context.Background(), account)
		require.NoError(t, err)
		assert.Nil(t, req)
	})

	t.Run("missing pair", func(t *testing.T) {
		cfg := testConfig()
		cfg.SwapPair = ""
		p, _ := New(client, cfg, nopLogger{})
		_, err := p.Steps(ActionSwap, Policy{AllowSwaps: true})[0](context.Background(), account)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uusd:uluna")
	})
}

func TestDelegateStep(t *testing.T) {
	all := MustParseAmountSpec("100%")
	half := MustParseAmountSpec("50%")
	big := MustParseAmountSpec("5000")

	tests := []struct {
		name      string
		balance   int64
		policy    Policy
		wantValid string
		wantAmt   int64
	}{
		{"all minus remainder", 1000, Policy{Delegate: &all}, "terravaloper1a", 900},
		{"half minus remainder", 1001, Policy{Delegate: &half}, "terravaloper1a", 400},
		{"explicit validator", 1000, Policy{Delegate: &all, Validator: "terravaloper1z"}, "terravaloper1z", 900},
		{"not configured", 1000, Policy{}, "", 0},
		{"below remainder", 50, Policy{Delegate: &all}, "", 0},
		{"absolute above balance", 1000, Policy{Delegate: &big}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				balances: sdk.NewCoins(sdk.NewInt64Coin("uluna", tt.balance)),
				rewards:  []network.Reward{reward("terravaloper1a", "1")},
			}
			p, err := New(client, testConfig(), nopLogger{})
			require.NoError(t, err)

			req, err := p.Steps(ActionDelegate, tt.policy)[0](context.Background(), account)
			require.NoError(t, err)
			if tt.wantAmt == 0 {
				assert.Nil(t, req)
				return
			}
			require.IsType(t, network.DelegateRequest{}, req)
			d := req.(network.DelegateRequest)
			assert.Equal(t, tt.wantValid, d.Validator)
			assert.Equal(t, sdk.NewInt64Coin("uluna", tt.wantAmt).String(), d.Amount.String())
		})
	}
}

func TestDelegateStep_NoDelegation(t *testing.T) {
	all := MustParseAmountSpec("100%")
	p, err := New(&fakeClient{balances: sdk.NewCoins(sdk.NewInt64Coin("uluna", 1000))}, testConfig(), nopLogger{})
	require.NoError(t, err)

	_, err = p.Steps(ActionDelegate, Policy{Delegate: &all})[0](context.Background(), account)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no existing delegation")
}
