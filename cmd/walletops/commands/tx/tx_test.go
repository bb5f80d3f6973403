package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

func testConfig(t *testing.T) *config.EffectiveConfig {
	cfg := config.NewEffectiveConfig(t.TempDir())
	cfg.Finalize()
	return cfg
}

func TestPolicyFor(t *testing.T) {
	cfg := testConfig(t)
	no := false

	tests := []struct {
		name       string
		entry      *wallet.Entry
		threshold  string
		delegate   string
		validator  string
		allowSwaps bool
		wantErr    bool
	}{
		{
			name:       "no delegations",
			entry:      &wallet.Entry{Name: "a"},
			threshold:  "0",
			allowSwaps: true,
		},
		{
			name:       "wallet settings win",
			entry:      &wallet.Entry{Name: "b", Delegations: &wallet.Delegations{Threshold: "5000", Redelegate: "80%", Validator: "terravaloper1x"}, AllowSwaps: &no},
			threshold:  "5000",
			delegate:   "80.000000000000000000%",
			validator:  "terravaloper1x",
			allowSwaps: false,
		},
		{
			name:       "redelegate falls back to planner default",
			entry:      &wallet.Entry{Name: "c", Delegations: &wallet.Delegations{}},
			threshold:  "0",
			delegate:   "100.000000000000000000%",
			allowSwaps: true,
		},
		{
			name:    "bad threshold",
			entry:   &wallet.Entry{Name: "d", Delegations: &wallet.Delegations{Threshold: "lots"}},
			wantErr: true,
		},
		{
			name:    "bad redelegate",
			entry:   &wallet.Entry{Name: "e", Delegations: &wallet.Delegations{Redelegate: "150%"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := policyFor(cfg, tt.entry)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.threshold, policy.Threshold.String())
			assert.Equal(t, tt.allowSwaps, policy.AllowSwaps)
			assert.Equal(t, tt.validator, policy.Validator)
			if tt.delegate == "" {
				assert.Nil(t, policy.Delegate)
			} else {
				require.NotNil(t, policy.Delegate)
				assert.Equal(t, tt.delegate, policy.Delegate.String())
			}
		})
	}
}

func TestResolvePool(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pools["luna-ustc"] = config.PoolConfig{Contract: "terra1pool", LPToken: "terra1lp"}

	p, err := resolvePool(cfg, "luna-ustc", "")
	require.NoError(t, err)
	assert.Equal(t, "terra1pool", p.Contract)
	assert.Equal(t, "terra1lp", p.LPToken)

	p, err = resolvePool(cfg, "terra1pool", "terra1other")
	require.NoError(t, err)
	assert.Equal(t, "terra1other", p.LPToken)

	p, err = resolvePool(cfg, "terra1unknown", "")
	require.NoError(t, err)
	assert.Equal(t, "terra1unknown", p.Contract)
	assert.Empty(t, p.LPToken)

	_, err = resolvePool(cfg, "missing", "")
	require.ErrorContains(t, err, "not configured")

	_, err = resolvePool(cfg, "", "")
	require.Error(t, err)
}

func TestValidVoteOption(t *testing.T) {
	for _, o := range []string{"yes", "no", "abstain", "no_with_veto"} {
		assert.True(t, validVoteOption(o), o)
	}
	assert.False(t, validVoteOption("maybe"))
}

func TestChooseAction(t *testing.T) {
	a, err := chooseAction("wd")
	require.NoError(t, err)
	assert.Equal(t, "WD", string(a))

	_, err = chooseAction("X")
	require.Error(t, err)
}
