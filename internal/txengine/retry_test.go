package txengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

func baseState() SessionState {
	return SessionState{
		Account:       network.AccountState{Address: testSender, AccountNumber: 7, Sequence: 10},
		GasAdjustment: 2.0,
		Phase:         PhaseBroadcasting,
	}
}

func TestDecide_Success(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())

	next, d := c.Decide(baseState(), success("ABC"))

	assert.Equal(t, ActionSucceed, d.Action)
	assert.Nil(t, d.Err)
	assert.Equal(t, PhaseSuccess, next.Phase)
	assert.Equal(t, uint64(10), next.Account.Sequence, "success leaves the sequence to the session")
}

func TestDecide_SequenceMismatch(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())
	state := baseState()

	next, d := c.Decide(state, sequenceMismatch())

	assert.Equal(t, ActionResubmit, d.Action)
	assert.Equal(t, uint64(11), next.Account.Sequence)
	assert.Equal(t, 1, next.SequenceRetries)
	assert.Equal(t, PhaseSequenceRetry, next.Phase)
	assert.Equal(t, state.GasAdjustment, next.GasAdjustment)

	// input is untouched
	assert.Equal(t, uint64(10), state.Account.Sequence)
}

func TestDecide_SequenceMismatchEmptyCodespace(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())
	r := sequenceMismatch()
	r.Codespace = ""

	_, d := c.Decide(baseState(), r)
	assert.Equal(t, ActionResubmit, d.Action)
}

func TestDecide_SequenceRetryBound(t *testing.T) {
	policy := testPolicy()
	policy.MaxSequenceRetries = 2
	c := NewRetryCoordinator(policy)

	state := baseState()
	var d Decision
	for i := 0; i < 2; i++ {
		state, d = c.Decide(state, sequenceMismatch())
		require.Equal(t, ActionResubmit, d.Action)
	}

	state, d = c.Decide(state, sequenceMismatch())
	require.Equal(t, ActionFail, d.Action)
	assert.Equal(t, SequenceConflict, d.Err.Kind)
	assert.Equal(t, uint32(32), d.Err.Code)
	assert.Equal(t, uint64(12), state.Account.Sequence)
}

func TestDecide_UnboundedSequenceRetries(t *testing.T) {
	policy := testPolicy()
	policy.MaxSequenceRetries = 0
	c := NewRetryCoordinator(policy)

	state := baseState()
	for i := 0; i < 100; i++ {
		var d Decision
		state, d = c.Decide(state, sequenceMismatch())
		require.Equal(t, ActionResubmit, d.Action)
	}
	assert.Equal(t, uint64(110), state.Account.Sequence)
}

func TestDecide_OutOfGasRaisesAdjustment(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())

	next, d := c.Decide(baseState(), outOfGas(0))

	assert.Equal(t, ActionResimulate, d.Action)
	assert.InDelta(t, 2.5, next.GasAdjustment, 1e-9)
	assert.Equal(t, 1, next.GasRetries)
	assert.Equal(t, PhaseGasRetry, next.Phase)
	assert.Equal(t, uint64(10), next.Account.Sequence, "CheckTx rejection does not consume the sequence")
}

func TestDecide_CommittedOutOfGasConsumesSequence(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())

	next, d := c.Decide(baseState(), outOfGas(1200))

	assert.Equal(t, ActionResimulate, d.Action)
	assert.Equal(t, uint64(11), next.Account.Sequence)
}

func TestDecide_GasAdjustmentIsClampedAndNeverDecreases(t *testing.T) {
	policy := RetryPolicy{GasAdjustment: 3.6, GasAdjustmentIncrement: 0.3, MaxGasAdjustment: 4.0}
	c := NewRetryCoordinator(policy)

	state := baseState()
	state.GasAdjustment = policy.GasAdjustment
	prev := state.GasAdjustment

	var d Decision
	for i := 0; i < 10; i++ {
		state, d = c.Decide(state, outOfGas(0))
		require.GreaterOrEqual(t, state.GasAdjustment, prev)
		require.LessOrEqual(t, state.GasAdjustment, policy.MaxGasAdjustment)
		prev = state.GasAdjustment
		if d.Action == ActionFail {
			break
		}
	}

	require.Equal(t, ActionFail, d.Action)
	assert.Equal(t, GasUnderestimated, d.Err.Kind)
	assert.Equal(t, 4.0, state.GasAdjustment)
	assert.Equal(t, 2, state.GasRetries)
}

func TestDecide_OtherCodesAreTerminal(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())

	tests := []struct {
		name   string
		result *network.BroadcastResult
	}{
		{"insufficient funds", &network.BroadcastResult{Code: 5, Codespace: "sdk", RawLog: "insufficient funds"}},
		{"wasm error", &network.BroadcastResult{Code: 5, Codespace: "wasm", RawLog: "execute wasm contract failed"}},
		{"code 32 in another codespace", &network.BroadcastResult{Code: 32, Codespace: "wasm", RawLog: "other"}},
		{"code 11 in another codespace", &network.BroadcastResult{Code: 11, Codespace: "staking", RawLog: "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, d := c.Decide(baseState(), tt.result)
			require.Equal(t, ActionFail, d.Action)
			assert.Equal(t, ChainRejected, d.Err.Kind)
			assert.Equal(t, tt.result.RawLog, d.Err.RawLog)
			assert.Equal(t, tt.result.Code, d.Err.Code)
			assert.Equal(t, PhaseFailed, next.Phase)
		})
	}
}

func TestDecide_NilResult(t *testing.T) {
	c := NewRetryCoordinator(testPolicy())

	_, d := c.Decide(baseState(), nil)

	require.Equal(t, ActionFail, d.Action)
	assert.Equal(t, NetworkError, d.Err.Kind)
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3.6, p.GasAdjustment)
	assert.Equal(t, 0.1, p.GasAdjustmentIncrement)
	assert.Equal(t, 4.0, p.MaxGasAdjustment)
	assert.Equal(t, 25, p.MaxSequenceRetries)
}
