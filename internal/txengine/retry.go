package txengine

import (
	"math"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// Default retry policy values.
const (
	DefaultGasAdjustment          = 3.6
	DefaultGasAdjustmentIncrement = 0.1
	DefaultMaxGasAdjustment       = 4.0
	DefaultMaxSequenceRetries     = 25
)

// RetryPolicy bounds the two recovery loops.
type RetryPolicy struct {
	// GasAdjustment is the starting multiplier of every operation.
	GasAdjustment          float64
	GasAdjustmentIncrement float64
	MaxGasAdjustment       float64
	// MaxSequenceRetries of 0 retries sequence mismatches without limit.
	MaxSequenceRetries int
}

// DefaultRetryPolicy returns the built-in policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		GasAdjustment:          DefaultGasAdjustment,
		GasAdjustmentIncrement: DefaultGasAdjustmentIncrement,
		MaxGasAdjustment:       DefaultMaxGasAdjustment,
		MaxSequenceRetries:     DefaultMaxSequenceRetries,
	}
}

// Action is what the session does after a broadcast.
type Action int

const (
	ActionSucceed Action = iota
	// ActionResubmit re-signs the same messages and fee at the new sequence.
	ActionResubmit
	// ActionResimulate recomputes the fee at the new gas adjustment.
	ActionResimulate
	ActionFail
)

func (a Action) String() string {
	switch a {
	case ActionSucceed:
		return "succeed"
	case ActionResubmit:
		return "resubmit"
	case ActionResimulate:
		return "resimulate"
	case ActionFail:
		return "fail"
	}
	return "unknown"
}

// Decision is the single outcome chosen for one broadcast result.
type Decision struct {
	Action Action
	// Err is set when Action is ActionFail.
	Err *Error
}

// RetryCoordinator maps broadcast results to the next session step.
type RetryCoordinator struct {
	policy RetryPolicy
}

// NewRetryCoordinator creates a RetryCoordinator for policy.
func NewRetryCoordinator(policy RetryPolicy) *RetryCoordinator {
	return &RetryCoordinator{policy: policy}
}

// Policy returns the coordinator's policy.
func (c *RetryCoordinator) Policy() RetryPolicy {
	return c.policy
}

// Decide is pure: the returned state is a modified copy of state.
func (c *RetryCoordinator) Decide(state SessionState, result *network.BroadcastResult) (SessionState, Decision) {
	if result == nil {
		state.Phase = PhaseFailed
		return state, Decision{Action: ActionFail, Err: &Error{Kind: NetworkError, Op: "broadcast", RawLog: "no broadcast result"}}
	}

	if result.Code == 0 {
		state.Phase = PhaseSuccess
		return state, Decision{Action: ActionSucceed}
	}

	if IsSequenceMismatch(result) {
		if c.policy.MaxSequenceRetries > 0 && state.SequenceRetries >= c.policy.MaxSequenceRetries {
			state.Phase = PhaseFailed
			return state, Decision{Action: ActionFail, Err: resultError(SequenceConflict, result)}
		}
		state.Account.Sequence++
		state.SequenceRetries++
		state.Phase = PhaseSequenceRetry
		return state, Decision{Action: ActionResubmit}
	}

	// A committed failure still consumed its sequence.
	if result.Committed() {
		state.Account.Sequence++
	}

	if IsOutOfGas(result) {
		if state.GasAdjustment >= c.policy.MaxGasAdjustment {
			state.Phase = PhaseFailed
			return state, Decision{Action: ActionFail, Err: resultError(GasUnderestimated, result)}
		}
		state.GasAdjustment = math.Min(state.GasAdjustment+c.policy.GasAdjustmentIncrement, c.policy.MaxGasAdjustment)
		state.GasRetries++
		state.Phase = PhaseGasRetry
		return state, Decision{Action: ActionResimulate}
	}

	state.Phase = PhaseFailed
	return state, Decision{Action: ActionFail, Err: resultError(ChainRejected, result)}
}

// IsSequenceMismatch reports an "account sequence mismatch" result.
func IsSequenceMismatch(r *network.BroadcastResult) bool {
	return isRootCode(r, sdkerrors.ErrWrongSequence.ABCICode())
}

// IsOutOfGas reports an "out of gas" result.
func IsOutOfGas(r *network.BroadcastResult) bool {
	return isRootCode(r, sdkerrors.ErrOutOfGas.ABCICode())
}

func isRootCode(r *network.BroadcastResult, code uint32) bool {
	if r == nil || r.Code != code {
		return false
	}
	return r.Codespace == "" || r.Codespace == sdkerrors.RootCodespace
}

func resultError(kind ErrorKind, r *network.BroadcastResult) *Error {
	return &Error{Kind: kind, Op: "broadcast", Code: r.Code, RawLog: r.RawLog}
}
