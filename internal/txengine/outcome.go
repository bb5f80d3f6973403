package txengine

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// Outcome is the final report of one operation.
type Outcome struct {
	SessionID string
	Kind      network.OperationKind
	Sender    string

	Success  bool
	Declined bool
	TxHash   string
	Height   int64

	ErrorKind    ErrorKind
	ErrorMessage string
	RawLog       string
	Code         uint32

	Sent     sdk.Coins
	Received sdk.Coins
	Fee      sdk.Coin

	GasAdjustment float64
	Attempts      int
	State         SessionState

	err *Error
}

// Err returns the terminal failure, or nil for successful and declined outcomes.
func (o *Outcome) Err() error {
	if o == nil || o.err == nil {
		return nil
	}
	return o.err
}

func (o *Outcome) fail(state SessionState, err *Error) *Outcome {
	state.Phase = PhaseFailed
	o.State = state
	o.GasAdjustment = state.GasAdjustment
	o.Attempts = state.Attempts
	o.ErrorKind = err.Kind
	o.ErrorMessage = err.UserMessage()
	o.RawLog = err.RawLog
	o.Code = err.Code
	o.err = err
	return o
}
