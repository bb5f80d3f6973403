package txengine

import (
	"fmt"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// Phase is the lifecycle position of one operation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSimulating
	PhaseAwaitingConfirmation
	PhaseSigning
	PhaseBroadcasting
	PhaseSequenceRetry
	PhaseGasRetry
	PhaseSuccess
	PhaseFailed
	PhaseDeclined
)

var phaseNames = [...]string{
	PhaseIdle:                 "Idle",
	PhaseSimulating:           "Simulating",
	PhaseAwaitingConfirmation: "AwaitingConfirmation",
	PhaseSigning:              "Signing",
	PhaseBroadcasting:         "Broadcasting",
	PhaseSequenceRetry:        "SequenceRetry",
	PhaseGasRetry:             "GasRetry",
	PhaseSuccess:              "Success",
	PhaseFailed:               "Failed",
	PhaseDeclined:             "Declined",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Terminal reports whether no further transition follows p.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailed || p == PhaseDeclined
}

// SessionState is threaded through one operation. Decide takes and returns it by value.
type SessionState struct {
	Account network.AccountState
	// GasAdjustment never decreases within one operation.
	GasAdjustment float64

	SequenceRetries int
	GasRetries      int
	Attempts        int

	Phase Phase
}
