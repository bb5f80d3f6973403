// pkg/network/operation.go
package network

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OperationKind identifies the user intent an OperationRequest carries.
type OperationKind string

// Operation kinds handled by the transaction engine.
const (
	KindVote     OperationKind = "gov/vote"
	KindDelegate OperationKind = "staking/delegate"
	KindWithdraw OperationKind = "distribution/withdraw"
	KindSwap     OperationKind = "wasm/swap"
	KindPoolJoin OperationKind = "wasm/pool-join"
	KindPoolExit OperationKind = "wasm/pool-exit"
)

// OperationRequest is the closed set of operations the engine can execute.
// Only the request types in this package implement it.
type OperationRequest interface {
	// Kind returns the discriminant of the request.
	Kind() OperationKind

	// Validate reports a *ParamError when a required field is absent.
	Validate() error

	operation()
}

// ParamError is returned when an operation request is malformed or incomplete.
type ParamError struct {
	Kind    OperationKind
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s parameters: %s %s", e.Kind, e.Field, e.Message)
}

func missing(kind OperationKind, field string) *ParamError {
	return &ParamError{Kind: kind, Field: field, Message: "is required"}
}

// VoteRequest casts a governance vote.
type VoteRequest struct {
	ProposalID uint64
	// Option is one of "yes", "no", "abstain", "no_with_veto".
	Option string
}

func (VoteRequest) Kind() OperationKind { return KindVote }
func (VoteRequest) operation()          {}

func (r VoteRequest) Validate() error {
	if r.ProposalID == 0 {
		return missing(KindVote, "proposal id")
	}
	if strings.TrimSpace(r.Option) == "" {
		return missing(KindVote, "vote option")
	}
	return nil
}

// DelegateRequest delegates Amount to Validator.
type DelegateRequest struct {
	Validator string
	Amount    sdk.Coin
}

func (DelegateRequest) Kind() OperationKind { return KindDelegate }
func (DelegateRequest) operation()          {}

func (r DelegateRequest) Validate() error {
	if r.Validator == "" {
		return missing(KindDelegate, "validator address")
	}
	return validatePositiveCoin(KindDelegate, "amount", r.Amount)
}

// WithdrawRequest withdraws staking rewards from every listed validator.
type WithdrawRequest struct {
	Validators []string
}

func (WithdrawRequest) Kind() OperationKind { return KindWithdraw }
func (WithdrawRequest) operation()          {}

func (r WithdrawRequest) Validate() error {
	if len(r.Validators) == 0 {
		return missing(KindWithdraw, "validator address")
	}
	for _, v := range r.Validators {
		if v == "" {
			return &ParamError{Kind: KindWithdraw, Field: "validator address", Message: "must not be empty"}
		}
	}
	return nil
}

// SwapRequest swaps Offer for AskDenom through a pair contract.
type SwapRequest struct {
	Pair     string
	Offer    sdk.Coin
	AskDenom string
	// MaxSpread and BeliefPrice are optional decimal strings.
	MaxSpread   string
	BeliefPrice string
}

func (SwapRequest) Kind() OperationKind { return KindSwap }
func (SwapRequest) operation()          {}

func (r SwapRequest) Validate() error {
	if r.AskDenom == "" {
		return missing(KindSwap, "target denomination")
	}
	if r.Pair == "" {
		return missing(KindSwap, "pair contract")
	}
	if err := validatePositiveCoin(KindSwap, "offer", r.Offer); err != nil {
		return err
	}
	if r.Offer.Denom == r.AskDenom {
		return &ParamError{Kind: KindSwap, Field: "target denomination", Message: "must differ from the offered denomination"}
	}
	return nil
}

// PoolJoinRequest provides liquidity to a pool contract.
type PoolJoinRequest struct {
	Pool   string
	Assets sdk.Coins
	// SlippageTolerance is an optional decimal string.
	SlippageTolerance string
}

func (PoolJoinRequest) Kind() OperationKind { return KindPoolJoin }
func (PoolJoinRequest) operation()          {}

func (r PoolJoinRequest) Validate() error {
	if r.Pool == "" {
		return missing(KindPoolJoin, "pool contract")
	}
	if len(r.Assets) == 0 {
		return missing(KindPoolJoin, "assets")
	}
	if !r.Assets.IsValid() {
		return &ParamError{Kind: KindPoolJoin, Field: "assets", Message: "must be sorted positive coins"}
	}
	return nil
}

// PoolExitRequest burns Amount LP tokens to withdraw liquidity from Pool.
type PoolExitRequest struct {
	Pool    string
	LPToken string
	Amount  sdkmath.Int
}

func (PoolExitRequest) Kind() OperationKind { return KindPoolExit }
func (PoolExitRequest) operation()          {}

func (r PoolExitRequest) Validate() error {
	if r.Pool == "" {
		return missing(KindPoolExit, "pool contract")
	}
	if r.LPToken == "" {
		return missing(KindPoolExit, "lp token contract")
	}
	if r.Amount.IsNil() || !r.Amount.IsPositive() {
		return &ParamError{Kind: KindPoolExit, Field: "amount", Message: "must be positive"}
	}
	return nil
}

func validatePositiveCoin(kind OperationKind, field string, c sdk.Coin) error {
	if c.Denom == "" || c.Amount.IsNil() {
		return missing(kind, field)
	}
	if err := c.Validate(); err != nil {
		return &ParamError{Kind: kind, Field: field, Message: err.Error()}
	}
	if !c.IsPositive() {
		return &ParamError{Kind: kind, Field: field, Message: "must be positive"}
	}
	return nil
}
