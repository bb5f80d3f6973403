// pkg/network/txbuilder.go
package network

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GasAuto asks the fee resolver to estimate the gas limit from a simulation.
const GasAuto uint64 = 0

// AccountState is the signing identity of one wallet during a session.
// Sequence is owned by the session and is not re-fetched while retrying.
type AccountState struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

// FeeQuote is the fee resolved for one message set.
type FeeQuote struct {
	Amount sdkmath.Int
	Denom  string

	// GasLimit is the limit written into the transaction.
	GasLimit uint64
	// AutoGas is true when GasLimit was derived from the simulation.
	AutoGas       bool
	GasAdjustment float64
	GasUsed       uint64

	// Sequence is the account sequence the simulation ran against.
	Sequence uint64
}

// Coin returns the fee as a single coin.
func (f FeeQuote) Coin() sdk.Coin {
	return sdk.NewCoin(f.Denom, f.Amount)
}

// String renders the quote for confirmation prompts and logs.
func (f FeeQuote) String() string {
	return fmt.Sprintf("%s%s (gas limit %d, adjustment %.2f)", f.Amount, f.Denom, f.GasLimit, f.GasAdjustment)
}

// MessageSet is the ordered list of chain messages built for one request.
// It keeps the request so it can be rebuilt without re-deriving user intent.
type MessageSet struct {
	Kind    OperationKind
	Request OperationRequest
	Sender  string
	Msgs    []sdk.Msg
}

// SignedTx is a fully signed transaction ready for broadcast.
type SignedTx struct {
	TxBytes  []byte
	Sequence uint64
}

// BroadcastResult is the chain's answer to one broadcast. It is never mutated.
type BroadcastResult struct {
	// Code is the result code (0 = success).
	Code      uint32
	Codespace string
	RawLog    string
	TxHash    string

	// Height is set once the transaction was committed in a block.
	Height    int64
	GasWanted int64
	GasUsed   int64
	Events    []abci.Event
}

// IsSuccess reports whether the chain accepted the transaction.
func (r *BroadcastResult) IsSuccess() bool {
	return r != nil && r.Code == 0
}

// Committed reports whether the transaction reached a block.
func (r *BroadcastResult) Committed() bool {
	return r != nil && r.Height > 0
}

// Proposal is a governance proposal as shown to the voter.
type Proposal struct {
	ID          uint64
	Title       string
	Description string
	VotingStart time.Time
	VotingEnd   time.Time
}

// Reward is the pending reward a delegator holds with one validator.
type Reward struct {
	Validator string
	Amount    sdk.DecCoins
}

// PoolAsset is one side of a liquidity pool.
type PoolAsset struct {
	Denom  string
	Amount sdkmath.Int
}

// PoolState is the asset balance of a liquidity pool.
type PoolState struct {
	Pool       string
	Assets     []PoolAsset
	TotalShare sdkmath.Int
}

// SimulationError is returned when the chain rejects a dry run.
type SimulationError struct {
	Message string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation rejected: %s", e.Message)
}

// ChainClient is the read and dry-run surface of the chain.
type ChainClient interface {
	// AccountInfo returns the account number and current sequence for address.
	AccountInfo(ctx context.Context, address string) (AccountState, error)

	// GasPrices returns the per-denom gas price table.
	GasPrices(ctx context.Context) (sdk.DecCoins, error)

	// Simulate dry-runs the transaction bytes and returns the gas used.
	// Chain-side rejections are returned as *SimulationError.
	Simulate(ctx context.Context, txBytes []byte) (uint64, error)

	Balances(ctx context.Context, address string) (sdk.Coins, error)
	Rewards(ctx context.Context, delegator string) ([]Reward, error)

	// Proposals returns one page of proposals in the given status.
	// An empty next key means there are no further pages.
	Proposals(ctx context.Context, status ProposalStatus, pageKey []byte) ([]Proposal, []byte, error)

	PoolState(ctx context.Context, pool string) (*PoolState, error)
}

// ProposalStatus filters proposal queries.
type ProposalStatus int32

// Proposal statuses, numbered as in the gov module.
const (
	ProposalStatusUnspecified   ProposalStatus = 0
	ProposalStatusDepositPeriod ProposalStatus = 1
	ProposalStatusVotingPeriod  ProposalStatus = 2
	ProposalStatusPassed        ProposalStatus = 3
	ProposalStatusRejected      ProposalStatus = 4
)

// MessageBuilder turns an operation request into chain messages.
// Implementations must not perform I/O.
type MessageBuilder interface {
	Build(req OperationRequest, sender string) (*MessageSet, error)
}

// Signer signs transactions for one key.
type Signer interface {
	// Address is the bech32 address of the signing key.
	Address() string

	// SimulationBytes encodes msgs with a zero fee and an empty signature for a dry run.
	SimulationBytes(msgs *MessageSet, account AccountState) ([]byte, error)

	// Sign builds and signs the transaction. It does not modify account.
	Sign(ctx context.Context, msgs *MessageSet, account AccountState, fee FeeQuote) (*SignedTx, error)
}

// Broadcaster submits signed transactions.
type Broadcaster interface {
	Submit(ctx context.Context, tx *SignedTx) (*BroadcastResult, error)
}

// Preview is what the user confirms before a transaction is signed.
type Preview struct {
	SessionID string
	Kind      OperationKind
	Sender    string
	Request   OperationRequest
	Messages  int
	Fee       FeeQuote
}

// Approver gates signing on user confirmation.
type Approver interface {
	Approve(ctx context.Context, preview *Preview) (bool, error)
}
