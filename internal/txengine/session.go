// Package txengine runs the simulate, confirm, sign, broadcast and retry
// lifecycle shared by every wallet operation.
package txengine

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/pkg/network"
	"github.com/altuslabsxyz/walletops/pkg/network/cosmos"
)

// DefaultCallTimeout bounds every chain call.
const DefaultCallTimeout = 30 * time.Second

// Logger is the subset of output.LoggerInterface the engine writes to.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Config holds the engine settings.
type Config struct {
	FeeDenom    string
	Policy      RetryPolicy
	CallTimeout time.Duration
}

// Dependencies are the collaborators shared by every session of a Runner.
type Dependencies struct {
	Client      network.ChainClient
	Builder     network.MessageBuilder
	Broadcaster network.Broadcaster
	Approver    network.Approver
	Logger      Logger
}

// Runner opens sessions against one chain.
type Runner struct {
	deps        Dependencies
	cfg         Config
	coordinator *RetryCoordinator
	logger      Logger
}

// NewRunner validates cfg and creates a Runner.
func NewRunner(deps Dependencies, cfg Config) (*Runner, error) {
	if deps.Client == nil || deps.Builder == nil || deps.Broadcaster == nil || deps.Approver == nil {
		return nil, fmt.Errorf("chain client, message builder, broadcaster and approver are required")
	}
	if cfg.FeeDenom == "" {
		return nil, fmt.Errorf("fee denom is required")
	}
	p := cfg.Policy
	if p.GasAdjustment <= 0 {
		return nil, fmt.Errorf("gas adjustment must be positive, got %v", p.GasAdjustment)
	}
	if p.GasAdjustmentIncrement <= 0 {
		return nil, fmt.Errorf("gas adjustment increment must be positive, got %v", p.GasAdjustmentIncrement)
	}
	if p.MaxGasAdjustment < p.GasAdjustment {
		return nil, fmt.Errorf("max gas adjustment %v is below the starting adjustment %v", p.MaxGasAdjustment, p.GasAdjustment)
	}
	if p.MaxSequenceRetries < 0 {
		return nil, fmt.Errorf("max sequence retries cannot be negative")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	logger := deps.Logger
	if logger == nil {
		logger = output.DefaultLogger
	}

	return &Runner{
		deps:        deps,
		cfg:         cfg,
		coordinator: NewRetryCoordinator(p),
		logger:      logger,
	}, nil
}

// Session owns the AccountState of one wallet for a run of operations.
type Session struct {
	id      string
	runner  *Runner
	signer  network.Signer
	fees    *FeeResolver
	account network.AccountState
}

// Open fetches the account number and sequence once and returns a Session.
func (r *Runner) Open(ctx context.Context, signer network.Signer) (*Session, error) {
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	callCtx, cancel := r.callContext(ctx)
	account, err := r.deps.Client.AccountInfo(callCtx, signer.Address())
	cancel()
	if err != nil {
		return nil, classify("account", err)
	}

	s := &Session{
		id:      uuid.NewString(),
		runner:  r,
		signer:  signer,
		fees:    NewFeeResolver(r.deps.Client, signer, r.cfg.FeeDenom),
		account: account,
	}
	r.logger.Debug("[%s] session opened for %s (account %d, sequence %d)",
		s.short(), account.Address, account.AccountNumber, account.Sequence)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Account returns the session's current account state.
func (s *Session) Account() network.AccountState { return s.account }

// Execute runs req to a terminal state. Chain-side failures are reported in the
// Outcome; the error is non-nil only when confirmation failed or ctx ended.
func (s *Session) Execute(ctx context.Context, req network.OperationRequest) (*Outcome, error) {
	r := s.runner
	policy := r.coordinator.Policy()
	state := SessionState{
		Account:       s.account,
		GasAdjustment: policy.GasAdjustment,
		Phase:         PhaseIdle,
	}
	out := &Outcome{SessionID: s.id, Sender: s.signer.Address()}
	if req != nil {
		out.Kind = req.Kind()
	}

	msgs, err := r.deps.Builder.Build(req, s.signer.Address())
	if err != nil {
		return out.fail(state, classify("build", err)), nil
	}

	state.Phase = PhaseSimulating
	fee, err := s.resolveFee(ctx, msgs, state)
	if err != nil {
		return out.fail(state, classify("simulate", err)), nil
	}

	state.Phase = PhaseAwaitingConfirmation
	approved, err := r.deps.Approver.Approve(ctx, &network.Preview{
		SessionID: s.id,
		Kind:      msgs.Kind,
		Sender:    msgs.Sender,
		Request:   req,
		Messages:  len(msgs.Msgs),
		Fee:       *fee,
	})
	if err != nil {
		return out, fmt.Errorf("confirmation failed: %w", err)
	}
	if !approved {
		state.Phase = PhaseDeclined
		out.Declined = true
		out.State = state
		out.GasAdjustment = state.GasAdjustment
		return out, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			s.account = state.Account
			return out.fail(state, classify("broadcast", err)), err
		}

		state.Phase = PhaseSigning
		signed, err := s.signer.Sign(ctx, msgs, state.Account, *fee)
		if err != nil {
			return out.fail(state, &Error{Kind: SigningFailed, Op: "sign", Err: err}), nil
		}

		state.Phase = PhaseBroadcasting
		state.Attempts++
		callCtx, cancel := r.callContext(ctx)
		result, err := r.deps.Broadcaster.Submit(callCtx, signed)
		cancel()
		if err != nil {
			s.account = state.Account
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out.fail(state, classify("broadcast", err)), ctxErr
			}
			return out.fail(state, classify("broadcast", err)), nil
		}

		next, decision := r.coordinator.Decide(state, result)
		r.logger.Debug("[%s] attempt %d: code %d (%s), decision %s",
			s.short(), state.Attempts, result.Code, result.Codespace, decision.Action)
		state = next

		switch decision.Action {
		case ActionSucceed:
			s.account = state.Account
			s.account.Sequence++
			return s.succeed(out, state, signed, result, fee), nil

		case ActionResubmit:
			r.logger.Warn("Boosting sequence number to %d and trying again", state.Account.Sequence)

		case ActionResimulate:
			r.logger.Warn("Increasing the gas adjustment to %.2f and trying again", state.GasAdjustment)
			state.Phase = PhaseSimulating
			fee, err = s.resolveFee(ctx, msgs, state)
			if err != nil {
				s.account = state.Account
				return out.fail(state, classify("simulate", err)), nil
			}

		case ActionFail:
			s.account = state.Account
			out.TxHash = result.TxHash
			out.Height = result.Height
			out.Fee = fee.Coin()
			return out.fail(state, decision.Err), nil
		}
	}
}

func (s *Session) resolveFee(ctx context.Context, msgs *network.MessageSet, state SessionState) (*network.FeeQuote, error) {
	callCtx, cancel := s.runner.callContext(ctx)
	defer cancel()

	fee, err := s.fees.Resolve(callCtx, msgs, state.Account, network.GasAuto, state.GasAdjustment)
	if err != nil {
		return nil, err
	}
	s.runner.logger.Info("Fee: %s", fee)
	return fee, nil
}

func (s *Session) succeed(out *Outcome, state SessionState, signed *network.SignedTx, result *network.BroadcastResult, fee *network.FeeQuote) *Outcome {
	feeCoin := fee.Coin()
	settlement := cosmos.SettlementFromEvents(result.Events, s.signer.Address(), sdk.NewCoins(feeCoin))

	out.Success = true
	out.TxHash = result.TxHash
	if out.TxHash == "" {
		out.TxHash = cosmos.TxHash(signed.TxBytes)
	}
	out.Height = result.Height
	out.Fee = feeCoin
	out.Sent = settlement.Sent
	out.Received = settlement.Received
	out.GasAdjustment = state.GasAdjustment
	out.Attempts = state.Attempts
	out.State = state
	return out
}

func (s *Session) short() string {
	if len(s.id) > 8 {
		return s.id[:8]
	}
	return s.id
}

func (r *Runner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.CallTimeout)
}
