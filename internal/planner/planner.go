package planner

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/txengine"
	"github.com/altuslabsxyz/walletops/pkg/network"
)

// Logger receives the reasons a step was skipped.
type Logger interface {
	Info(format string, args ...interface{})
}

// Config is the chain-wide part of a plan.
type Config struct {
	// StakeDenom is withdrawn, received from swaps and delegated.
	StakeDenom string
	// SwapDenom is swapped away for StakeDenom.
	SwapDenom string
	// SwapPair is the pair contract for SwapDenom to StakeDenom. Empty disables swaps.
	SwapPair  string
	MaxSpread string
	// Remainder is left in the wallet after delegating.
	Remainder sdkmath.Int
}

// Policy is the per-wallet part of a plan.
type Policy struct {
	// Threshold is the reward, in base units, a validator must exceed to be withdrawn.
	Threshold sdkmath.Int
	// Delegate is nil when the wallet is not configured for delegations.
	Delegate   *AmountSpec
	AllowSwaps bool
	// Validator overrides the delegation target. Empty delegates to the
	// first validator the wallet already has rewards with.
	Validator string
}

// Planner turns an Action into engine steps that read the chain lazily,
// so every step sees the balances left by the steps before it.
type Planner struct {
	client network.ChainClient
	cfg    Config
	logger Logger
}

// New creates a Planner. logger may be nil.
func New(client network.ChainClient, cfg Config, logger Logger) (*Planner, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	if cfg.StakeDenom == "" {
		return nil, fmt.Errorf("stake denom is required")
	}
	if cfg.Remainder.IsNil() {
		cfg.Remainder = sdkmath.ZeroInt()
	}
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Planner{client: client, cfg: cfg, logger: logger}, nil
}

// Steps returns the steps for action in withdraw, swap, delegate order.
func (p *Planner) Steps(action Action, policy Policy) []txengine.Step {
	var steps []txengine.Step
	if action.Withdraws() {
		steps = append(steps, p.withdrawStep(policy))
	}
	if action.Swaps() {
		steps = append(steps, p.swapStep(policy))
	}
	if action.Delegates() {
		steps = append(steps, p.delegateStep(policy))
	}
	return steps
}

func (p *Planner) withdrawStep(policy Policy) txengine.Step {
	return func(ctx context.Context, account network.AccountState) (network.OperationRequest, error) {
		rewards, err := p.client.Rewards(ctx, account.Address)
		if err != nil {
			return nil, fmt.Errorf("query rewards: %w", err)
		}

		var validators []string
		for _, r := range rewards {
			amount := r.Amount.AmountOf(p.cfg.StakeDenom).TruncateInt()
			if ExceedsThreshold(amount, policy.Threshold) {
				p.logger.Info("Withdrawing %s%s rewards from %s", amount, p.cfg.StakeDenom, r.Validator)
				validators = append(validators, r.Validator)
			}
		}
		if len(validators) == 0 {
			p.logger.Info("No rewards exceed the withdrawal threshold")
			return nil, nil
		}
		return network.WithdrawRequest{Validators: validators}, nil
	}
}

func (p *Planner) swapStep(policy Policy) txengine.Step {
	return func(ctx context.Context, account network.AccountState) (network.OperationRequest, error) {
		if !policy.AllowSwaps {
			p.logger.Info("Swaps not allowed on this wallet")
			return nil, nil
		}
		if p.cfg.SwapDenom == "" {
			return nil, nil
		}

		balances, err := p.client.Balances(ctx, account.Address)
		if err != nil {
			return nil, fmt.Errorf("query balances: %w", err)
		}
		amount := balances.AmountOf(p.cfg.SwapDenom)
		if !amount.IsPositive() {
			p.logger.Info("No %s in the wallet to swap", p.cfg.SwapDenom)
			return nil, nil
		}
		if p.cfg.SwapPair == "" {
			return nil, fmt.Errorf("no pair contract configured for %s", PairName(p.cfg.SwapDenom, p.cfg.StakeDenom))
		}

		p.logger.Info("Swapping %s%s for %s", amount, p.cfg.SwapDenom, p.cfg.StakeDenom)
		return network.SwapRequest{
			Pair:      p.cfg.SwapPair,
			Offer:     sdk.NewCoin(p.cfg.SwapDenom, amount),
			AskDenom:  p.cfg.StakeDenom,
			MaxSpread: p.cfg.MaxSpread,
		}, nil
	}
}

func (p *Planner) delegateStep(policy Policy) txengine.Step {
	return func(ctx context.Context, account network.AccountState) (network.OperationRequest, error) {
		if policy.Delegate == nil {
			p.logger.Info("Delegations are not configured for this wallet")
			return nil, nil
		}

		validator := policy.Validator
		if validator == "" {
			rewards, err := p.client.Rewards(ctx, account.Address)
			if err != nil {
				return nil, fmt.Errorf("query rewards: %w", err)
			}
			if len(rewards) == 0 {
				return nil, fmt.Errorf("no existing delegation to delegate to")
			}
			validator = rewards[0].Validator
		}

		balances, err := p.client.Balances(ctx, account.Address)
		if err != nil {
			return nil, fmt.Errorf("query balances: %w", err)
		}
		balance := balances.AmountOf(p.cfg.StakeDenom)

		amount, ok := DelegateAmount(balance, *policy.Delegate, p.cfg.Remainder)
		if !ok {
			p.logger.Info("Nothing to delegate (balance %s%s, remainder %s)", balance, p.cfg.StakeDenom, p.cfg.Remainder)
			return nil, nil
		}

		p.logger.Info("Delegating %s%s to %s", amount, p.cfg.StakeDenom, validator)
		return network.DelegateRequest{
			Validator: validator,
			Amount:    sdk.NewCoin(p.cfg.StakeDenom, amount),
		}, nil
	}
}

// PairName renders an offer and ask denom the way pairs are keyed in config.
func PairName(offer, ask string) string {
	return offer + ":" + ask
}
