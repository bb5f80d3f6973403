// Package planner decides how much to withdraw, swap and delegate for a wallet.
package planner

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
)

var hundred = sdkmath.LegacyNewDec(100)

// AmountSpec is either a percentage of a balance or an absolute base-unit amount.
type AmountSpec struct {
	percent   sdkmath.LegacyDec
	absolute  sdkmath.Int
	isPercent bool
}

// ParseAmountSpec parses "80%" or "5000000".
func ParseAmountSpec(s string) (AmountSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AmountSpec{}, fmt.Errorf("amount cannot be empty")
	}

	if strings.HasSuffix(s, "%") {
		pct, err := sdkmath.LegacyNewDecFromStr(strings.TrimSpace(strings.TrimSuffix(s, "%")))
		if err != nil {
			return AmountSpec{}, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		if !pct.IsPositive() || pct.GT(hundred) {
			return AmountSpec{}, fmt.Errorf("invalid percentage %q (must be between 0 and 100)", s)
		}
		return AmountSpec{percent: pct, isPercent: true}, nil
	}

	n, ok := sdkmath.NewIntFromString(s)
	if !ok || n.IsNegative() {
		return AmountSpec{}, fmt.Errorf("invalid amount %q (expected a percentage like 80%% or base units like 5000000)", s)
	}
	return AmountSpec{absolute: n}, nil
}

// MustParseAmountSpec is ParseAmountSpec for constants.
func MustParseAmountSpec(s string) AmountSpec {
	spec, err := ParseAmountSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// IsPercent reports whether the amount is relative to a balance.
func (a AmountSpec) IsPercent() bool {
	return a.isPercent
}

// Apply resolves the amount against balance. Percentages round down.
func (a AmountSpec) Apply(balance sdkmath.Int) sdkmath.Int {
	if !a.isPercent {
		if a.absolute.IsNil() {
			return sdkmath.ZeroInt()
		}
		return a.absolute
	}
	if balance.IsNil() {
		return sdkmath.ZeroInt()
	}
	return balance.ToLegacyDec().Mul(a.percent).Quo(hundred).TruncateInt()
}

func (a AmountSpec) String() string {
	if a.isPercent {
		return a.percent.String() + "%"
	}
	if a.absolute.IsNil() {
		return "0"
	}
	return a.absolute.String()
}

// DelegateAmount applies spec to balance, less the remainder kept for fees.
// ok is false when nothing positive is left or the result exceeds the balance.
func DelegateAmount(balance sdkmath.Int, spec AmountSpec, remainder sdkmath.Int) (sdkmath.Int, bool) {
	if balance.IsNil() {
		balance = sdkmath.ZeroInt()
	}
	if remainder.IsNil() {
		remainder = sdkmath.ZeroInt()
	}
	amount := spec.Apply(balance).Sub(remainder)
	return amount, amount.IsPositive() && amount.LTE(balance)
}

// ExceedsThreshold reports whether reward is strictly above threshold.
func ExceedsThreshold(reward, threshold sdkmath.Int) bool {
	if reward.IsNil() {
		return false
	}
	if threshold.IsNil() {
		threshold = sdkmath.ZeroInt()
	}
	return reward.GT(threshold)
}
