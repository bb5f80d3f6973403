package planner

import (
	"fmt"
	"strings"
)

// Action is a combination of manage steps.
type Action string

const (
	ActionWithdraw         Action = "W"
	ActionSwap             Action = "S"
	ActionDelegate         Action = "D"
	ActionWithdrawDelegate Action = "WD"
	ActionSwapDelegate     Action = "SD"
	ActionAll              Action = "A"
)

// Actions lists the actions in menu order.
func Actions() []Action {
	return []Action{ActionWithdraw, ActionSwap, ActionDelegate, ActionAll, ActionWithdrawDelegate, ActionSwapDelegate}
}

// ParseAction accepts an action code in any case.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q (valid actions: W, S, D, A, WD, SD)", s)
}

// Withdraws reports whether the action withdraws rewards.
func (a Action) Withdraws() bool {
	return a == ActionWithdraw || a == ActionWithdrawDelegate || a == ActionAll
}

// Swaps reports whether the action swaps the configured denom.
func (a Action) Swaps() bool {
	return a == ActionSwap || a == ActionSwapDelegate || a == ActionAll
}

// Delegates reports whether the action delegates the available balance.
func (a Action) Delegates() bool {
	return a == ActionDelegate || a == ActionWithdrawDelegate || a == ActionSwapDelegate || a == ActionAll
}

// Label is the menu text for the action.
func (a Action) Label() string {
	switch a {
	case ActionWithdraw:
		return "Withdraw rewards"
	case ActionSwap:
		return "Swap coins"
	case ActionDelegate:
		return "Delegate"
	case ActionAll:
		return "All of the above"
	case ActionWithdrawDelegate:
		return "Withdraw & Delegate"
	case ActionSwapDelegate:
		return "Swap & Delegate"
	default:
		return string(a)
	}
}

// Describe completes the sentence "You are about to ...".
func (a Action) Describe(swapDenom, stakeDenom string) string {
	swap := fmt.Sprintf("swap %s for %s", swapDenom, stakeDenom)
	switch a {
	case ActionWithdraw:
		return "withdraw rewards"
	case ActionSwap:
		return swap
	case ActionDelegate:
		return "delegate all available funds"
	case ActionWithdrawDelegate:
		return "withdraw rewards and delegate everything"
	case ActionSwapDelegate:
		return swap + " and delegate everything"
	case ActionAll:
		return "withdraw rewards, " + swap + ", and then delegate everything"
	default:
		return string(a)
	}
}
