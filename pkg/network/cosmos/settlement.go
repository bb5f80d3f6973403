// pkg/network/cosmos/settlement.go
package cosmos

import (
	abci "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Settlement is what an account paid and received in one transaction.
type Settlement struct {
	Sent     sdk.Coins
	Received sdk.Coins
}

// SettlementFromEvents sums the coin_spent and coin_received events of account.
// The fee is removed from the sent amount.
func SettlementFromEvents(events []abci.Event, account string, fee sdk.Coins) Settlement {
	var s Settlement
	for _, ev := range events {
		switch ev.Type {
		case "coin_spent":
			if coins, ok := eventCoins(ev, "spender", account); ok {
				s.Sent = s.Sent.Add(coins...)
			}
		case "coin_received":
			if coins, ok := eventCoins(ev, "receiver", account); ok {
				s.Received = s.Received.Add(coins...)
			}
		}
	}

	if !fee.Empty() && s.Sent.IsAllGTE(fee) {
		s.Sent = s.Sent.Sub(fee...)
	}
	return s
}

func eventCoins(ev abci.Event, role, account string) (sdk.Coins, bool) {
	var (
		who    string
		amount string
	)
	for _, attr := range ev.Attributes {
		switch attr.Key {
		case role:
			who = attr.Value
		case "amount":
			amount = attr.Value
		}
	}
	if who != account || amount == "" {
		return nil, false
	}

	coins, err := sdk.ParseCoinsNormalized(amount)
	if err != nil {
		return nil, false
	}
	return coins, true
}
