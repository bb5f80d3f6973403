package query

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

func sumRewards(rewards []network.Reward) sdk.DecCoins {
	total := sdk.NewDecCoins()
	for _, r := range rewards {
		total = total.Add(r.Amount...)
	}
	return total
}
