package shared

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/walletops/internal/config"
	"github.com/altuslabsxyz/walletops/internal/di"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

// PasswordEnv supplies the wallet password without a prompt.
const PasswordEnv = config.EnvPrefix + "PASSWORD"

const balanceTimeout = 5 * time.Second

// WalletFlags selects wallets by name.
type WalletFlags struct {
	Names []string
}

// Register adds --wallet to cmd.
func (f *WalletFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.Names, "wallet", "w", nil,
		"Wallet name, repeatable (prompts when omitted)")
}

// IsTerminal reports whether stdin is interactive.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadPassword reads the wallet password from PasswordEnv or the terminal.
func ReadPassword() (string, error) {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		return pw, nil
	}
	pw, err := output.PasswordPrompt("Enter the password for your wallets")
	if errors.Is(err, output.ErrNotTerminal) {
		return "", common.NewOperationalError("cannot read the wallet password",
			"run in a terminal or set "+PasswordEnv, err)
	}
	return pw, err
}

// UnlockWallets unlocks the wallets the password opens, then narrows them to
// names, or to an interactive selection when names is empty. Without a
// terminal every unlocked wallet is used when multi is set.
func UnlockWallets(ctx context.Context, c *di.Container, names []string, multi bool) ([]*wallet.Wallet, error) {
	store, err := c.WalletStore()
	if err != nil {
		return nil, err
	}
	if len(store.List()) == 0 {
		return nil, common.NewOperationalError("no wallets configured in "+store.Path(),
			"run 'walletops wallet add <name>' first", nil)
	}

	password, err := ReadPassword()
	if err != nil {
		return nil, err
	}
	wallets := store.UnlockAll(password, c.KeyOptions(), c.Logger())
	if len(wallets) == 0 {
		return nil, common.NewOperationalError("no wallet could be unlocked with this password", "", nil)
	}

	if len(names) > 0 {
		return pickWallets(wallets, names)
	}
	if len(wallets) == 1 {
		return wallets, nil
	}
	if !IsTerminal() {
		if multi {
			return wallets, nil
		}
		return nil, fmt.Errorf("several wallets are configured; choose one with --wallet")
	}

	items := WalletItems(ctx, c, wallets)
	if multi {
		idx, err := interactive.SelectWallets("Select the wallets to use", items)
		if err != nil {
			return nil, err
		}
		selected := make([]*wallet.Wallet, len(idx))
		for i, n := range idx {
			selected[i] = wallets[n]
		}
		return selected, nil
	}

	i, err := interactive.SelectWallet("Select a wallet", items)
	if err != nil {
		return nil, err
	}
	return []*wallet.Wallet{wallets[i]}, nil
}

func pickWallets(wallets []*wallet.Wallet, names []string) ([]*wallet.Wallet, error) {
	byName := make(map[string]*wallet.Wallet, len(wallets))
	for _, w := range wallets {
		byName[w.Name] = w
	}
	picked := make([]*wallet.Wallet, 0, len(names))
	for _, name := range names {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("wallet %q is not configured or could not be unlocked", name)
		}
		picked = append(picked, w)
	}
	return picked, nil
}

// WalletItems builds menu rows with the stake balance of each wallet.
// Balances that cannot be fetched are left blank.
func WalletItems(ctx context.Context, c *di.Container, wallets []*wallet.Wallet) []interactive.WalletItem {
	items := make([]interactive.WalletItem, len(wallets))
	client, err := c.ChainClient()
	for i, w := range wallets {
		items[i] = interactive.WalletItem{Name: w.Name, Address: w.Address}
		if err != nil {
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, balanceTimeout)
		balances, berr := client.Balances(callCtx, w.Address)
		cancel()
		if berr == nil {
			denom := c.Config().FeeDenom.Value
			items[i].Balance = DisplayCoin(sdk.NewCoin(denom, balances.AmountOf(denom)))
		}
	}
	return items
}

// DisplayCoin renders a micro-denominated coin in whole units, e.g.
// 1500000uluna as "1.5 LUNA". Other denoms are printed as is.
func DisplayCoin(coin sdk.Coin) string {
	if coin.Amount.IsNil() {
		coin.Amount = sdkmath.ZeroInt()
	}
	if !strings.HasPrefix(coin.Denom, "u") || len(coin.Denom) < 2 || strings.Contains(coin.Denom, "/") {
		return coin.String()
	}
	whole := sdkmath.LegacyNewDecFromIntWithPrec(coin.Amount, 6).String()
	whole = strings.TrimRight(strings.TrimRight(whole, "0"), ".")
	return whole + " " + strings.ToUpper(coin.Denom[1:])
}
