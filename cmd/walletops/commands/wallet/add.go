package wallet

import (
	"errors"
	"fmt"
	"os"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/interactive"
	"github.com/altuslabsxyz/walletops/internal/output"
	"github.com/altuslabsxyz/walletops/internal/planner"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

// addOptions are the manage settings stored with a wallet.
type addOptions struct {
	Import     bool
	Threshold  string
	Redelegate string
	Validator  string
	NoSwaps    bool
	Force      bool
}

func newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create or import a wallet",
		Long: `Create a new wallet, or import one from its recovery phrase with --import.

A new wallet prints its 24-word recovery phrase once. Write it down.

Examples:
  # Create a wallet
  walletops wallet add savings

  # Import a wallet and let manage redelegate 80% of its rewards
  walletops wallet add savings --import --redelegate 80% --threshold 1000000`,
		Args: cobra.MaximumNArgs(1),
		RunE: shared.RunE(func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, opts)
		}),
	}

	cmd.Flags().BoolVar(&opts.Import, "import", false, "Import an existing recovery phrase")
	cmd.Flags().StringVar(&opts.Threshold, "threshold", "", "Reward, in base units, worth withdrawing (default from config)")
	cmd.Flags().StringVar(&opts.Redelegate, "redelegate", "", `Rewards to redelegate: "100%", "80%" or a base-unit amount`)
	cmd.Flags().StringVar(&opts.Validator, "validator", "", "Validator that receives redelegated rewards")
	cmd.Flags().BoolVar(&opts.NoSwaps, "no-swaps", false, "Never swap from this wallet")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Replace an existing wallet with the same name")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string, opts addOptions) error {
	c, err := shared.Container(cmd)
	if err != nil {
		return err
	}
	logger := c.Logger()
	cfg := c.Config()

	store, err := c.WalletStore()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		if !shared.IsTerminal() {
			return errors.New("wallet name is required")
		}
		name, err = interactive.PromptText("Wallet name", "", validateName)
		if err != nil {
			return err
		}
	}
	if err := validateName(name); err != nil {
		return err
	}

	if _, exists := store.Get(name); exists && !opts.Force {
		if !shared.IsTerminal() {
			return common.NewOperationalError(fmt.Sprintf("wallet %q already exists", name), "use --force to replace it", nil)
		}
		ok, err := interactive.Confirm(fmt.Sprintf("Wallet %q already exists. Replace it", name))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Nothing changed.")
			return nil
		}
	}

	delegations, err := buildDelegations(opts, cfg.Bech32Prefix.Value)
	if err != nil {
		return err
	}

	var mnemonic string
	if opts.Import {
		mnemonic, err = output.PasswordPrompt("Enter the recovery phrase")
		if errors.Is(err, output.ErrNotTerminal) {
			return common.NewOperationalError("cannot read the recovery phrase", "run wallet add --import in a terminal", err)
		}
		if err != nil {
			return err
		}
		if err := wallet.ValidateMnemonic(mnemonic); err != nil {
			return err
		}
	} else {
		mnemonic, err = wallet.GenerateMnemonic()
		if err != nil {
			return err
		}
	}

	password, err := walletPassword(store, c.KeyOptions())
	if err != nil {
		return err
	}

	entry, err := wallet.NewEntry(name, mnemonic, password, c.KeyOptions(), wallet.DefaultParams())
	if err != nil {
		return err
	}
	entry.Delegations = delegations
	if opts.NoSwaps {
		no := false
		entry.AllowSwaps = &no
	}

	store.Put(entry)
	if err := store.Save(); err != nil {
		return err
	}

	if !opts.Import {
		fmt.Fprintln(cmd.ErrOrStderr())
		logger.Warn("Write down this recovery phrase. It is shown only once:")
		fmt.Fprintf(cmd.ErrOrStderr(), "\n  %s\n\n", mnemonic)
	}
	logger.Success("Wallet %s saved: %s", name, entry.Address)
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("wallet name cannot be empty")
	}
	if strings.ContainsAny(name, " \t,") {
		return errors.New("wallet name cannot contain spaces or commas")
	}
	return nil
}

// buildDelegations returns nil when no manage setting was given.
func buildDelegations(opts addOptions, bech32Prefix string) (*wallet.Delegations, error) {
	if opts.Threshold == "" && opts.Redelegate == "" && opts.Validator == "" {
		return nil, nil
	}

	if opts.Threshold != "" {
		t, ok := sdkmath.NewIntFromString(opts.Threshold)
		if !ok || t.IsNegative() {
			return nil, fmt.Errorf("invalid threshold %q: expected a base-unit amount", opts.Threshold)
		}
	}

	redelegate := opts.Redelegate
	if redelegate == "" {
		redelegate = "100%"
	}
	if _, err := planner.ParseAmountSpec(redelegate); err != nil {
		return nil, fmt.Errorf("invalid redelegate %q: %w", redelegate, err)
	}

	if opts.Validator != "" {
		if err := wallet.ValidateAddress(opts.Validator, bech32Prefix+"valoper"); err != nil {
			return nil, fmt.Errorf("invalid validator: %w", err)
		}
	}

	return &wallet.Delegations{
		Threshold:  opts.Threshold,
		Redelegate: redelegate,
		Validator:  opts.Validator,
	}, nil
}

// walletPassword asks for a new password for the first wallet. Later wallets
// must reuse the password of the existing ones.
func walletPassword(store *wallet.FileStore, keyOpts wallet.KeyOptions) (string, error) {
	existing := store.List()
	if len(existing) == 0 {
		if pw, ok := os.LookupEnv(shared.PasswordEnv); ok {
			return pw, nil
		}
		pw, err := output.NewPasswordPrompt("Choose a wallet password")
		if errors.Is(err, output.ErrNotTerminal) {
			return "", common.NewOperationalError("cannot read the wallet password",
				"run in a terminal or set "+shared.PasswordEnv, err)
		}
		return pw, err
	}

	pw, err := shared.ReadPassword()
	if err != nil {
		return "", err
	}
	for _, e := range existing {
		if _, err := wallet.Unlock(e, pw, keyOpts); err == nil {
			return pw, nil
		}
	}
	return "", common.NewOperationalError("the password does not open any existing wallet",
		"all wallets in the file share one password", nil)
}
