package config

import (
	"errors"
	"fmt"
	"os"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// InteractiveSetup handles interactive configuration prompts.
type InteractiveSetup struct {
	homeDir  string
	writer   *ConfigWriter
	defaults *FileConfig
}

// NewInteractiveSetup creates a new InteractiveSetup for the given home directory.
func NewInteractiveSetup(homeDir string) *InteractiveSetup {
	return &InteractiveSetup{
		homeDir:  homeDir,
		writer:   NewConfigWriter(homeDir),
		defaults: &FileConfig{},
	}
}

// IsInteractive returns true if the terminal supports interactive input.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldPrompt returns true if the terminal is interactive and no config exists yet.
func (s *InteractiveSetup) ShouldPrompt() bool {
	return IsInteractive() && !s.writer.Exists()
}

// ConfigExists returns true if config.toml exists in homeDir.
func (s *InteractiveSetup) ConfigExists() bool {
	return s.writer.Exists()
}

// Path returns the config.toml path the setup writes to.
func (s *InteractiveSetup) Path() string {
	return s.writer.Path()
}

// LoadDefaults loads existing config values to use as defaults in prompts.
func (s *InteractiveSetup) LoadDefaults() *FileConfig {
	if !s.writer.Exists() {
		return s.defaults
	}

	loader := NewConfigLoader(s.homeDir, s.writer.Path(), nil)
	cfg, _, err := loader.LoadFileConfig()
	if err != nil {
		return s.defaults
	}

	s.defaults = cfg
	return cfg
}

// Run executes the interactive configuration flow.
// Returns the configured FileConfig or error if cancelled.
func (s *InteractiveSetup) Run() (*FileConfig, error) {
	cfg := s.LoadDefaults()

	fmt.Println()
	fmt.Println("Welcome to walletops configuration!")
	fmt.Println("Press Ctrl+C at any time to cancel.")
	fmt.Println()

	chainID, err := s.promptString("Chain ID", "Chain ID", cfg.Chain.ChainID, DefaultChainID, nil)
	if err != nil {
		return nil, err
	}
	cfg.Chain.ChainID = &chainID

	grpcEndpoint, err := s.promptString("gRPC endpoint (host:port)", "gRPC", cfg.Chain.GRPCEndpoint, DefaultGRPCEndpoint, nonEmpty)
	if err != nil {
		return nil, err
	}
	cfg.Chain.GRPCEndpoint = &grpcEndpoint

	rpcEndpoint, err := s.promptString("RPC endpoint", "RPC", cfg.Chain.RPCEndpoint, DefaultRPCEndpoint, nonEmpty)
	if err != nil {
		return nil, err
	}
	cfg.Chain.RPCEndpoint = &rpcEndpoint

	feeDenom, err := s.promptString("Fee denom", "Fee denom", cfg.Chain.FeeDenom, DefaultFeeDenom, sdk.ValidateDenom)
	if err != nil {
		return nil, err
	}
	cfg.Chain.FeeDenom = &feeDenom

	govVersion, err := s.promptGovVersion(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Chain.GovVersion = &govVersion

	return cfg, nil
}

// RunWithDefaults returns a FileConfig with default chain values.
// Used when terminal is non-interactive.
func (s *InteractiveSetup) RunWithDefaults() *FileConfig {
	chainID := DefaultChainID
	grpcEndpoint := DefaultGRPCEndpoint
	rpcEndpoint := DefaultRPCEndpoint
	feeDenom := DefaultFeeDenom
	govVersion := DefaultGovVersion

	return &FileConfig{
		Chain: ChainSection{
			ChainID:      &chainID,
			GRPCEndpoint: &grpcEndpoint,
			RPCEndpoint:  &rpcEndpoint,
			FeeDenom:     &feeDenom,
			GovVersion:   &govVersion,
		},
	}
}

// WriteConfig writes the configuration to homeDir/config.toml.
func (s *InteractiveSetup) WriteConfig(cfg *FileConfig) error {
	return s.writer.Write(cfg)
}

func nonEmpty(input string) error {
	if input == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func (s *InteractiveSetup) promptString(label, done string, current *string, def string, validate promptui.ValidateFunc) (string, error) {
	defaultValue := def
	if current != nil && *current != "" {
		defaultValue = *current
	}

	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ " + done + ": ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if result == "" {
		result = defaultValue
	}
	return result, nil
}

// promptGovVersion prompts for the gov module message version.
func (s *InteractiveSetup) promptGovVersion(cfg *FileConfig) (string, error) {
	defaultIdx := 0
	if cfg.Chain.GovVersion != nil {
		for i, v := range govVersions {
			if v == *cfg.Chain.GovVersion {
				defaultIdx = i
				break
			}
		}
	}

	prompt := promptui.Select{
		Label:     "Select governance message version",
		Items:     govVersions,
		CursorPos: defaultIdx,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✓ Gov version: {{ . | green }}",
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}

	return result, nil
}

// handlePromptError converts promptui errors to user-friendly messages.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return fmt.Errorf("configuration cancelled")
	}
	if errors.Is(err, promptui.ErrEOF) {
		return fmt.Errorf("configuration cancelled (EOF)")
	}
	return err
}
