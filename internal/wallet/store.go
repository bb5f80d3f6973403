package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the wallet file kept in the walletops home.
const DefaultFileName = "user_config.yml"

// ErrNotFound is returned when a wallet name is not in the file.
var ErrNotFound = errors.New("wallet not found")

// Delegations configures the manage command for one wallet.
type Delegations struct {
	// Threshold is the reward, in base units, worth withdrawing.
	Threshold string `yaml:"threshold,omitempty"`
	// Redelegate is "100%" or an absolute base-unit amount.
	Redelegate string `yaml:"redelegate"`
	// Validator pins the delegation target.
	Validator string `yaml:"validator,omitempty"`
}

// Entry is one wallet as stored in the wallet file.
type Entry struct {
	Name        string       `yaml:"wallet"`
	Seed        string       `yaml:"seed"`
	Address     string       `yaml:"address"`
	Delegations *Delegations `yaml:"delegations,omitempty"`
	AllowSwaps  *bool        `yaml:"allow_swaps,omitempty"`
}

// SwapsAllowed defaults to true when the file does not say.
func (e *Entry) SwapsAllowed() bool {
	return e.AllowSwaps == nil || *e.AllowSwaps
}

// Wallet is an unlocked Entry.
type Wallet struct {
	*Entry
	PrivKey cryptotypes.PrivKey
}

// Logger receives warnings about wallets that could not be unlocked.
type Logger interface {
	Warn(format string, args ...interface{})
}

type walletsFile struct {
	Wallets []*Entry `yaml:"wallets"`
}

// FileStore keeps wallets in a YAML file, in insertion order.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	entries []*Entry
}

// NewFileStore creates a FileStore backed by path. Call Load before use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the wallet file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the wallet file. A missing file is an empty store.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = nil
			return nil
		}
		return fmt.Errorf("failed to read wallet file: %w", err)
	}

	var wf walletsFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("failed to parse wallet file %s: %w", s.path, err)
	}

	seen := make(map[string]bool, len(wf.Wallets))
	entries := make([]*Entry, 0, len(wf.Wallets))
	for i, e := range wf.Wallets {
		if e == nil || e.Name == "" {
			return fmt.Errorf("wallet file %s: entry %d has no name", s.path, i+1)
		}
		if seen[e.Name] {
			return fmt.Errorf("wallet file %s: duplicate wallet %q", s.path, e.Name)
		}
		seen[e.Name] = true
		entries = append(entries, e)
	}
	s.entries = entries

	return nil
}

// Save writes the wallet file with owner-only permissions.
func (s *FileStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create wallet directory: %w", err)
	}

	data, err := yaml.Marshal(&walletsFile{Wallets: s.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal wallets: %w", err)
	}

	if err := os.WriteFile(s.path, append([]byte("---\n"), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write wallet file: %w", err)
	}
	return nil
}

// List returns the entries in file order.
func (s *FileStore) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get finds an entry by name.
func (s *FileStore) Get(name string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Put adds e, or replaces the entry with the same name. It reports whether an entry was replaced.
func (s *FileStore) Put(e *Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.entries {
		if existing.Name == e.Name {
			s.entries[i] = e
			return true
		}
	}
	s.entries = append(s.entries, e)
	return false
}

// Remove deletes an entry by name.
func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// NewEntry encrypts mnemonic and derives the address it is stored under.
func NewEntry(name, mnemonic, password string, opts KeyOptions, params EncryptionParams) (*Entry, error) {
	if name == "" {
		return nil, fmt.Errorf("wallet name cannot be empty")
	}

	mnemonic = NormalizeMnemonic(mnemonic)
	priv, err := DeriveKey(mnemonic, opts)
	if err != nil {
		return nil, err
	}
	address, err := Address(priv, opts.Bech32Prefix)
	if err != nil {
		return nil, err
	}

	seed, err := EncryptSeed(mnemonic, password, params)
	if err != nil {
		return nil, err
	}

	return &Entry{Name: name, Seed: seed, Address: address}, nil
}

// Unlock decrypts one entry and checks that its seed derives its address.
func Unlock(e *Entry, password string, opts KeyOptions) (*Wallet, error) {
	if err := ValidateAddress(e.Address, opts.Bech32Prefix); err != nil {
		return nil, fmt.Errorf("wallet %s: %w", e.Name, err)
	}

	mnemonic, err := DecryptSeed(e.Seed, password)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", e.Name, err)
	}

	priv, err := DeriveKey(mnemonic, opts)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", e.Name, err)
	}
	address, err := Address(priv, opts.Bech32Prefix)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", e.Name, err)
	}
	if address != e.Address {
		return nil, fmt.Errorf("wallet %s: seed derives %s, not the stored address %s", e.Name, address, e.Address)
	}

	return &Wallet{Entry: e, PrivKey: priv}, nil
}

// UnlockAll unlocks every entry the password opens. Entries that fail are
// skipped with a warning, so one password can serve a subset of the file.
func (s *FileStore) UnlockAll(password string, opts KeyOptions, logger Logger) []*Wallet {
	var wallets []*Wallet
	for _, e := range s.List() {
		w, err := Unlock(e, password, opts)
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping %v", err)
			}
			continue
		}
		wallets = append(wallets, w)
	}
	return wallets
}
