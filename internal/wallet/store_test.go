package wallet

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

var (
	fastParams = EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
	terraOpts  = KeyOptions{CoinType: 330, Bech32Prefix: "terra"}
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func TestEncryptSeed_RoundTrip(t *testing.T) {
	enc, err := EncryptSeed(testMnemonic, "hunter2", fastParams)
	require.NoError(t, err)
	assert.NotContains(t, enc, "abandon")

	again, err := EncryptSeed(testMnemonic, "hunter2", fastParams)
	require.NoError(t, err)
	assert.NotEqual(t, enc, again, "salt and nonce must be random")

	dec, err := DecryptSeed(enc, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, dec)

	_, err = DecryptSeed(enc, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestEncryptSeed_Errors(t *testing.T) {
	_, err := EncryptSeed(testMnemonic, "", fastParams)
	require.Error(t, err)

	_, err = DecryptSeed("not base64!", "pw")
	require.Error(t, err)

	_, err = DecryptSeed(base64.StdEncoding.EncodeToString([]byte("short")), "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestDecryptSeed_TamperedHeader(t *testing.T) {
	enc, err := EncryptSeed(testMnemonic, "pw", fastParams)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	// bump the iteration count
	raw[saltSize+4]++

	_, err = DecryptSeed(base64.StdEncoding.EncodeToString(raw), "pw")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestGenerateMnemonic(t *testing.T) {
	m, err := GenerateMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 24)
	require.NoError(t, ValidateMnemonic(m))
}

func TestDeriveKey(t *testing.T) {
	priv, err := DeriveKey("  ABANDON "+strings.TrimPrefix(testMnemonic, "abandon"), terraOpts)
	require.NoError(t, err)

	addr, err := Address(priv, "terra")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "terra1"))
	require.NoError(t, ValidateAddress(addr, "terra"))

	cosmosPriv, err := DeriveKey(testMnemonic, KeyOptions{CoinType: 118, Bech32Prefix: "terra"})
	require.NoError(t, err)
	cosmosAddr, err := Address(cosmosPriv, "terra")
	require.NoError(t, err)
	assert.NotEqual(t, addr, cosmosAddr, "coin type must change the derived key")

	_, err = DeriveKey("abandon abandon", terraOpts)
	require.Error(t, err)
}

func TestValidateAddress(t *testing.T) {
	priv, err := DeriveKey(testMnemonic, terraOpts)
	require.NoError(t, err)
	cosmosAddr, err := Address(priv, "cosmos")
	require.NoError(t, err)

	err = ValidateAddress(cosmosAddr, "terra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected prefix")

	require.Error(t, ValidateAddress("terra1garbage", "terra"))
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	store := NewFileStore(path)
	require.NoError(t, store.Load())
	assert.Empty(t, store.List())

	entry, err := NewEntry("main", testMnemonic, "pw", terraOpts, fastParams)
	require.NoError(t, err)
	no := false
	entry.AllowSwaps = &no
	entry.Delegations = &Delegations{Threshold: "1000000", Redelegate: "100%"}

	assert.False(t, store.Put(entry))
	second, err := NewEntry("second", testMnemonic, "pw", terraOpts, fastParams)
	require.NoError(t, err)
	store.Put(second)
	require.NoError(t, store.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := NewFileStore(path)
	require.NoError(t, reloaded.Load())
	entries := reloaded.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "main", entries[0].Name)
	assert.Equal(t, "second", entries[1].Name)
	assert.False(t, entries[0].SwapsAllowed())
	assert.True(t, entries[1].SwapsAllowed())
	assert.Equal(t, "1000000", entries[0].Delegations.Threshold)
	assert.Nil(t, entries[1].Delegations)

	replaced := &Entry{Name: "main", Seed: entry.Seed, Address: entry.Address}
	assert.True(t, reloaded.Put(replaced))
	got, ok := reloaded.Get("main")
	require.True(t, ok)
	assert.Same(t, replaced, got)

	require.NoError(t, reloaded.Remove("second"))
	assert.ErrorIs(t, reloaded.Remove("second"), ErrNotFound)
}

func TestFileStore_LoadHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `---

wallets:
  - wallet: savings
    seed: abc
    address: terra1xyz
    delegations:
      threshold: 5000000
      redelegate: 80%
    allow_swaps: True
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewFileStore(path)
	require.NoError(t, store.Load())
	e, ok := store.Get("savings")
	require.True(t, ok)
	assert.Equal(t, "5000000", e.Delegations.Threshold)
	assert.Equal(t, "80%", e.Delegations.Redelegate)
	assert.True(t, e.SwapsAllowed())
}

func TestFileStore_LoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := "wallets:\n  - wallet: a\n  - wallet: a\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestUnlockAll(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), DefaultFileName))

	good, err := NewEntry("good", testMnemonic, "pw", terraOpts, fastParams)
	require.NoError(t, err)
	otherPassword, err := NewEntry("other", testMnemonic, "different", terraOpts, fastParams)
	require.NoError(t, err)

	mnemonic, err := GenerateMnemonic()
	require.NoError(t, err)
	mismatched, err := NewEntry("mismatched", mnemonic, "pw", terraOpts, fastParams)
	require.NoError(t, err)
	mismatched.Address = good.Address

	store.Put(good)
	store.Put(otherPassword)
	store.Put(mismatched)

	logger := &recordingLogger{}
	wallets := store.UnlockAll("pw", terraOpts, logger)
	require.Len(t, wallets, 1)
	assert.Equal(t, "good", wallets[0].Name)
	assert.NotNil(t, wallets[0].PrivKey)

	require.Len(t, logger.warnings, 2)
	assert.Contains(t, logger.warnings[0], "other")
	assert.Contains(t, logger.warnings[1], "not the stored address")
}
