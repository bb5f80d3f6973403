package wallet

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

var (
	fastParams = wallet.EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
	terraOpts  = wallet.KeyOptions{CoinType: 330, Bech32Prefix: "terra"}
)

func TestValidateName(t *testing.T) {
	require.NoError(t, validateName("savings"))
	require.Error(t, validateName(""))
	require.Error(t, validateName("  "))
	require.Error(t, validateName("my wallet"))
	require.Error(t, validateName("a,b"))
}

func TestBuildDelegations(t *testing.T) {
	d, err := buildDelegations(addOptions{}, "terra")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = buildDelegations(addOptions{Threshold: "1000000"}, "terra")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "1000000", d.Threshold)
	assert.Equal(t, "100%", d.Redelegate)

	d, err = buildDelegations(addOptions{Redelegate: "80%"}, "terra")
	require.NoError(t, err)
	assert.Equal(t, "80%", d.Redelegate)
	assert.Empty(t, d.Threshold)

	_, err = buildDelegations(addOptions{Threshold: "-5"}, "terra")
	require.Error(t, err)

	_, err = buildDelegations(addOptions{Redelegate: "150%"}, "terra")
	require.Error(t, err)

	_, err = buildDelegations(addOptions{Validator: "terravaloper1garbage"}, "terra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validator")
}

func TestWalletPassword_ExistingWallets(t *testing.T) {
	store := wallet.NewFileStore(filepath.Join(t.TempDir(), wallet.DefaultFileName))
	e, err := wallet.NewEntry("main", testMnemonic, "pw", terraOpts, fastParams)
	require.NoError(t, err)
	store.Put(e)

	t.Setenv(shared.PasswordEnv, "pw")
	pw, err := walletPassword(store, terraOpts)
	require.NoError(t, err)
	assert.Equal(t, "pw", pw)

	t.Setenv(shared.PasswordEnv, "other")
	_, err = walletPassword(store, terraOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not open")
}

func TestWalletPassword_FirstWalletFromEnv(t *testing.T) {
	store := wallet.NewFileStore(filepath.Join(t.TempDir(), wallet.DefaultFileName))
	t.Setenv(shared.PasswordEnv, "fresh")
	pw, err := walletPassword(store, terraOpts)
	require.NoError(t, err)
	assert.Equal(t, "fresh", pw)
}

func TestWriteEntries(t *testing.T) {
	no := false
	entries := []*wallet.Entry{
		{Name: "main", Address: "terra1main", Delegations: &wallet.Delegations{Redelegate: "80%", Threshold: "5"}},
		{Name: "cold", Address: "terra1cold", AllowSwaps: &no},
	}

	var table bytes.Buffer
	writeEntries(&table, entries)
	assert.Contains(t, table.String(), "terra1main")
	assert.Contains(t, table.String(), "80%")
	assert.Contains(t, table.String(), "no")

	var buf bytes.Buffer
	require.NoError(t, writeEntriesJSON(&buf, entries))
	var got []entryJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "5", got[0].Threshold)
	assert.True(t, got[0].AllowSwaps)
	assert.False(t, got[1].AllowSwaps)
}
