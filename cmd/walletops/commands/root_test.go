package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/cmd/walletops/shared"
	"github.com/altuslabsxyz/walletops/internal/domain/common"
	"github.com/altuslabsxyz/walletops/internal/output"
)

func TestNewRootCmd_Registration(t *testing.T) {
	root := NewRootCmd()

	want := map[string]string{
		"vote":      GroupTx,
		"delegate":  GroupTx,
		"withdraw":  GroupTx,
		"swap":      GroupTx,
		"pool":      GroupTx,
		"manage":    GroupTx,
		"proposals": GroupQuery,
		"status":    GroupQuery,
		"balances":  GroupQuery,
		"wallet":    GroupConfig,
		"config":    GroupConfig,
	}
	for name, group := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.Equal(t, group, cmd.GroupID, name)
	}

	for _, flag := range []string{"home", "json", "no-color", "verbose", "yes", "config"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestConfigShow_FlagOverridesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WALLETOPS_CHAIN_ID", "localterra")
	t.Cleanup(func() {
		output.DefaultLogger.SetJSONMode(false)
		Close()
		container = nil
	})

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--home", home, "--json", "config", "show"})
	require.NoError(t, root.Execute())

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	var v struct {
		Value  interface{} `json:"value"`
		Source string      `json:"source"`
	}
	require.NoError(t, json.Unmarshal(got["home"], &v))
	assert.Equal(t, home, v.Value)
	assert.Equal(t, "flag", v.Source)

	require.NoError(t, json.Unmarshal(got["chain.chain_id"], &v))
	assert.Equal(t, "localterra", v.Value)
	assert.Equal(t, "environment", v.Source)

	require.NoError(t, json.Unmarshal(got["wallets.file"], &v))
	assert.Equal(t, filepath.Join(home, "user_config.yml"), v.Value)
}

func TestReportError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	saved := output.DefaultLogger
	output.DefaultLogger = output.NewLoggerWithWriters(&stdout, &stderr)
	t.Cleanup(func() { output.DefaultLogger = saved })

	ReportError(nil)
	ReportError(shared.ErrReported)
	assert.Empty(t, stderr.String())

	ReportError(common.NewOperationalError("no wallets configured", "run wallet add", errors.New("empty")))
	assert.Contains(t, stderr.String(), "no wallets configured")
	assert.Contains(t, stderr.String(), "Hint: run wallet add")

	stderr.Reset()
	ReportError(fmt.Errorf("vote: %w", context.Canceled))
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "Operation cancelled.")

	stderr.Reset()
	output.DefaultLogger.SetJSONMode(true)
	ReportError(errors.New("boom"))
	var got map[string]string
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &got))
	assert.Equal(t, "error", got["status"])
	assert.Equal(t, "boom", got["error"])
}
