package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/internal/config"
)

func TestOutputShowJSON(t *testing.T) {
	cfg := config.NewEffectiveConfig("/tmp/walletops")
	cfg.Pairs[config.PairKey("uusd", "uluna")] = "terra1pair"

	var buf bytes.Buffer
	require.NoError(t, outputShowJSON(&buf, cfg))

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	var chainID valueJSON
	require.NoError(t, json.Unmarshal(got["chain.chain_id"], &chainID))
	assert.Equal(t, config.DefaultChainID, chainID.Value)
	assert.Equal(t, config.SourceDefault.String(), chainID.Source)
	assert.Contains(t, string(got["swap.pairs"]), "terra1pair")
}
