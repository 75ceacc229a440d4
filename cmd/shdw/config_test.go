package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSolanaConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := `---
json_rpc_url: "https://api.mainnet-beta.solana.com"
websocket_url: ""
keypair_path: /home/user/.config/solana/id.json
address_labels:
  "11111111111111111111111111111111": System Program
commitment: confirmed
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := parseSolanaConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.JSONRPCURL)
	assert.Equal(t, "/home/user/.config/solana/id.json", cfg.KeypairPath)
}

func TestParseSolanaConfig_Missing(t *testing.T) {
	_, err := parseSolanaConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseSolanaConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("json_rpc_url: [unclosed"), 0o644))

	_, err := parseSolanaConfig(path)
	require.Error(t, err)
}
