package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOperatorConfig(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9999"
chain_id: 1
verifying_contract: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"
pow_difficulty: 16
quote_validity: "2m"
rates:
  cpu: "0.5"
`)

	cfg, err := LoadOperatorConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.ListenAddr)
	require.Equal(t, uint64(1), cfg.ChainID)
	require.Equal(t, uint32(16), cfg.Difficulty)

	validity, err := cfg.Validity()
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, validity)

	rates, err := cfg.RateTable()
	require.NoError(t, err)
	require.Equal(t, int64(500_000_000), rates["cpu"].Int64())
}

func TestOperatorConfigBadRate(t *testing.T) {
	cfg := DefaultOperatorConfig()
	cfg.Rates = map[string]string{"cpu": "cheap"}
	_, err := cfg.RateTable()
	require.Error(t, err)
}

func TestLoadQuoterConfig(t *testing.T) {
	path := writeConfig(t, `
chain_id: 31337
blueprint_id: 42
ttl_blocks: 1000
operator_timeout: "5s"
operators:
  - address: "0x00000000000000000000000000000000000000aa"
    rpc_address: "http://op1:8090"
  - address: "0x00000000000000000000000000000000000000bb"
    rpc_address: "op2.local:8090"
resources:
  - kind: "cpu"
    count: 2
`)

	cfg, err := LoadQuoterConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.BlueprintID)
	require.Len(t, cfg.Operators, 2)
	require.Equal(t, "http://op1:8090", cfg.Operators[0].RPCAddress)
	require.Len(t, cfg.Resources, 1)

	timeout, err := cfg.Timeout()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, timeout)
	require.Equal(t, uint64(31337), cfg.ChainIDBig().Uint64())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadOperatorConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	generated, err := LoadOrGenerateKey("")
	require.NoError(t, err)
	require.NotNil(t, generated)

	const hex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	loaded, err := LoadOrGenerateKey(hex)
	require.NoError(t, err)
	loadedPrefixed, err := LoadOrGenerateKey("0x" + hex)
	require.NoError(t, err)
	require.Equal(t, loaded.D, loadedPrefixed.D)

	_, err = LoadOrGenerateKey("not-hex")
	require.Error(t, err)
}
