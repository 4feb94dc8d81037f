package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/token-bridge-relayer/cmd"
	"github.com/strangelove-ventures/token-bridge-relayer/types"
)

const sampleConfig = "../config/sample-config.yaml"

func TestConfig(t *testing.T) {
	file, err := cmd.ParseConfig(sampleConfig)
	require.NoError(t, err, "Error parsing config")

	require.Equal(t, "2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43", file.ProgramID)
	require.Equal(t, uint8(9), file.NativeDecimals)
	require.Equal(t, types.StoreBackendMemory, file.Store.Backend)
	require.Len(t, file.Genesis.Mints, 2)
	require.Equal(t, uint16(2), file.Genesis.Mints[1].TokenChain)
	require.Contains(t, file.Bridge.ForeignEndpoints, uint16(2))

	_, err = cmd.ParseConfig("does-not-exist.yaml")
	require.Error(t, err)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RELAYER_KEYPAIR", "")

	a := cmd.NewAppState()
	a.ConfigPath = sampleConfig
	a.InitLogger()
	require.NoError(t, a.LoadConfig())
	require.Equal(t, "~/.config/solana/id.json", a.Config.Keypair)
}

func TestLoadConfigKeypairOverride(t *testing.T) {
	t.Setenv("RELAYER_KEYPAIR", "/keys/relayer.json")

	a := cmd.NewAppState()
	a.ConfigPath = sampleConfig
	require.NoError(t, a.LoadConfig())
	require.Equal(t, "/keys/relayer.json", a.Config.Keypair)
}

func TestLoadConfigEnvFile(t *testing.T) {
	t.Setenv("RELAYER_KEYPAIR", "")
	require.NoError(t, os.Unsetenv("RELAYER_KEYPAIR"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RELAYER_KEYPAIR=/keys/from-env-file.json\n"), 0o600))

	a := cmd.NewAppState()
	a.ConfigPath = sampleConfig
	a.EnvFile = envFile
	require.NoError(t, a.LoadConfig())
	require.Equal(t, "/keys/from-env-file.json", a.Config.Keypair)

	// a missing env file is not an error
	t.Setenv("RELAYER_KEYPAIR", "")
	a = cmd.NewAppState()
	a.ConfigPath = sampleConfig
	a.EnvFile = filepath.Join(t.TempDir(), "missing.env")
	require.NoError(t, a.LoadConfig())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config string
		errMsg string
	}{
		{
			name:   "missing program id",
			config: "native-decimals: 9\n",
			errMsg: "program-id must be set",
		},
		{
			name:   "invalid program id",
			config: "program-id: nope\nnative-decimals: 9\n",
			errMsg: "not a valid public key",
		},
		{
			name:   "wrong host chain",
			config: "program-id: 2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43\nhost-chain: ethereum\nnative-decimals: 9\n",
			errMsg: "host-chain must be solana",
		},
		{
			name:   "missing native decimals",
			config: "program-id: 2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43\n",
			errMsg: "native-decimals",
		},
		{
			name:   "redis without url",
			config: "program-id: 2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43\nnative-decimals: 9\nstore:\n  backend: redis\n",
			errMsg: "redis-url",
		},
		{
			name:   "unknown backend",
			config: "program-id: 2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43\nnative-decimals: 9\nstore:\n  backend: etcd\n",
			errMsg: "unsupported store backend",
		},
		{
			name:   "host chain endpoint",
			config: "program-id: 2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43\nnative-decimals: 9\nbridge:\n  foreign-endpoints:\n    1: H2w2ECYJ5uQuRKYv4CTejycgQrHSv4i4ZvFYsLwioz5B\n",
			errMsg: "not a foreign chain",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := cmd.NewAppState()
			a.ConfigPath = writeConfig(t, tc.config)
			err := a.LoadConfig()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestShowConfigAndVersion(t *testing.T) {
	t.Setenv("RELAYER_KEYPAIR", "")

	a := cmd.NewAppState()
	root := cmd.NewRootCmd(a)
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"showConfig", "--config", sampleConfig, "--json"})
	require.NoError(t, root.Execute())

	var cfg types.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	require.Equal(t, "2HRbXDoT3fpNhiFo8VxM7yeay29jBuxmLbzuq47Xbo43", cfg.ProgramID)

	out.Reset()
	root = cmd.NewRootCmd(cmd.NewAppState())
	root.SetOut(out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), `"go":`)
}
