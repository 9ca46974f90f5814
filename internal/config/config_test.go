package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
networks:
  1:
    name: mainnet
    rpc_url: https://eth.example.org
  11155111:
    name: sepolia
    rpc_url: https://sepolia.example.org
sender:
  key_env: CHAINRUN_KEY
history_db: /var/lib/chainrun/history.db
log:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, "https://eth.example.org", cfg.Networks[1].RPCURL)
	assert.Equal(t, "sepolia", cfg.Networks[11155111].Name)
	assert.Equal(t, "CHAINRUN_KEY", cfg.Sender.KeyEnv)
	assert.Equal(t, "/var/lib/chainrun/history.db", cfg.HistoryDB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"no networks": {
			body: "log:\n  level: info\n",
			want: "no networks",
		},
		"missing rpc_url": {
			body: "networks:\n  1:\n    name: mainnet\n",
			want: "rpc_url is required",
		},
		"bad log level": {
			body: "networks:\n  1:\n    rpc_url: https://x\nlog:\n  level: loud\n",
			want: "log.level",
		},
		"bad log format": {
			body: "networks:\n  1:\n    rpc_url: https://x\nlog:\n  format: xml\n",
			want: "log.format",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPrivateKey(t *testing.T) {
	cfg := &Config{Sender: Sender{KeyEnv: "CHAINRUN_TEST_KEY"}}

	t.Run("unset env fails", func(t *testing.T) {
		_, err := cfg.PrivateKey()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CHAINRUN_TEST_KEY")
	})

	t.Run("set env resolves", func(t *testing.T) {
		t.Setenv("CHAINRUN_TEST_KEY", "0xabc")
		key, err := cfg.PrivateKey()
		require.NoError(t, err)
		assert.Equal(t, "0xabc", key)
	})

	t.Run("no key_env means read-only", func(t *testing.T) {
		key, err := (&Config{}).PrivateKey()
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}
