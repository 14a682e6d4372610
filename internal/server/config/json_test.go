package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             "www.example:9000",
		"database_dsn":                   "vault.db",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "15m",
		"login_attempt_ttl":              "2m",
		"session_key_validity_duration":  "3m",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "vault.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 2*time.Minute, cfg.LoginAttemptTTL)
		assert.Equal(t, 3*time.Minute, cfg.SessionKeyValidityDuration)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDSN:      "vault.db",
			SecretKey:        "k",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "vault.db", cfg.DatabaseDSN)
		assert.Equal(t, "k", cfg.SecretKey)
	})

	t.Run("unreadable file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "missing.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
