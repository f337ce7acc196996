package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HYB-0225/nextkey/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFileWithDefaults(t *testing.T) {
	for _, k := range []string{"NEXTKEY_SERVER_URL", "NEXTKEY_PROJECT_UUID", "NEXTKEY_SECRET", "NEXTKEY_SCHEME", "NEXTKEY_TIMEOUT", "NEXTKEY_MAX_SKEW", "NEXTKEY_LOG_LEVEL", "NEXTKEY_TOKEN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	path := writeEnv(t, `NEXTKEY_SERVER_URL=http://localhost:8080
NEXTKEY_PROJECT_UUID=6f1c2a7e-0000-4000-8000-000000000001
NEXTKEY_SECRET=632005a33ebb7619c1efd3853c7109f1c075c7bb86164e35da72916f9d4ef037
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Client.ServerURL)
	assert.Equal(t, "aes-256-gcm", cfg.Client.Scheme)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 300*time.Second, cfg.Client.MaxSkew)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, k := range []string{"NEXTKEY_SERVER_URL", "NEXTKEY_PROJECT_UUID", "NEXTKEY_SECRET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	_, err := config.Load(writeEnv(t, "NEXTKEY_SERVER_URL=http://localhost:8080\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestLoadServer_SeedLists(t *testing.T) {
	t.Setenv("DEVSERVER_PROJECT_UUID", "p-1")
	t.Setenv("DEVSERVER_SECRET", "abc")
	t.Setenv("DEVSERVER_SCHEME", "xor")
	t.Setenv("DEVSERVER_JWT_SECRET", "jwt-secret")
	t.Setenv("DEVSERVER_CARDS", "AAAA-1111,BBBB-2222")
	t.Setenv("DEVSERVER_CLOUD_VARS", "motd:hello,version:2")

	cfg, err := config.LoadServer("")
	require.NoError(t, err)

	assert.Equal(t, []string{"AAAA-1111", "BBBB-2222"}, cfg.DevServer.Seed.Cards)
	assert.Equal(t, map[string]string{"motd": "hello", "version": "2"}, cfg.DevServer.Seed.CloudVars)
	assert.Equal(t, -1, cfg.DevServer.Seed.MaxHWID)
	assert.Equal(t, 10*time.Minute, cfg.DevServer.NoncesTTL)
}
