package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_PATH", "ENV", "PORT", "STORAGE_DRIVER", "DISABLE_DOCS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, DefaultPort, cfg.ListenPort())
	assert.Equal(t, ":3333", cfg.Addr())
	assert.False(t, cfg.DisableDocs)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "prod")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ListenPort())
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, StorageSQLite, cfg.Storage)
}

func TestListenPort_FallsBack(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-5", "70000", "80.5"} {
		cfg := Config{Port: raw}
		assert.Equal(t, DefaultPort, cfg.ListenPort(), raw)
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: staging\nport: \"4000\"\nstorage: sqlite\n"), 0o600))
	t.Setenv("PORT", "5000")

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 5000, cfg.ListenPort())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load(nil)
	assert.ErrorContains(t, err, "does not exist")
}
