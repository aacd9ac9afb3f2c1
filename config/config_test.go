package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "badger", cfg.Storage.Type)
	assert.Equal(t, "gemini-embedding-001", cfg.AI.EmbeddingModel)
	assert.Equal(t, "gemini-flash-latest", cfg.AI.ChatModel)
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("server:\n  addr: \":9090\"\nstorage:\n  type: postgres\n  postgres:\n    dsn: postgres://localhost/shikipilot\n")
	require.NoError(t, os.WriteFile(path, partial, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "GOOGLE_API_KEY", cfg.AI.APIKeyEnv)
	assert.Equal(t, 15, cfg.AI.EmbedTimeoutSecs)
	require.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original, err := Load(path)
	require.NoError(t, err)
	original.Server.Addr = ":7070"
	original.Server.Tokens = map[string]string{"secret-token": "user-1"}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", loaded.Server.Addr)
	assert.Equal(t, "user-1", loaded.Server.Tokens["secret-token"])
}

func TestValidate(t *testing.T) {
	t.Run("unknown storage type", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		cfg.Storage.Type = "etcd"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		cfg.Storage.Type = "postgres"
		cfg.Storage.Postgres = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("badger without path", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		cfg.Storage.Badger.Path = ""
		assert.Error(t, cfg.Validate())

		cfg.Storage.Badger.InMemory = true
		assert.NoError(t, cfg.Validate())
	})
}
