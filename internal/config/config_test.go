package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/polyglottos/dataport/internal/storage"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "", cfg.Storage.FallbackType)
	assert.Equal(t, DefaultDatabasePath, cfg.Storage.DatabasePath)
	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.CloudSync.Enabled)
	assert.Equal(t, "0 */6 * * *", cfg.CloudSync.Schedule)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "cloud")
	t.Setenv("STORAGE_FALLBACK_TYPE", "local")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("API_TIMEOUT", "10s")
	t.Setenv("CLOUD_SYNC_ENABLED", "true")

	cfg := NewConfig()

	assert.Equal(t, "cloud", cfg.Storage.Type)
	assert.Equal(t, "local", cfg.Storage.FallbackType)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.CloudSync.Enabled)
}

func TestStorageConfig(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "cloud")
	t.Setenv("API_BASE_URL", "https://api.example.com")

	storageCfg := NewConfig().StorageConfig()

	assert.Equal(t, storage.TypeCloud, storageCfg.Type)
	assert.Equal(t, "https://api.example.com", storageCfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, storageCfg.Timeout)
}
