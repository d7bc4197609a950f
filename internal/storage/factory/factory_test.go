package factory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglottos/dataport/internal/storage"
)

func localConfig(t *testing.T) storage.Config {
	t.Helper()
	return storage.Config{
		Type:         storage.TypeLocal,
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestNewService(t *testing.T) {
	t.Run("builds a local backend", func(t *testing.T) {
		svc, err := NewService(localConfig(t))
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("builds a cloud backend with fallback", func(t *testing.T) {
		cfg := localConfig(t)
		cfg.Type = storage.TypeCloud
		cfg.FallbackType = storage.TypeLocal
		cfg.APIBaseURL = "http://127.0.0.1:1"

		svc, err := NewService(cfg)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects unknown backend types", func(t *testing.T) {
		_, err := NewService(storage.Config{Type: "carrier-pigeon"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage type")
	})

	t.Run("rejects unknown fallback types", func(t *testing.T) {
		cfg := localConfig(t)
		cfg.FallbackType = "carrier-pigeon"
		_, err := NewService(cfg)
		require.Error(t, err)
	})
}

func TestInstance(t *testing.T) {
	ResetInstance()
	t.Cleanup(ResetInstance)

	first, err := Instance(localConfig(t))
	require.NoError(t, err)

	// A different config must not rebuild the cached instance.
	second, err := Instance(storage.Config{Type: "carrier-pigeon"})
	require.NoError(t, err)
	assert.Same(t, first, second)

	ResetInstance()
	third, err := Instance(localConfig(t))
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
