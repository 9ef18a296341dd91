package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GRADPATH_CONFIG", "")
	t.Setenv("REDIS_URI", "redis://cache:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, StoreStatic, cfg.CatalogStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsDev())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradpath.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: dev\nhttpPort: \"9000\"\nsessionStore: memory\ncatalogStore: mongo\nsessionTtl: 30m\n"), 0o644))
	t.Setenv("GRADPATH_CONFIG", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "9100", cfg.HTTPPort, "env wins over file")
	assert.Equal(t, StoreMemory, cfg.SessionStore)
	assert.Equal(t, StoreMongo, cfg.CatalogStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("GRADPATH_CONFIG", "")
	t.Setenv("SESSION_STORE", "etcd")
	_, err := Load()
	assert.Error(t, err)
}

func TestAIConfig(t *testing.T) {
	t.Setenv("SOP_EVALUATOR_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("MOCK_DELAY_GENERATE_MS", "0")
	cfg := DefaultAIConfig()
	assert.False(t, cfg.IsEvaluatorLive())
	assert.False(t, cfg.IsGeneratorLive())
	assert.Equal(t, time.Duration(0), cfg.Delays.Generate)
	assert.Equal(t, 2*time.Second, cfg.Delays.Evaluate)

	t.Setenv("SOP_EVALUATOR_API_KEY", "k")
	t.Setenv("GEMINI_API_KEY", "g")
	cfg = DefaultAIConfig()
	assert.True(t, cfg.IsEvaluatorLive())
	assert.True(t, cfg.IsGeneratorLive())
}
