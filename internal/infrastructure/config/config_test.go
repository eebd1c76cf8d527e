package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Check server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.Mode)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())

		// Check database defaults
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "emotion", cfg.Database.User)
		assert.Equal(t, "emotion", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 100, cfg.Database.MaxOpenConns)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowQuery)

		// Check redis defaults
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, "", cfg.Redis.Password)
		assert.Equal(t, 0, cfg.Redis.DB)

		// Check log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)

		// Check pipeline defaults
		assert.Equal(t, "models/emotion.model", cfg.Model.Path)
		assert.Equal(t, 0.2, cfg.Training.TestSize)
		assert.Equal(t, int64(42), cfg.Training.Seed)
		assert.Equal(t, 50000, cfg.Training.MaxFeatures)
		assert.Equal(t, 3, cfg.Training.Folds)
		assert.Equal(t, 1.0, cfg.Training.C)

		// Check translation defaults
		assert.True(t, cfg.Translation.Enabled)
		assert.Equal(t, "en", cfg.Translation.TargetLanguage)
		assert.Equal(t, 5*time.Second, cfg.Translation.Timeout)
		assert.Equal(t, 2, cfg.Translation.MaxRetries)
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		t.Setenv("EMOTION_SERVER_PORT", "9090")
		t.Setenv("EMOTION_DATABASE_HOST", "db.example.com")
		t.Setenv("EMOTION_LOG_LEVEL", "debug")
		t.Setenv("EMOTION_TRANSLATION_TIMEOUT", "750ms")
		t.Setenv("EMOTION_TRANSLATION_ENABLED", "false")
		t.Setenv("EMOTION_MODEL_PATH", "/srv/models/v2.model")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "db.example.com", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 750*time.Millisecond, cfg.Translation.Timeout)
		assert.False(t, cfg.Translation.Enabled)
		assert.Equal(t, "/srv/models/v2.model", cfg.Model.Path)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "emotion.yaml")
		content := `
server:
  port: 7070
training:
  folds: 5
inference:
  label_aliases:
    joy: Alegría
    sadness: Tristeza
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadFile(path)

		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, 5, cfg.Training.Folds)
		assert.Equal(t, "Alegría", cfg.Inference.LabelAliases["joy"])
		assert.Equal(t, "Tristeza", cfg.Inference.LabelAliases["sadness"])
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

		assert.Error(t, err)
	})
}

func TestSetDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify sensible defaults
	assert.Greater(t, cfg.Server.Port, 0)
	assert.Greater(t, cfg.Database.Port, 0)
	assert.Greater(t, cfg.Redis.Port, 0)
	assert.Greater(t, cfg.Training.TestSize, 0.0)
	assert.Less(t, cfg.Training.TestSize, 1.0)
}
