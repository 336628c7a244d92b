package config_test

import (
	"testing"
	"time"

	"github.com/nfrund/bookreader/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SURREAL_URL", "ws://localhost:8000")
	t.Setenv("SURREAL_NS", "reader")
	t.Setenv("SURREAL_DB", "test")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8000", cfg.GetDBURL())
	assert.Equal(t, "account", cfg.GetDBAccess())
	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, "user", cfg.GetProfileCollection())
	assert.Equal(t, 2*time.Second, cfg.GetSplashDelay())
	assert.Equal(t, 30*time.Second, cfg.GetAuthTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetDBQueryTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SPLASH_DELAY", "500ms")
	t.Setenv("AUTH_TIMEOUT", "5s")
	t.Setenv("APP_BASE_URL", "https://reader.example.com/")
	t.Setenv("PROFILE_COLLECTION", "readers")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.GetSplashDelay())
	assert.Equal(t, 5*time.Second, cfg.GetAuthTimeout())
	assert.Equal(t, "https://reader.example.com", cfg.GetAppBaseURL())
	assert.Equal(t, "readers", cfg.GetProfileCollection())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing database settings", func(t *testing.T) {
		t.Setenv("SURREAL_URL", "")
		t.Setenv("SURREAL_NS", "")
		t.Setenv("SURREAL_DB", "")
		t.Setenv("SESSION_SECRET", "secret")
		_, err := config.Load()
		assert.ErrorContains(t, err, "SURREAL_URL")
	})

	t.Run("missing session secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_SECRET", "")
		_, err := config.Load()
		assert.ErrorContains(t, err, "SESSION_SECRET")
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SPLASH_DELAY", "soon")
		_, err := config.Load()
		assert.ErrorContains(t, err, "SPLASH_DELAY")
	})
}
