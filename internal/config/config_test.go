package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "PUBLIC_HOST", "IMAGES_DIR", "CLEANUP_INTERVAL", "IMAGE_MAX_AGE", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 3200, cfg.Port)
	assert.Equal(t, "http://localhost:3200", cfg.PublicHost)
	assert.Equal(t, "images", cfg.ImagesDir)
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, time.Hour, cfg.ImageMaxAge)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.LogSource)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Equal(t, "0.0.0.0:3200", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("IMAGES_DIR", "/tmp/charts")
	t.Setenv("CLEANUP_INTERVAL", "30s")
	t.Setenv("IMAGE_MAX_AGE", "2h")
	t.Setenv("LOG_SOURCE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.PublicHost, "public host follows the port")
	assert.Equal(t, "/tmp/charts", cfg.ImagesDir)
	assert.Equal(t, 30*time.Second, cfg.CleanupInterval)
	assert.Equal(t, 2*time.Hour, cfg.ImageMaxAge)
	assert.True(t, cfg.LogSource)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadPublicHostOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUBLIC_HOST", "https://charts.example.com")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://charts.example.com", cfg.PublicHost)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := Load([]string{"--port", "9090", "--public-host", "http://render:9090"})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://render:9090", cfg.PublicHost)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "abc"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad interval", map[string]string{"CLEANUP_INTERVAL": "often"}},
		{"zero max age", map[string]string{"IMAGE_MAX_AGE": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadUnknownFlag(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--nope"})
	assert.Error(t, err)
}
