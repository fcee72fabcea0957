package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var allKeys = []string{
	"PORT", "ACTIVITIES_API_URL", "API_TIMEOUT", "MESSAGE_TTL", "SESSION_IDLE_TIMEOUT",
	"STATIC_DIR", "CSRF_KEY", "CSRF_INSECURE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 5*time.Second, cfg.MessageTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "./web/static", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.CSRFEnabled())
	assert.False(t, cfg.CSRFInsecure)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ACTIVITIES_API_URL", "http://api.internal:8000")
	t.Setenv("MESSAGE_TTL", "1500ms")
	t.Setenv("CSRF_KEY", strings.Repeat("k", CSRFKeyLength))
	t.Setenv("CSRF_INSECURE", "true")

	cfg, err := NewConfig(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "http://api.internal:8000", cfg.APIBaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.MessageTTL)
	assert.True(t, cfg.CSRFEnabled())
	assert.True(t, cfg.CSRFInsecure)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"API_TIMEOUT":          "soon",
		"MESSAGE_TTL":          "-5s",
		"SESSION_IDLE_TIMEOUT": "0s",
		"CSRF_KEY":             "too-short",
		"CSRF_INSECURE":        "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)

			_, err := NewConfig(zap.NewNop())
			assert.ErrorContains(t, err, key)
		})
	}
}
