// Package config reads runtime settings from the environment, after loading an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// CSRFKeyLength is the required length of CSRF_KEY in bytes.
const CSRFKeyLength = 32

// Config holds everything the server needs at start-up.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// APIBaseURL is the root of the activities API.
	APIBaseURL string
	// APITimeout bounds every call to the activities API.
	APITimeout time.Duration
	// MessageTTL is how long a transient message stays visible.
	MessageTTL time.Duration
	// SessionIdleTimeout drops sessions nobody has used for this long.
	SessionIdleTimeout time.Duration
	// StaticDir is served under /static/.
	StaticDir string
	// CSRFKey enables CSRF protection of form posts when set.
	CSRFKey []byte
	// CSRFInsecure marks requests as plaintext HTTP for local development.
	CSRFInsecure bool
	LogLevel     string
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// CSRFEnabled reports whether form posts must carry a CSRF token.
func (c Config) CSRFEnabled() bool {
	return len(c.CSRFKey) > 0
}

// NewConfig loads .env (if present) and reads the environment, falling back to
// local-development defaults.
func NewConfig(logger *zap.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		APIBaseURL: getEnv("ACTIVITIES_API_URL", "http://localhost:8000"),
		StaticDir:  getEnv("STATIC_DIR", "./web/static"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.APITimeout, err = durationEnv("API_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.MessageTTL, err = durationEnv("MESSAGE_TTL", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.SessionIdleTimeout, err = durationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return cfg, err
	}

	if key := os.Getenv("CSRF_KEY"); key != "" {
		if len(key) != CSRFKeyLength {
			return cfg, fmt.Errorf("CSRF_KEY must be exactly %d bytes, got %d", CSRFKeyLength, len(key))
		}
		cfg.CSRFKey = []byte(key)
	}
	if v := os.Getenv("CSRF_INSECURE"); v != "" {
		if cfg.CSRFInsecure, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("CSRF_INSECURE: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
