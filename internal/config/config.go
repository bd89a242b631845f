// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// DatabasePath is the directory holding the vault (salt, verification
	// hash and encrypted entries).
	DatabasePath string

	// ServerHost is the host address the API server will bind to.
	ServerHost string
	// ServerPort is the port number the API server will listen on.
	ServerPort int

	// EncryptionAlgorithm selects the AEAD scheme used for new encryptions
	// ("aes256-gcm" or "chacha20poly1305"). Existing records keep the
	// algorithm tag they were written with.
	EncryptionAlgorithm string

	// SessionTTL is the duration after which a session token expires.
	SessionTTL time.Duration

	// ClipboardTimeout is how long a copied secret stays on the clipboard
	// before it is cleared.
	ClipboardTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitAuthEnabled indicates whether rate limiting for the auth endpoint is enabled.
	RateLimitAuthEnabled bool
	// RateLimitAuthRequestsPerSec is the number of requests allowed per second per IP on the auth endpoint.
	RateLimitAuthRequestsPerSec float64
	// RateLimitAuthBurst is the burst size for the auth endpoint rate limiting.
	RateLimitAuthBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	// Empty means all origins (the browser extension connects from an
	// extension origin that is not known ahead of time).
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number the metrics server will listen on.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Vault storage
		DatabasePath: env.GetString("DATABASE_PATH", defaultDatabasePath()),

		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort: env.GetInt("SERVER_PORT", 8765),

		// Crypto
		EncryptionAlgorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes256-gcm"),

		// Sessions and clipboard
		SessionTTL:       env.GetDuration("SESSION_TTL_HOURS", 24, time.Hour),
		ClipboardTimeout: env.GetDuration("CLIPBOARD_TIMEOUT_SECONDS", 30, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate Limiting for the auth endpoint (IP-based, unauthenticated)
		RateLimitAuthEnabled:        env.GetBool("RATE_LIMIT_AUTH_ENABLED", true),
		RateLimitAuthRequestsPerSec: env.GetFloat64("RATE_LIMIT_AUTH_REQUESTS_PER_SEC", 5.0),
		RateLimitAuthBurst:          env.GetInt("RATE_LIMIT_AUTH_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", true),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "rpm"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8766),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// defaultDatabasePath resolves the per-user vault directory, falling back to
// the current directory when the home directory cannot be determined.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "rpm")
	}
	return filepath.Join(home, ".local", "share", "rpm")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
