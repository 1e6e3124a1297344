// Package config handles loading runtime configuration for the Mergington Activities API.
// Values come from environment variables (optionally seeded from a .env file), so the same
// binary runs unchanged in development and production; only the environment differs.
package config

import (
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	"github.com/joho/godotenv"
	// viper layers defaults under environment variables and handles type conversion
	// (durations, lists) so we don't hand-parse every value.
	"github.com/spf13/viper"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port            string        // TCP port the HTTP server listens on (e.g., "8080")
	Env             string        // "development", "staging", or "production"
	LogLevel        string        // zap level: debug, info, warn, error
	LogFormat       string        // "json" or "console"
	SeedFile        string        // Optional YAML/JSON file replacing the built-in activity catalog
	StaticDir       string        // Directory served under /static (front-end assets)
	CORSOrigins     string        // Comma-separated list of allowed origins, or "*"
	ShutdownTimeout time.Duration // How long in-flight requests get to finish on SIGINT/SIGTERM
	StreamHeartbeat time.Duration // Keep-alive interval on idle roster streams
}

// Load reads configuration from the environment and returns a populated Config.
// A missing .env file is not an error: in production real environment variables are set
// by the deployment platform.
func Load() *Config {
	// godotenv.Load() returns an error when there is no .env file. The "_ =" discards it
	// on purpose: an absent file just means everything comes from the real environment.
	_ = godotenv.Load()
	return FromViper(newViper())
}

// newViper returns a viper instance bound to the process environment with our defaults.
// A dedicated instance (rather than the viper global) keeps tests isolated from each other.
func newViper() *viper.Viper {
	v := viper.New()
	// AutomaticEnv makes every v.Get* call check os.Getenv(key) first, so a value set
	// in the environment always beats the defaults registered below.
	v.AutomaticEnv()

	// SetDefault registers the fallback for each key. Defaults keep local development
	// zero-config: "go run ./cmd/server" works with no .env at all.

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("STREAM_HEARTBEAT", 15*time.Second)
	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) *Config {
	env := strings.ToLower(strings.TrimSpace(v.GetString("ENV")))
	if env == "" {
		env = "development"
	}

	// Production gets machine-readable JSON logs unless told otherwise;
	// everywhere else defaults to the human-friendly console encoder.
	format := strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if format == "" {
		if env == "production" {
			format = "json"
		} else {
			format = "console"
		}
	}

	// GetDuration parses strings like "3s" or "500ms". Anything it can't parse comes
	// back as 0, which we treat the same as unset.
	timeout := v.GetDuration("SHUTDOWN_TIMEOUT")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	heartbeat := v.GetDuration("STREAM_HEARTBEAT")
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}

	// Return a pointer (&Config{...}) so callers share one Config value instead of copying it.
	return &Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       format,
		SeedFile:        v.GetString("SEED_FILE"),
		StaticDir:       v.GetString("STATIC_DIR"),
		CORSOrigins:     v.GetString("CORS_ORIGINS"),
		ShutdownTimeout: timeout,
		StreamHeartbeat: heartbeat,
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
