// Package config provides centralized configuration management for the
// service. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Verify   VerifyConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// Addr returns the host:port bind address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// UploadConfig holds manifest upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed manifest size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// StrictHeaders enables validation of the manifest's second header
	// row against the template column names (default: false, positional
	// compatibility mode)
	StrictHeaders bool `env:"UPLOAD_STRICT_HEADERS" default:"false"`
}

// VerifyConfig holds address verification settings. A provider with no
// credential configured is skipped entirely.
type VerifyConfig struct {
	// USPSUserID is the USPS Web Tools API user id (optional)
	USPSUserID string `env:"USPS_USER_ID"`

	// GoogleAPIKey is the Google Address Validation API key (optional)
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`

	// Timeout bounds each outbound provider call (default: 10s)
	Timeout time.Duration `env:"VERIFY_TIMEOUT" default:"10s"`

	// RedisAddr enables the Redis verification cache when set (optional)
	RedisAddr string `env:"VERIFY_REDIS_ADDR"`

	// CacheTTL is how long verified addresses stay cached (default: 24h)
	CacheTTL time.Duration `env:"VERIFY_CACHE_TTL" default:"24h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API credentials are masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: {Host: %q, Port: %d}, Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, "+
			"Upload: {MaxFileSize: %d, StrictHeaders: %v}, Verify: {USPS: %v, Google: %v, Timeout: %s, Redis: %v}, "+
			"Logging: {Level: %q, Format: %q}}",
		c.Server.Host, c.Server.Port,
		c.Database.MaxConns, c.Database.MinConns,
		c.Upload.MaxFileSize, c.Upload.StrictHeaders,
		c.Verify.USPSUserID != "", c.Verify.GoogleAPIKey != "", c.Verify.Timeout, c.Verify.RedisAddr != "",
		c.Logging.Level, c.Logging.Format,
	)
}
