package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Output   OutputConfig
	Log      LogConfig
}

// DatabaseConfig holds configuration for the optional results database.
// An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// OutputConfig holds the result file destinations. Empty paths are skipped.
type OutputConfig struct {
	JSONPath string
	XLSXPath string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("QC_RESULTS_DSN", ""),
			MaxConns:        getEnvAsInt32("QC_DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt32("QC_DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("QC_DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("QC_DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("QC_DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Output: OutputConfig{
			JSONPath: getEnv("QC_OUTPUT_JSON", "results.json"),
			XLSXPath: getEnv("QC_OUTPUT_XLSX", ""),
		},
		Log: LogConfig{
			Level:  getEnv("QC_LOG_LEVEL", "info"),
			Format: getEnv("QC_LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("QC_LOG_LEVEL", strings.ToLower(c.Log.Level), OneOf("debug", "info", "warn", "error"))
	v.Field("QC_LOG_FORMAT", strings.ToLower(c.Log.Format), OneOf("text", "json"))
	if c.Database.DSN != "" {
		v.Field("QC_DB_MAX_CONNS", int(c.Database.MaxConns), Positive)
		if c.Database.MinConns > c.Database.MaxConns {
			v.Field("QC_DB_MIN_CONNS", int(c.Database.MinConns), failRule("must not exceed QC_DB_MAX_CONNS"))
		}
	}
	if err := v.Error(); err != nil {
		return NewAppError(CodeConfig, "invalid configuration", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level; unknown names map to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from the log configuration.
func NewLogger(l LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
