// Package config loads process configuration from the environment
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

// Log levels accepted by LogLevel
var logLevels = []string{"debug", "info", "warn", "error"}

// Log formats accepted by LogFormat
var logFormats = []string{"text", "json"}

// Config is the runtime configuration for the ancestry CLI
type Config struct {
	CatalogPaths []string `env:"ANCESTRY_CATALOG_PATHS" envSeparator:"," envDefault:"data/traits.yaml"`
	// PointBudget overrides the catalog budget when positive
	PointBudget int           `env:"ANCESTRY_POINT_BUDGET"`
	RedisURL    string        `env:"ANCESTRY_REDIS_URL" envDefault:"localhost:6379"`
	SessionTTL  time.Duration `env:"ANCESTRY_SESSION_TTL" envDefault:"24h"`
	LogLevel    string        `env:"ANCESTRY_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"ANCESTRY_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return nil
}

// Load reads optional dotenv files (".env" when none are named), then the
// environment, and validates the result. Variables already set in the
// environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read dotenv file")
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.CatalogPaths) == 0 {
		vb.RequiredField("CatalogPaths")
	}
	for _, p := range c.CatalogPaths {
		if strings.TrimSpace(p) == "" {
			vb.Field("CatalogPaths", "must not contain empty paths")
			break
		}
	}
	errors.ValidateMin("PointBudget", c.PointBudget, 0, vb)
	if c.SessionTTL <= 0 {
		vb.Field("SessionTTL", "must be positive")
	}
	errors.ValidateEnum("LogLevel", c.LogLevel, logLevels, vb)
	errors.ValidateEnum("LogFormat", c.LogFormat, logFormats, vb)

	return vb.Build()
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

// NewLogger builds the process logger writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
