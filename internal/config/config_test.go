package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ancestry-builder/internal/config"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	for _, key := range []string{
		"ANCESTRY_CATALOG_PATHS",
		"ANCESTRY_POINT_BUDGET",
		"ANCESTRY_REDIS_URL",
		"ANCESTRY_SESSION_TTL",
		"ANCESTRY_LOG_LEVEL",
		"ANCESTRY_LOG_FORMAT",
	} {
		s.T().Setenv(key, "")
		s.Require().NoError(os.Unsetenv(key))
	}
}

func (s *ConfigTestSuite) noDotenv() string {
	return filepath.Join(s.dir, "absent.env")
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load(s.noDotenv())
	s.Require().NoError(err)

	s.Equal([]string{"data/traits.yaml"}, cfg.CatalogPaths)
	s.Equal(0, cfg.PointBudget)
	s.Equal("localhost:6379", cfg.RedisURL)
	s.Equal(24*time.Hour, cfg.SessionTTL)
	s.Equal("info", cfg.LogLevel)
	s.Equal("text", cfg.LogFormat)
}

func (s *ConfigTestSuite) TestEnvironment() {
	s.T().Setenv("ANCESTRY_CATALOG_PATHS", "core.yaml,extra.json")
	s.T().Setenv("ANCESTRY_POINT_BUDGET", "20")
	s.T().Setenv("ANCESTRY_SESSION_TTL", "90m")
	s.T().Setenv("ANCESTRY_LOG_LEVEL", " DEBUG ")

	cfg, err := config.Load(s.noDotenv())
	s.Require().NoError(err)

	s.Equal([]string{"core.yaml", "extra.json"}, cfg.CatalogPaths)
	s.Equal(20, cfg.PointBudget)
	s.Equal(90*time.Minute, cfg.SessionTTL)
	s.Equal("debug", cfg.LogLevel)
}

func (s *ConfigTestSuite) TestDotenv() {
	path := filepath.Join(s.dir, "test.env")
	s.Require().NoError(os.WriteFile(path, []byte("ANCESTRY_POINT_BUDGET=12\nANCESTRY_REDIS_URL=redis://cache:6379/1\n"), 0o600))
	s.T().Setenv("ANCESTRY_REDIS_URL", "redis://override:6379/0")

	cfg, err := config.Load(path)
	s.Require().NoError(err)

	s.Equal(12, cfg.PointBudget)
	s.Equal("redis://override:6379/0", cfg.RedisURL)
	s.Require().NoError(os.Unsetenv("ANCESTRY_POINT_BUDGET"))
}

func (s *ConfigTestSuite) TestInvalid() {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative budget", key: "ANCESTRY_POINT_BUDGET", value: "-1"},
		{name: "non numeric budget", key: "ANCESTRY_POINT_BUDGET", value: "lots"},
		{name: "bad ttl", key: "ANCESTRY_SESSION_TTL", value: "soon"},
		{name: "zero ttl", key: "ANCESTRY_SESSION_TTL", value: "0s"},
		{name: "unknown log level", key: "ANCESTRY_LOG_LEVEL", value: "chatty"},
		{name: "unknown log format", key: "ANCESTRY_LOG_FORMAT", value: "xml"},
		{name: "empty catalog path", key: "ANCESTRY_CATALOG_PATHS", value: "core.yaml,,extra.yaml"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)

			_, err := config.Load(s.noDotenv())
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func (s *ConfigTestSuite) TestLogger() {
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "build_id", "build_1")

	s.NotContains(buf.String(), "hidden")
	s.Contains(buf.String(), `"msg":"shown"`)
	s.Contains(buf.String(), `"build_id":"build_1"`)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
