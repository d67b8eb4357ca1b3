package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
)

// isolate runs the test in an empty directory with HOME pointing at it, so
// no .env or .mcpsync.yaml from the developer machine leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	for _, key := range []string{EnvToken, EnvDatabaseURL, "SOURCE_TOKEN", "DATABASE_DSN", "DATABASE_DRIVER", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultSourceURL, config.SourceURL)
	assert.Equal(t, constants.DefaultPageDelay, config.PageDelay)
	assert.Equal(t, constants.DefaultHTTPTimeout, config.HTTPTimeout)
	assert.Equal(t, "postgres", config.DatabaseDriver)
	assert.Equal(t, constants.ProgressInterval, config.ProgressInterval)
	assert.Equal(t, constants.ErrorDisplayLimit, config.ErrorDisplayLimit)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.Token)
	assert.Empty(t, config.TokenSource)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvToken, "pulse-token-from-env")
	t.Setenv(EnvDatabaseURL, "postgres://localhost/mcp")
	t.Setenv("SOURCE_PAGE_DELAY", "2s")
	t.Setenv("SYNC_ERROR_DISPLAY_LIMIT", "3")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "pulse-token-from-env", config.Token)
	assert.Equal(t, "env", config.TokenSource)
	assert.Equal(t, "postgres://localhost/mcp", config.DatabaseDSN)
	assert.Equal(t, 2*time.Second, config.PageDelay)
	assert.Equal(t, 3, config.ErrorDisplayLimit)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  token: pulse-token-from-file
  require_token: true
database:
  driver: sqlite
  dsn: /tmp/mcp.db
metrics:
  textfile: /tmp/mcpsync.prom
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "pulse-token-from-file", config.Token)
	assert.Equal(t, "config", config.TokenSource)
	assert.True(t, config.RequireToken)
	assert.Equal(t, "sqlite", config.DatabaseDriver)
	assert.Equal(t, "/tmp/mcp.db", config.DatabaseDSN)
	assert.Equal(t, "/tmp/mcpsync.prom", config.MetricsTextfile)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://dotenv/mcp\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(EnvDatabaseURL) })
	// godotenv never overrides variables that are already set, even to "".
	os.Unsetenv(EnvDatabaseURL)

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv/mcp", config.DatabaseDSN)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsConfigError(err))
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SourceURL:         constants.DefaultSourceURL,
			HTTPTimeout:       time.Second,
			DatabaseDriver:    "postgres",
			DatabaseDSN:       "postgres://localhost/mcp",
			ProgressInterval:  10,
			ErrorDisplayLimit: 5,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid postgres", func(*Config) {}, true},
		{"memory needs no dsn", func(c *Config) { c.DatabaseDriver = DriverMemory; c.DatabaseDSN = "" }, true},
		{"missing dsn", func(c *Config) { c.DatabaseDSN = "" }, false},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, false},
		{"required token missing", func(c *Config) { c.RequireToken = true }, false},
		{"required token set", func(c *Config) { c.RequireToken = true; c.Token = "t" }, true},
		{"negative delay", func(c *Config) { c.PageDelay = -time.Second }, false},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, false},
		{"zero progress interval", func(c *Config) { c.ProgressInterval = 0 }, false},
		{"negative error limit", func(c *Config) { c.ErrorDisplayLimit = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsConfigError(err), "got %v", err)
		})
	}
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "error")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}
