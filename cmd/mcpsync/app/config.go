package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/mcpsync/internal/store/sqlstore"
	"github.com/agentstation/mcpsync/pkg/constants"
	pkgerrors "github.com/agentstation/mcpsync/pkg/errors"
)

// Environment variables read outside the dotted config keys.
const (
	EnvToken       = "PULSEMCP_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// DriverMemory keeps the store in process memory.
const DriverMemory = "memory"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Source directory
	SourceURL    string
	Token        string
	TokenSource  string // "env" or "config"
	RequireToken bool
	PageDelay    time.Duration
	HTTPTimeout  time.Duration

	// Store
	DatabaseDriver string
	DatabaseDSN    string
	AutoMigrate    bool

	// Sync
	ProgressInterval  int
	ErrorDisplayLimit int
	SyncTimeout       time.Duration
	MetricsTextfile   string

	// Logging configuration
	LogLevel      string
	LogFormat     string
	LogOutput     string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.mcpsync.yaml or ./.mcpsync.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("source.token", "SOURCE_TOKEN", EnvToken); err != nil {
		return nil, pkgerrors.NewConfigError("env", "binding source.token", err)
	}
	if err := v.BindEnv("database.dsn", "DATABASE_DSN", EnvDatabaseURL); err != nil {
		return nil, pkgerrors.NewConfigError("env", "binding database.dsn", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".mcpsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly named file must exist and parse.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.NewConfigError("config file", err.Error(), err)
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		SourceURL:    v.GetString("source.url"),
		Token:        strings.TrimSpace(v.GetString("source.token")),
		RequireToken: v.GetBool("source.require_token"),
		PageDelay:    v.GetDuration("source.page_delay"),
		HTTPTimeout:  v.GetDuration("source.timeout"),

		DatabaseDriver: strings.ToLower(v.GetString("database.driver")),
		DatabaseDSN:    v.GetString("database.dsn"),
		AutoMigrate:    v.GetBool("database.auto_migrate"),

		ProgressInterval:  v.GetInt("sync.progress_interval"),
		ErrorDisplayLimit: v.GetInt("sync.error_display_limit"),
		SyncTimeout:       v.GetDuration("sync.timeout"),
		MetricsTextfile:   v.GetString("metrics.textfile"),

		Format: v.GetString("output"),

		LogLevel:      getEnvOrDefault("LOG_LEVEL", v.GetString("log.level")),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput:     getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),
		LogMaxSizeMB:  v.GetInt("log.max_size_mb"),
		LogMaxBackups: v.GetInt("log.max_backups"),
		LogMaxAgeDays: v.GetInt("log.max_age_days"),
	}

	if config.Token != "" {
		config.TokenSource = "config"
		if os.Getenv(EnvToken) != "" || os.Getenv("SOURCE_TOKEN") != "" {
			config.TokenSource = "env"
		}
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", constants.DefaultSourceURL)
	v.SetDefault("source.require_token", false)
	v.SetDefault("source.page_delay", constants.DefaultPageDelay)
	v.SetDefault("source.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("sync.progress_interval", constants.ProgressInterval)
	v.SetDefault("sync.error_display_limit", constants.ErrorDisplayLimit)
	v.SetDefault("sync.timeout", constants.SyncTimeout)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.max_size_mb", constants.LogRotationSizeMB)
	v.SetDefault("log.max_backups", constants.LogRotationBackups)
	v.SetDefault("log.max_age_days", constants.LogRotationAgeDays)
}

// Validate checks the configuration before anything touches the network
// or the database.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMemory:
	default:
		if _, err := sqlstore.ParseDialect(c.DatabaseDriver); err != nil {
			return pkgerrors.NewConfigError("database", err.Error(), err)
		}
		if c.DatabaseDSN == "" {
			return pkgerrors.NewConfigError("database",
				"a DSN is required: set database.dsn or "+EnvDatabaseURL, nil)
		}
	}

	if c.RequireToken && c.Token == "" {
		return pkgerrors.NewConfigError("source",
			EnvToken+" is required when source.require_token is set", pkgerrors.ErrCredentialRequired)
	}
	if c.SourceURL == "" {
		return pkgerrors.NewConfigError("source", "source.url cannot be empty", nil)
	}
	if c.PageDelay < 0 {
		return pkgerrors.NewConfigError("source", "source.page_delay cannot be negative", nil)
	}
	if c.HTTPTimeout <= 0 {
		return pkgerrors.NewConfigError("source", "source.timeout must be positive", nil)
	}
	if c.ProgressInterval <= 0 {
		return pkgerrors.NewConfigError("sync", "sync.progress_interval must be positive", nil)
	}
	if c.ErrorDisplayLimit < 0 {
		return pkgerrors.NewConfigError("sync", "sync.error_display_limit cannot be negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a set variable.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
