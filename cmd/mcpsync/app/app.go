// Package app provides the application context and dependency management
// for the mcpsync CLI. It centralizes configuration, logging, the store
// and the sync client, and owns their lifecycle.
package app

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync"
	"github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/internal/metrics"
	"github.com/agentstation/mcpsync/internal/store/memory"
	"github.com/agentstation/mcpsync/internal/store/sqlstore"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/store"
	pkgsync "github.com/agentstation/mcpsync/pkg/sync"
)

// App represents the mcpsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config  *Config
	logger  *zerolog.Logger
	metrics *metrics.Recorder
	out     io.Writer

	// Client (lazy-initialized, singleton)
	mu     sync.Mutex
	client application.Client
	closer func() error
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the
// default config file; use WithConfig to replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		metrics: metrics.New(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ErrorDisplayLimit returns how many entry errors a summary prints.
func (a *App) ErrorDisplayLimit() int {
	return a.config.ErrorDisplayLimit
}

// AutoMigrate reports whether sync applies pending migrations first.
func (a *App) AutoMigrate() bool {
	return a.config.AutoMigrate
}

// Metrics returns the recorder every run reports to.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Credential reports the state of the directory credential.
func (a *App) Credential() *auth.Status {
	return auth.NewChecker(EnvToken, a.config.RequireToken).Check(a.config.Token, a.config.TokenSource)
}

// WriteMetrics writes the run metrics to metrics.textfile when configured.
func (a *App) WriteMetrics() error {
	if a.config.MetricsTextfile == "" {
		return nil
	}
	return a.metrics.WriteTextfile(a.config.MetricsTextfile)
}

// Client returns the sync client, validating the configuration and opening
// the store on first use. It is thread-safe and creates one instance.
func (a *App) Client(ctx context.Context) (application.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	client, err := mcpsync.New(
		mcpsync.WithStore(st),
		mcpsync.WithSourceURL(a.config.SourceURL),
		mcpsync.WithToken(a.config.Token),
		mcpsync.WithTokenRequired(a.config.RequireToken),
		mcpsync.WithPageDelay(a.config.PageDelay),
		mcpsync.WithHTTPTimeout(a.config.HTTPTimeout),
		mcpsync.WithProgressInterval(a.config.ProgressInterval),
		mcpsync.WithMetrics(a.metrics),
		mcpsync.WithLogger(a.logger),
	)
	if err != nil {
		_ = st.Close()
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = &timedClient{Client: client, timeout: a.config.SyncTimeout}
	a.closer = client.Close
	return a.client, nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.config.DatabaseDriver == DriverMemory {
		a.logger.Warn().Msg("Using the in-memory store: nothing is persisted")
		return memory.New(), nil
	}

	dialect, err := sqlstore.ParseDialect(a.config.DatabaseDriver)
	if err != nil {
		return nil, errors.NewConfigError("database", err.Error(), err)
	}
	return sqlstore.Open(ctx, dialect, a.config.DatabaseDSN, sqlstore.WithLogger(a.logger))
}

// Shutdown releases the store. It is safe to call more than once.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	a.client = nil
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(client application.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}

// timedClient applies the configured run timeout unless the caller sets one.
type timedClient struct {
	*mcpsync.Client
	timeout time.Duration
}

func (c *timedClient) Sync(ctx context.Context, opts ...pkgsync.Option) (*mcpsync.Report, error) {
	if c.timeout > 0 {
		opts = append([]pkgsync.Option{pkgsync.WithTimeout(c.timeout)}, opts...)
	}
	return c.Client.Sync(ctx, opts...)
}
