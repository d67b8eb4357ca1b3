// Package mcpsync reconciles the PulseMCP directory of MCP servers into a
// local relational store.
//
// A Client pages through the directory, derives a stable identity for every
// entry, classifies it, upserts it into the servers table and replaces its
// install instructions. Entry failures are isolated and counted; a page
// failure ends the run with the statistics gathered so far.
//
//	st := memory.New()
//	client, err := mcpsync.New(mcpsync.WithStore(st), mcpsync.WithToken(os.Getenv("PULSEMCP_API_KEY")))
//	if err != nil {
//		return err
//	}
//	report, err := client.Sync(ctx)
package mcpsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/internal/sources/pulsemcp"
	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/reconcile"
	"github.com/agentstation/mcpsync/pkg/store"
	pkgsync "github.com/agentstation/mcpsync/pkg/sync"
)

// Client reconciles the remote directory into a store.
type Client struct {
	config *config
	store  store.Store
	pager  pkgsync.Pager
	engine *reconcile.Engine
	hooks  *hooks
}

// Migrator is implemented by stores that manage their own schema.
type Migrator interface {
	Migrate(ctx context.Context) (int, error)
}

// New creates a Client. A missing store or a missing required token is a
// configuration error and nothing is fetched.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if cfg.store == nil {
		return nil, errors.NewConfigError("store", "a store is required", nil)
	}
	if cfg.requireToken && cfg.token == "" && cfg.pager == nil {
		return nil, errors.NewConfigError("source", "a bearer token is required", errors.ErrCredentialRequired)
	}

	engineOpts := []reconcile.Option{reconcile.WithClock(cfg.now)}
	if cfg.logger != nil {
		engineOpts = append(engineOpts, reconcile.WithLogger(cfg.logger))
	}
	engine, err := reconcile.NewEngine(cfg.store, engineOpts...)
	if err != nil {
		return nil, err
	}

	pager := cfg.pager
	if pager == nil {
		pager = newDirectoryClient(cfg)
	}

	return &Client{
		config: cfg,
		store:  cfg.store,
		pager:  pager,
		engine: engine,
		hooks:  newHooks(),
	}, nil
}

func newDirectoryClient(cfg *config) *pulsemcp.Client {
	opts := []pulsemcp.Option{
		pulsemcp.WithBaseURL(cfg.sourceURL),
		pulsemcp.WithToken(cfg.token),
		pulsemcp.WithPageDelay(cfg.pageDelay),
		pulsemcp.WithTimeout(cfg.httpTimeout),
	}
	if cfg.httpClient != nil {
		opts = append(opts, pulsemcp.WithHTTPClient(cfg.httpClient))
	}
	if cfg.logger != nil {
		opts = append(opts, pulsemcp.WithLogger(cfg.logger))
	}
	return pulsemcp.New(opts...)
}

// Store returns the store the client writes to.
func (c *Client) Store() store.Store {
	return c.store
}

// Sync runs one reconciliation pass and reports its result together with
// the table counts before and after. The error return is reserved for
// failures before the run starts; everything that happens during the run,
// including page failures and interruption, is described by the report.
func (c *Client) Sync(ctx context.Context, opts ...pkgsync.Option) (*Report, error) {
	logger := c.logger(ctx)

	before, err := store.CountAll(ctx, c.store)
	if err != nil {
		return nil, errors.WrapResource("count", "table", "", err)
	}

	syncOpts := []pkgsync.Option{
		pkgsync.WithProgressInterval(c.config.progressInterval),
		pkgsync.WithClock(c.config.now),
		pkgsync.WithLogger(logger),
	}
	if c.config.metrics != nil {
		syncOpts = append(syncOpts, pkgsync.WithObserver(c.config.metrics))
	}

	syncer, err := pkgsync.New(c.pager, &hookedApplier{engine: c.engine, hooks: c.hooks}, append(syncOpts, opts...)...)
	if err != nil {
		return nil, err
	}

	result := syncer.Run(ctx)
	report := &Report{Result: result, Before: before}

	// Counting after an interrupt still has to reach the store.
	after, err := store.CountAll(context.WithoutCancel(ctx), c.store)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count tables after sync")
		return report, nil
	}
	report.After = after
	report.Counted = true
	return report, nil
}

// Status returns the row counts of both tables.
func (c *Client) Status(ctx context.Context) (store.Counts, error) {
	return store.CountAll(ctx, c.store)
}

// Migrate brings the store schema up to date and returns how many
// migrations were applied. Stores without a schema report zero.
func (c *Client) Migrate(ctx context.Context) (int, error) {
	m, ok := c.store.(Migrator)
	if !ok {
		return 0, nil
	}
	return m.Migrate(ctx)
}

// Close releases the store.
func (c *Client) Close() error {
	return c.store.Close()
}

// OnServerAdded registers a callback for servers inserted by a run.
func (c *Client) OnServerAdded(fn ServerHook) {
	c.hooks.OnServerAdded(fn)
}

// OnServerUpdated registers a callback for servers updated by a run.
func (c *Client) OnServerUpdated(fn ServerHook) {
	c.hooks.OnServerUpdated(fn)
}

// OnServerSkipped registers a callback for entries whose write was not applied.
func (c *Client) OnServerSkipped(fn ServerHook) {
	c.hooks.OnServerSkipped(fn)
}

func (c *Client) logger(ctx context.Context) *zerolog.Logger {
	if c.config.logger != nil {
		return c.config.logger
	}
	return logging.FromContext(ctx)
}

// hookedApplier runs the engine and fires the client hooks for every
// entry it applied.
type hookedApplier struct {
	engine *reconcile.Engine
	hooks  *hooks
}

func (a *hookedApplier) Apply(ctx context.Context, entry catalog.SourceEntry) (reconcile.Applied, error) {
	applied, err := a.engine.Apply(ctx, entry)
	if err != nil {
		return applied, err
	}
	a.hooks.trigger(ctx, applied)
	return applied, nil
}
