// Package sqlstore implements store.Store on PostgreSQL (pgx) and SQLite
// (modernc) through sqlx. Queries are written with ? placeholders and
// rebound for the active driver.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/agentstation/mcpsync/pkg/catalog"
	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
	"github.com/agentstation/mcpsync/pkg/logging"
	"github.com/agentstation/mcpsync/pkg/store"
)

const serverColumns = `id, name, description, category, tags, package_registry, package_name,
	package_download_count, github_url, github_stars, external_url, api_documentation,
	created_at, updated_at`

// Store is a SQL-backed store.Store.
type Store struct {
	db      *sqlx.DB
	q       sqlx.ExtContext
	tx      *sqlx.Tx
	dialect Dialect
	logger  *zerolog.Logger
}

var _ store.Store = (*Store)(nil)

type config struct {
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
	logger   *zerolog.Logger
}

// Option configures Open.
type Option func(*config)

// WithPool sets the connection pool limits.
func WithPool(maxOpen, maxIdle int, lifetime time.Duration) Option {
	return func(c *config) {
		c.maxOpen = maxOpen
		c.maxIdle = maxIdle
		c.lifetime = lifetime
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Open connects to the database and verifies the connection. It does not
// migrate the schema.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Store, error) {
	if dsn == "" {
		return nil, errors.NewConfigError("database", "dsn is required", nil)
	}

	cfg := &config{
		maxOpen:  constants.MaxOpenConns,
		maxIdle:  constants.MaxIdleConns,
		lifetime: constants.ConnMaxLifetime,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sqlx.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.WrapResource("open", "database", dialect.String(), err)
	}

	if dialect == DialectSQLite {
		// One writer; keeps the foreign_keys pragma on the only connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.maxOpen)
		db.SetMaxIdleConns(cfg.maxIdle)
		db.SetConnMaxLifetime(cfg.lifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("connect", "database", dialect.String(), err)
	}

	if dialect == DialectSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, errors.WrapResource("configure", "database", dialect.String(), err)
		}
	}

	return &Store{db: db, q: db, dialect: dialect, logger: cfg.logger}, nil
}

// Dialect returns the store dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// FindByID implements store.Store.
func (s *Store) FindByID(ctx context.Context, id string) (*catalog.Record, error) {
	var row serverRow
	query := s.q.Rebind(`SELECT ` + serverColumns + ` FROM servers WHERE id = ?`)
	if err := sqlx.GetContext(ctx, s.q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WrapResource("find", "server", id, err)
	}
	return row.record()
}

// Insert implements store.Store. An insert that loses a race against a
// concurrent writer of the same ID reports no record.
func (s *Store) Insert(ctx context.Context, rec catalog.Record) (*catalog.Record, error) {
	tags, err := encodeJSON(rec.Tags, "[]")
	if err != nil {
		return nil, errors.WrapResource("insert", "server", rec.ID, err)
	}
	doc, err := encodeJSON(rec.APIDocumentation, "{}")
	if err != nil {
		return nil, errors.WrapResource("insert", "server", rec.ID, err)
	}

	query := s.q.Rebind(`INSERT INTO servers (` + serverColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	res, err := s.q.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Description,
		rec.Category.String(),
		tags,
		rec.PackageRegistry,
		rec.PackageName,
		rec.PackageDownloadCount,
		rec.GitHubURL,
		rec.GitHubStars,
		rec.ExternalURL,
		doc,
		s.timeArg(rec.CreatedAt.Time),
		s.timeArg(rec.UpdatedAt.Time),
	)
	if err != nil {
		return nil, errors.WrapResource("insert", "server", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, rec.ID)
}

// Update implements store.Store. created_at is never written.
func (s *Store) Update(ctx context.Context, id string, f catalog.RecordFields) (*catalog.Record, error) {
	tags, err := encodeJSON(f.Tags, "[]")
	if err != nil {
		return nil, errors.WrapResource("update", "server", id, err)
	}
	doc, err := encodeJSON(f.APIDocumentation, "{}")
	if err != nil {
		return nil, errors.WrapResource("update", "server", id, err)
	}

	query := s.q.Rebind(`UPDATE servers SET
		name = ?, description = ?, category = ?, tags = ?, package_registry = ?, package_name = ?,
		package_download_count = ?, github_url = ?, github_stars = ?, external_url = ?,
		api_documentation = ?, updated_at = ?
		WHERE id = ?`)
	res, err := s.q.ExecContext(ctx, query,
		f.Name,
		f.Description,
		f.Category.String(),
		tags,
		f.PackageRegistry,
		f.PackageName,
		f.PackageDownloadCount,
		f.GitHubURL,
		f.GitHubStars,
		f.ExternalURL,
		doc,
		s.timeArg(f.UpdatedAt.Time),
		id,
	)
	if err != nil {
		return nil, errors.WrapResource("update", "server", id, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

// DeleteInstructions implements store.Store.
func (s *Store) DeleteInstructions(ctx context.Context, serverID string) (int, error) {
	query := s.q.Rebind(`DELETE FROM server_install_instructions WHERE server_id = ?`)
	res, err := s.q.ExecContext(ctx, query, serverID)
	if err != nil {
		return 0, errors.WrapResource("delete", "install instructions", serverID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WrapResource("delete", "install instructions", serverID, err)
	}
	return int(n), nil
}

// InsertInstruction implements store.Store.
func (s *Store) InsertInstruction(ctx context.Context, ins catalog.InstallInstruction) error {
	query := s.q.Rebind(`INSERT INTO server_install_instructions
		(server_id, platform, icon_url, install_command, sort_order)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.q.ExecContext(ctx, query, ins.ServerID, ins.Platform, ins.IconURL, ins.InstallCommand, ins.SortOrder); err != nil {
		return errors.WrapResource("insert", "install instruction", ins.ServerID, err)
	}
	return nil
}

// Instructions implements store.Store.
func (s *Store) Instructions(ctx context.Context, serverID string) ([]catalog.InstallInstruction, error) {
	var rows []instructionRow
	query := s.q.Rebind(`SELECT server_id, platform, icon_url, install_command, sort_order
		FROM server_install_instructions WHERE server_id = ? ORDER BY sort_order`)
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, serverID); err != nil {
		return nil, errors.WrapResource("list", "install instructions", serverID, err)
	}

	out := make([]catalog.InstallInstruction, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.instruction())
	}
	return out, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !store.IsKnownTable(table) {
		return 0, errors.NewValidationError("table", table, "unknown table")
	}
	var n int
	// table is one of the known constants, never user input.
	if err := sqlx.GetContext(ctx, s.q, &n, `SELECT COUNT(*) FROM `+table); err != nil {
		return 0, errors.WrapResource("count", "table", table, err)
	}
	return n, nil
}

// InTx implements store.Store. Nested calls join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, q: tx, tx: tx, dialect: s.dialect, logger: s.logger}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn().Err(rbErr).Msg("Rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", "", err)
	}
	return nil
}

// Close implements store.Store. Closing a transaction-scoped store is a no-op.
func (s *Store) Close() error {
	if s.tx != nil {
		return nil
	}
	return s.db.Close()
}

// timeArg converts t for the active driver. SQLite stores RFC 3339 text.
func (s *Store) timeArg(t time.Time) any {
	if s.dialect == DialectSQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

func encodeJSON(v any, empty string) (jsonText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return jsonText(empty), nil
	}
	return jsonText(b), nil
}

func decodeJSON(raw jsonText, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.WrapParse("json", "column", err)
	}
	return nil
}
