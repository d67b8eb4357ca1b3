package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/mcpsync/pkg/errors"
)

type migration struct {
	version  int
	postgres string
	sqlite   string
}

func (m migration) sql(d Dialect) string {
	if d == DialectPostgres {
		return m.postgres
	}
	return m.sqlite
}

// migrations are applied in order and recorded in schema_versions.
var migrations = []migration{
	{
		version: 1,
		postgres: `
CREATE TABLE IF NOT EXISTS servers (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL,
    description            TEXT NOT NULL DEFAULT '',
    category               TEXT NOT NULL DEFAULT 'other',
    tags                   JSONB NOT NULL DEFAULT '[]',
    package_registry       TEXT,
    package_name           TEXT,
    package_download_count BIGINT,
    github_url             TEXT,
    github_stars           BIGINT,
    external_url           TEXT,
    api_documentation      JSONB NOT NULL DEFAULT '{}',
    created_at             TIMESTAMPTZ NOT NULL,
    updated_at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_servers_category ON servers(category);

CREATE TABLE IF NOT EXISTS server_install_instructions (
    id              BIGSERIAL PRIMARY KEY,
    server_id       TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
    platform        TEXT NOT NULL,
    icon_url        TEXT,
    install_command TEXT NOT NULL,
    sort_order      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_install_instructions_server ON server_install_instructions(server_id, sort_order);
`,
		sqlite: `
CREATE TABLE IF NOT EXISTS servers (
    id                     TEXT PRIMARY KEY,
    name                   TEXT NOT NULL,
    description            TEXT NOT NULL DEFAULT '',
    category               TEXT NOT NULL DEFAULT 'other',
    tags                   TEXT NOT NULL DEFAULT '[]',
    package_registry       TEXT,
    package_name           TEXT,
    package_download_count INTEGER,
    github_url             TEXT,
    github_stars           INTEGER,
    external_url           TEXT,
    api_documentation      TEXT NOT NULL DEFAULT '{}',
    created_at             TEXT NOT NULL,
    updated_at             TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_servers_category ON servers(category);

CREATE TABLE IF NOT EXISTS server_install_instructions (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    server_id       TEXT NOT NULL REFERENCES servers(id) ON DELETE CASCADE,
    platform        TEXT NOT NULL,
    icon_url        TEXT,
    install_command TEXT NOT NULL,
    sort_order      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_install_instructions_server ON server_install_instructions(server_id, sort_order);
`,
	},
}

// SchemaVersion returns the highest migration version known to this build.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies any unapplied migrations in order. It is idempotent.
func (s *Store) Migrate(ctx context.Context) (applied int, err error) {
	createVersions := `CREATE TABLE IF NOT EXISTS schema_versions (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, createVersions); err != nil {
		return 0, errors.WrapResource("create", "table", "schema_versions", err)
	}

	for _, m := range migrations {
		var count int
		if err := s.db.GetContext(ctx, &count, s.db.Rebind(`SELECT COUNT(*) FROM schema_versions WHERE version = ?`), m.version); err != nil {
			return applied, errors.WrapResource("check", "migration", fmt.Sprint(m.version), err)
		}
		if count > 0 {
			continue
		}

		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return applied, errors.WrapResource("begin", "migration", fmt.Sprint(m.version), err)
		}
		if _, err := tx.ExecContext(ctx, m.sql(s.dialect)); err != nil {
			_ = tx.Rollback()
			return applied, errors.WrapResource("apply", "migration", fmt.Sprint(m.version), err)
		}
		record := tx.Rebind(`INSERT INTO schema_versions(version, applied_at) VALUES(?, ?)`)
		if _, err := tx.ExecContext(ctx, record, m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return applied, errors.WrapResource("record", "migration", fmt.Sprint(m.version), err)
		}
		if err := tx.Commit(); err != nil {
			return applied, errors.WrapResource("commit", "migration", fmt.Sprint(m.version), err)
		}

		s.logger.Info().Int("version", m.version).Str("dialect", s.dialect.String()).Msg("Applied migration")
		applied++
	}
	return applied, nil
}
