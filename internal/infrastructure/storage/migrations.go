package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	Up      string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_articles",
		Up: `
			CREATE TABLE IF NOT EXISTS articles (
				id UUID PRIMARY KEY,
				url TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NULL,
				image_url TEXT NULL,
				submitted_by TEXT NOT NULL,
				submitted_at TIMESTAMPTZ NOT NULL,
				channel_id TEXT NOT NULL,
				categories TEXT[] NOT NULL DEFAULT '{}',
				CONSTRAINT articles_url_key UNIQUE (url)
			);
		`,
	},
	{
		Version: 2,
		Name:    "index_articles_submitted_at",
		Up:      `CREATE INDEX IF NOT EXISTS articles_submitted_at_idx ON articles (submitted_at DESC);`,
	},
}

// Migrate applies pending migrations in version order and returns how many ran.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, m := range pending(current) {
		if err := runMigration(ctx, db, m); err != nil {
			return applied, fmt.Errorf("run migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied++
	}
	return applied, nil
}

func pending(current int) []Migration {
	sorted := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if m.Version > current {
			sorted = append(sorted, m)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return sorted
}

func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
