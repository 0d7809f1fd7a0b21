package database

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/hanvq/nungdict/schemas"
)

// Migrate applies the embedded schema migrations that have not run yet,
// in file name order, each inside its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			filename text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}

	files, err := schemas.Migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("schemas.Migrations.ReadDir() > %w", err)
	}
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		var applied bool
		err := db.GetContext(ctx, &applied,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, name)
		if err != nil {
			return fmt.Errorf("db.GetContext(schema_migrations) > %w", err)
		}
		if applied {
			continue
		}

		statements, err := schemas.Migrations.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("schemas.Migrations.ReadFile(%s) > %w", name, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("db.BeginTxx() > %w", err)
		}
		if _, err := tx.ExecContext(ctx, string(statements)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("tx.ExecContext(%s) > %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("tx.ExecContext(record %s) > %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("tx.Commit() > %w", err)
		}
		slog.Info("applied migration", slog.String("filename", name))
	}
	return nil
}
