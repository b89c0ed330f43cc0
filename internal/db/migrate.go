package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations is the embedded directory of goose SQL migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewMigrator returns a goose provider over the embedded migrations.
// Versions are tracked in goose's own table.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, Migrations())
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return p, nil
}

// Migrate applies pending migrations and returns the files applied by this call.
func Migrate(ctx context.Context, db *sql.DB, logger zerolog.Logger) ([]string, error) {
	p, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	var partial *goose.PartialError
	if errors.As(err, &partial) {
		results = partial.Applied
	}
	applied := make([]string, 0, len(results))
	for _, r := range results {
		name := path.Base(r.Source.Path)
		logger.Info().Int64("version", r.Source.Version).Str("file", name).Dur("took", r.Duration).Msg("Applied migration")
		applied = append(applied, name)
	}
	if err != nil {
		return applied, fmt.Errorf("migrating database: %w", err)
	}
	return applied, nil
}
