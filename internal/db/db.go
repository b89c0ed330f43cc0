package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"streamlearn/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx stdlib driver and checks the connection.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// DSN adjusts the connection string for the environment: SSL is disabled for
// local development, and elsewhere the simple protocol is used so that
// transaction poolers like pgbouncer work without server-side prepared statements.
func DSN(cfg *config.Config) string {
	dsn := devSSL(cfg)
	if !cfg.IsDevelopment() && !strings.Contains(dsn, "prefer_simple_protocol") {
		dsn = appendParam(dsn, "prefer_simple_protocol=true")
	}
	return dsn
}

// QueueDSN is the connection string for the lib/pq driver used by the queue
// workers. lib/pq forwards unknown keys to the server, so only sslmode is added.
func QueueDSN(cfg *config.Config) string {
	return devSSL(cfg)
}

func devSSL(cfg *config.Config) string {
	dsn := cfg.DBConnectionString
	if cfg.IsDevelopment() && !strings.Contains(dsn, "sslmode") {
		dsn = appendParam(dsn, "sslmode=disable")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	isURL := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	switch {
	case !isURL:
		return dsn + " " + param
	case strings.Contains(dsn, "?"):
		return dsn + "&" + param
	default:
		return dsn + "?" + param
	}
}
