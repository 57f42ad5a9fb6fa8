// Package database provides review persistence for the insights
// service on top of sqlx: PostgreSQL in production, SQLite for
// development and tests.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           //nolint:blankimports // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" //nolint:blankimports // SQLite driver

	"github.com/guestpulse/insights/internal/config"
)

const (
	// DriverPostgres selects the production backend.
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded backend.
	DriverSQLite = "sqlite3"

	defaultPingTimeout = 5 * time.Second
)

// Connect opens the configured database, applies pool settings and
// verifies the connection with a ping.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var dsn string
	switch cfg.Driver {
	case DriverPostgres:
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)
	case DriverSQLite:
		dsn = cfg.Path
		if dsn == "" {
			dsn = "insights.db"
		}
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}
	return db, nil
}
