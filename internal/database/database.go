// Package database connects to the SQL-backed configuration document store.
package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

// Drivers that can hold config documents.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// IsSupportedDriver reports whether driver has a config_documents schema.
func IsSupportedDriver(driver string) bool {
	return driver == DriverPostgres || driver == DriverMySQL
}

// Connect opens the pool and pings it within ctx.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if !IsSupportedDriver(cfg.Driver) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, "failed to ping database")
	}

	return db, nil
}
