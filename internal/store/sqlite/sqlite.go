// Package sqlite provides the "sqlite" store driver backed by the pure-Go
// modernc.org/sqlite engine.
package sqlite

import (
	"context"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/store"
	"github.com/jensholdgaard/auction-datagen/internal/store/sqldb"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
	store.Register(driverName, open)
}

func open(ctx context.Context, cfg config.OutputConfig, clk clock.Clock) (*store.Sinks, error) {
	db, err := Connect(ctx, cfg.SQLite)
	if err != nil {
		return nil, err
	}
	w := sqldb.NewWriter(db, sqldb.SQLite, clk)
	if cfg.CreateSchema {
		if err := w.CreateSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &store.Sinks{Sink: w, Closer: db, Ping: w.Ping}, nil
}

// Connect opens the database file at cfg.Path with foreign keys enforced.
func Connect(ctx context.Context, cfg config.SQLiteConfig) (*sqlx.DB, error) {
	dsn := cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	raw, err := otelsql.Open(driverName, dsn,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; a second connection would only wait on the lock.
	raw.SetMaxOpenConns(1)

	db := sqlx.NewDb(raw, driverName)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}
