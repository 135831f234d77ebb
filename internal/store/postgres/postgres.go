// Package postgres provides the "postgres" store driver.
package postgres

import (
	"context"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/store"
	"github.com/jensholdgaard/auction-datagen/internal/store/sqldb"
)

func init() {
	store.Register("postgres", open)
}

func open(ctx context.Context, cfg config.OutputConfig, clk clock.Clock) (*store.Sinks, error) {
	db, err := Connect(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	w := sqldb.NewWriter(db, sqldb.Postgres, clk)
	if cfg.CreateSchema {
		if err := w.CreateSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &store.Sinks{Sink: w, Closer: db, Ping: w.Ping}, nil
}

// Connect opens and verifies a Postgres connection with OTEL instrumentation.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	return connect(ctx, cfg.DSN())
}

func connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	raw, err := otelsql.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The wrapped driver has a generated name; sqlx needs the real one to
	// pick $n bind variables.
	db := sqlx.NewDb(raw, "postgres")

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
