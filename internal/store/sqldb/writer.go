package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/store"
)

// maxParams keeps every statement under the bind-variable limits of the
// supported databases.
const maxParams = 900

// Writer persists a dataset in one transaction. A database holds a single
// run: writing the same run again returns store.ErrRunExists, writing a
// different one fails.
type Writer struct {
	db      *sqlx.DB
	dialect Dialect
	clock   clock.Clock
}

// NewWriter returns a Writer on db. clk stamps the run row.
func NewWriter(db *sqlx.DB, d Dialect, clk clock.Clock) *Writer {
	return &Writer{db: db, dialect: d, clock: clk}
}

// CreateSchema creates any missing table.
func (w *Writer) CreateSchema(ctx context.Context) error {
	for _, stmt := range w.dialect.DDL() {
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Write inserts every table of ds in dependency order.
func (w *Writer) Write(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var existing []string
	if err := tx.SelectContext(ctx, &existing, "SELECT run_id FROM "+runTable); err != nil {
		return fmt.Errorf("reading runs: %w", err)
	}
	runID := ds.RunID.String()
	for _, id := range existing {
		if id == runID {
			return fmt.Errorf("run %s: %w", runID, store.ErrRunExists)
		}
	}
	if len(existing) > 0 {
		return fmt.Errorf("database already holds run %s", existing[0])
	}

	for _, t := range tables {
		if err := insertRows(ctx, tx, t, t.rows(ds)); err != nil {
			return fmt.Errorf("inserting %s: %w", t.name, err)
		}
	}

	run := table{name: runTable, columns: runColumns}
	_, err = tx.ExecContext(ctx, tx.Rebind(run.insert(1)),
		runID, ds.Seed, utc(ds.AsOf), utc(w.clock.Now()))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Ping verifies the connection.
func (w *Writer) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

func insertRows(ctx context.Context, tx *sqlx.Tx, t table, rows [][]any) error {
	per := max(1, maxParams/len(t.columns))
	for start := 0; start < len(rows); start += per {
		batch := rows[start:min(start+per, len(rows))]
		args := make([]any, 0, len(batch)*len(t.columns))
		for _, r := range batch {
			args = append(args, r...)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(t.insert(len(batch))), args...); err != nil {
			return err
		}
	}
	return nil
}
