// Package sqlfile provides the "sqlfile" store driver, which exports a dataset
// as T-SQL load scripts for SQL Server.
package sqlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/store"
)

// DefaultDatabase is the target database of the scripts when none is configured.
const DefaultDatabase = "ArteCryptoAuctions"

func init() {
	store.Register("sqlfile", open)
}

func open(_ context.Context, cfg config.OutputConfig, _ clock.Clock) (*store.Sinks, error) {
	e, err := NewExporter(cfg.SQLFile)
	if err != nil {
		return nil, err
	}
	return &store.Sinks{Sink: e, Ping: e.Ping}, nil
}

// Exporter writes the load scripts of a dataset into a directory. Existing
// scripts are replaced.
type Exporter struct {
	dir      string
	database string
}

// NewExporter creates cfg.Dir if needed and returns an Exporter for it.
func NewExporter(cfg config.SQLFileConfig) (*Exporter, error) {
	if cfg.Dir == "" {
		return nil, errors.New("sqlfile: output directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	database := cfg.Database
	if database == "" {
		database = DefaultDatabase
	}
	return &Exporter{dir: cfg.Dir, database: database}, nil
}

// Write renders every script to a temporary file and renames them into place
// once all succeeded.
func (e *Exporter) Write(ctx context.Context, ds *dataset.Dataset) error {
	type staged struct{ tmp, final string }
	var files []staged
	defer func() {
		for _, f := range files {
			os.Remove(f.tmp)
		}
	}()

	for _, s := range scripts(ds) {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := staged{
			tmp:   filepath.Join(e.dir, "."+s.name+".tmp"),
			final: filepath.Join(e.dir, s.name),
		}
		if err := os.WriteFile(f.tmp, []byte(s.render(e.database, ds)), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", s.name, err)
		}
		files = append(files, f)
	}

	for _, f := range files {
		if err := os.Rename(f.tmp, f.final); err != nil {
			return fmt.Errorf("renaming %s: %w", f.final, err)
		}
	}
	return nil
}

// Ping checks that the output directory still exists.
func (e *Exporter) Ping(context.Context) error {
	fi, err := os.Stat(e.dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", e.dir)
	}
	return nil
}
