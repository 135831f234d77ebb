// Package store persists generated datasets through pluggable sinks.
package store

import (
	"context"
	"errors"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// ErrRunExists is returned by a sink that already holds the run being written.
// Writing the same run twice is a no-op for the caller.
var ErrRunExists = errors.New("run already written")

// Sink writes a complete dataset. A Write either persists every table or
// none of them.
type Sink interface {
	Write(ctx context.Context, ds *dataset.Dataset) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, ds *dataset.Dataset) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, ds *dataset.Dataset) error { return f(ctx, ds) }
