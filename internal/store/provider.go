package store

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jensholdgaard/auction-datagen/internal/clock"
	"github.com/jensholdgaard/auction-datagen/internal/config"
)

// Sinks groups what a store driver returns.
type Sinks struct {
	Sink Sink
	// Closer is called to release underlying resources (e.g. DB connection).
	Closer io.Closer
	// Ping checks the underlying connection health.
	Ping func(ctx context.Context) error
}

// Driver is a function that opens an output and returns its Sinks.
type Driver func(ctx context.Context, cfg config.OutputConfig, clk clock.Clock) (*Sinks, error)

// registry maps driver names to their factory functions.
var registry = map[string]Driver{}

// Register adds a named driver to the global registry.
// It is intended to be called from init() in each driver package.
func Register(name string, d Driver) {
	registry[name] = d
}

// Open selects the driver specified in cfg.Driver and returns its Sinks.
// Missing Closer and Ping are filled with no-ops.
func Open(ctx context.Context, cfg config.OutputConfig, clk clock.Clock) (*Sinks, error) {
	d, ok := registry[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown store driver %q (registered: %v)", cfg.Driver, registeredNames())
	}
	s, err := d(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}
	if s.Closer == nil {
		s.Closer = nopCloser{}
	}
	if s.Ping == nil {
		s.Ping = func(context.Context) error { return nil }
	}
	return s, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
