// Package auction simulates bidding on completed auctions and settles them
// into funds reservations, ledger entries and ownership transfers.
package auction

import (
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/money"
)

const instrumentationName = "github.com/jensholdgaard/auction-datagen/internal/auction"

// Errors returned by the simulation.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrMissingDependency = fmt.Errorf("%w: missing dependency", ErrConfiguration)
	ErrDanglingReference = errors.New("dangling reference")
)

// Params configures bid generation and settlement.
type Params struct {
	// Seed is the run seed; every auction derives its own stream from it.
	Seed int64
	// Lambda is the mean number of bids per auction.
	Lambda float64
	// MinIncrementPct is the minimum step between bids, in percent of the
	// current price.
	MinIncrementPct float64
	// ZeroBidInjectionProb is the chance that an open auction whose Poisson
	// draw is zero still receives one bid.
	ZeroBidInjectionProb float64
	// MaxSellerRedraws bounds how often a bidder equal to the seller is redrawn.
	MaxSellerRedraws int
	// FeePct is the platform fee in percent of the winning amount.
	FeePct float64
	// Precision is the number of fractional digits of monetary values.
	Precision int32
	// Workers bounds concurrent bid generation. Values below 1 mean 1.
	Workers int
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Seed:                 42,
		Lambda:               20,
		MinIncrementPct:      5,
		ZeroBidInjectionProb: 0.05,
		MaxSellerRedraws:     10,
		FeePct:               2,
		Precision:            money.DefaultPrecision,
		Workers:              1,
	}
}

// Engine runs bid generation and settlement.
type Engine struct {
	params Params
	logger *slog.Logger
	tracer trace.Tracer

	bidsGenerated  metric.Int64Counter
	bidsPerAuction metric.Int64Histogram
	settled        metric.Int64Counter
	unsold         metric.Int64Counter
}

// NewEngine returns an Engine using the given providers for spans and metrics.
func NewEngine(params Params, logger *slog.Logger, tp trace.TracerProvider, mp metric.MeterProvider) (*Engine, error) {
	if params.Workers < 1 {
		params.Workers = 1
	}
	meter := mp.Meter(instrumentationName)

	bidsGenerated, err := meter.Int64Counter("auctiongen.bids.generated",
		metric.WithDescription("Bids generated across all auctions."))
	if err != nil {
		return nil, fmt.Errorf("creating bids counter: %w", err)
	}
	bidsPerAuction, err := meter.Int64Histogram("auctiongen.bids.per_auction",
		metric.WithDescription("Bids generated per auction."))
	if err != nil {
		return nil, fmt.Errorf("creating bids histogram: %w", err)
	}
	settled, err := meter.Int64Counter("auctiongen.auctions.settled",
		metric.WithDescription("Completed auctions settled with a winner."))
	if err != nil {
		return nil, fmt.Errorf("creating settled counter: %w", err)
	}
	unsold, err := meter.Int64Counter("auctiongen.auctions.unsold",
		metric.WithDescription("Completed auctions that closed without bids."))
	if err != nil {
		return nil, fmt.Errorf("creating unsold counter: %w", err)
	}

	return &Engine{
		params:         params,
		logger:         logger,
		tracer:         tp.Tracer(instrumentationName),
		bidsGenerated:  bidsGenerated,
		bidsPerAuction: bidsPerAuction,
		settled:        settled,
		unsold:         unsold,
	}, nil
}

// Params returns the engine parameters.
func (e *Engine) Params() Params { return e.params }
