// Package pipeline runs one generation: fixtures, bidding, settlement, wallet
// balances and notifications, in that order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/fixture"
	"github.com/jensholdgaard/auction-datagen/internal/outbox"
	"github.com/jensholdgaard/auction-datagen/internal/telemetry"
	"github.com/jensholdgaard/auction-datagen/internal/wallet"
)

const instrumentationName = "github.com/jensholdgaard/auction-datagen/internal/pipeline"

// Phases reported while a run progresses.
const (
	PhaseFixtures   = "fixtures"
	PhaseBids       = "bids"
	PhaseSettlement = "settlement"
	PhaseWallets    = "wallets"
	PhaseOutbox     = "outbox"
	PhaseGenerated  = "generated"
)

// PhaseReporter receives the name of each phase as it starts.
type PhaseReporter interface {
	SetPhase(phase string)
}

type nopReporter struct{}

func (nopReporter) SetPhase(string) {}

// Deps are the collaborators of a run. Phases may be nil.
type Deps struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Phases         PhaseReporter
}

// FixtureParams maps the simulation settings onto the fixture generators.
func FixtureParams(s config.SimulationConfig) fixture.Params {
	return fixture.Params{
		Seed:                s.Seed,
		Start:               s.StartDate,
		End:                 s.EndDate,
		Users:               s.Users,
		NFTs:                s.NFTs,
		PctNFTsInAuction:    s.PctNFTsInAuction,
		RoleProbs:           s.RoleProbs,
		MultiRoleProb:       s.MultiRoleProb,
		RolesPerUserMin:     s.RolesPerUserMin,
		RolesPerUserMax:     s.RolesPerUserMax,
		EmailsPerUserMin:    s.EmailsPerUserMin,
		EmailsPerUserMax:    s.EmailsPerUserMax,
		PctPrimaryVerified:  s.PctPrimaryVerified,
		EmailDomains:        s.EmailDomains,
		BalanceMin:          s.BalanceMin,
		BalanceMax:          s.BalanceMax,
		ReservedMin:         s.ReservedMin,
		ReservedMax:         s.ReservedMax,
		SuggestedPriceMin:   s.SuggestedPriceMin,
		SuggestedPriceMax:   s.SuggestedPriceMax,
		ContentTypes:        s.ContentTypes,
		DefaultAuctionHours: s.DefaultAuctionHours,
		MinBidIncrementPct:  s.MinBidIncrementPct,
		AuctionStatusProbs:  s.AuctionStatusProbs,
		Precision:           s.MoneyPrecision,
	}
}

// AuctionParams maps the simulation settings onto the auction engine.
func AuctionParams(s config.SimulationConfig) auction.Params {
	return auction.Params{
		Seed:                 s.Seed,
		Lambda:               s.BidsPerAuctionLambda,
		MinIncrementPct:      s.MinBidIncrementPct,
		ZeroBidInjectionProb: s.ZeroBidInjectionProb,
		MaxSellerRedraws:     s.MaxSellerRedraws,
		FeePct:               s.PlatformFeePct,
		Precision:            s.MoneyPrecision,
		Workers:              s.Workers,
	}
}

// Run generates a complete dataset. The same settings always produce the
// same dataset, whatever the number of workers.
func Run(ctx context.Context, s config.SimulationConfig, deps Deps) (*dataset.Dataset, error) {
	phases := deps.Phases
	if phases == nil {
		phases = nopReporter{}
	}
	ctx, span := deps.TracerProvider.Tracer(instrumentationName).Start(ctx, "pipeline.Run",
		trace.WithAttributes(attribute.Int64("auctiongen.seed", s.Seed)),
	)
	defer span.End()
	logger := telemetry.LogWithTrace(ctx, deps.Logger)

	fail := func(phase string, err error) (*dataset.Dataset, error) {
		err = fmt.Errorf("%s: %w", phase, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	engine, err := auction.NewEngine(AuctionParams(s), logger, deps.TracerProvider, deps.MeterProvider)
	if err != nil {
		return fail("setup", err)
	}
	wallets, err := wallet.NewManager(logger, deps.TracerProvider, deps.MeterProvider)
	if err != nil {
		return fail("setup", err)
	}

	asOf := s.AsOf
	if asOf.IsZero() {
		asOf = s.EndDate
	}
	ds := &dataset.Dataset{RunID: dataset.RunID(s.Seed), Seed: s.Seed, AsOf: asOf}
	ids := dataset.NewIDs()

	phases.SetPhase(PhaseFixtures)
	if err := fixture.NewGenerator(FixtureParams(s), logger, deps.TracerProvider).Populate(ctx, ds, ids); err != nil {
		return fail(PhaseFixtures, err)
	}

	phases.SetPhase(PhaseBids)
	pool := dataset.RoleHolders(ds.Roles, ds.UserRoles, dataset.RoleBidder)
	if len(pool) == 0 {
		logger.WarnContext(ctx, "no bidders assigned, every user may bid")
		pool = dataset.UserIDs(ds.Users)
	}
	ds.Bids, err = engine.GenerateBids(ctx, ids, ds.Auctions, ds.NFTs, pool)
	if err != nil {
		return fail(PhaseBids, err)
	}

	phases.SetPhase(PhaseSettlement)
	byAuction := dataset.BidsByAuction(ds.Bids)
	projected := auction.ProjectState(ds.Auctions, byAuction)
	settlement, err := engine.Settle(ctx, ids, auction.SettleInput{
		Auctions: projected,
		Bids:     byAuction,
		NFTs:     ds.NFTs,
		UserIDs:  dataset.UserIDs(ds.Users),
	})
	if err != nil {
		return fail(PhaseSettlement, err)
	}
	ds.Auctions = dataset.ApplyStatuses(projected, settlement.Reclassified)
	ds.NFTs = dataset.ApplyTransfers(ds.NFTs, settlement.Transfers)
	ds.Reservations = settlement.Reservations
	ds.Ledger = settlement.Ledger

	if err := ctx.Err(); err != nil {
		return fail(PhaseWallets, err)
	}
	phases.SetPhase(PhaseWallets)
	balances := wallets.Apply(ctx, ds.Wallets, settlement.Outcomes)
	ds.OpeningWallets, ds.Wallets = balances.Opening, balances.Closing

	phases.SetPhase(PhaseOutbox)
	ds.Outbox = outbox.Build(ids, outbox.Input{
		Auctions:        ds.Auctions,
		NFTs:            ds.NFTs,
		CurationReviews: ds.CurationReviews,
		UserEmails:      ds.UserEmails,
		Outcomes:        settlement.Outcomes,
		Reclassified:    settlement.Reclassified,
	})

	phases.SetPhase(PhaseGenerated)
	counts := ds.Counts()
	span.SetAttributes(
		attribute.String("auctiongen.run_id", ds.RunID.String()),
		attribute.Int("auctiongen.bids", counts["bids"]),
		attribute.Int("auctiongen.ledger_entries", counts["ledger_entries"]),
	)
	logger.InfoContext(ctx, "dataset generated",
		slog.String("run_id", ds.RunID.String()),
		slog.Int("auctions", counts["auctions"]),
		slog.Int("bids", counts["bids"]),
		slog.Int("settled", len(settlement.Outcomes)),
		slog.Int("unsold", len(settlement.Reclassified)),
		slog.Int("outbox", counts["email_outbox"]),
	)
	return ds, nil
}
