// Package fixture generates the upstream records the auction simulation runs
// on: the status catalog, roles, users, emails, wallets, artworks, curation
// decisions and auctions.
package fixture

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// ErrNoUsers is returned when the generator is asked for an empty user base.
var ErrNoUsers = errors.New("fixture: at least one user is required")

// Params configures the upstream generators.
type Params struct {
	Seed  int64
	Start time.Time
	End   time.Time

	Users            int
	NFTs             int
	PctNFTsInAuction float64

	RoleProbs       map[string]float64
	MultiRoleProb   float64
	RolesPerUserMin int
	RolesPerUserMax int

	EmailsPerUserMin   int
	EmailsPerUserMax   int
	PctPrimaryVerified float64
	EmailDomains       []string

	BalanceMin  float64
	BalanceMax  float64
	ReservedMin float64
	ReservedMax float64

	SuggestedPriceMin float64
	SuggestedPriceMax float64
	ContentTypes      []string

	DefaultAuctionHours int
	MinBidIncrementPct  float64
	// AuctionStatusProbs weighs the status of auctions that ended before End.
	AuctionStatusProbs map[string]float64

	Precision int32
}

// DefaultParams returns the generator defaults.
func DefaultParams() Params {
	return Params{
		Seed:             42,
		Start:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Users:            200,
		NFTs:             600,
		PctNFTsInAuction: 0.95,
		RoleProbs: map[string]float64{
			dataset.RoleAdmin:   0.05,
			dataset.RoleArtist:  0.25,
			dataset.RoleCurator: 0.15,
			dataset.RoleBidder:  0.85,
		},
		MultiRoleProb:       0.35,
		RolesPerUserMin:     1,
		RolesPerUserMax:     3,
		EmailsPerUserMin:    1,
		EmailsPerUserMax:    2,
		PctPrimaryVerified:  0.98,
		EmailDomains:        []string{"gmail.com", "outlook.com", "yahoo.com", "uni.edu.gt"},
		BalanceMin:          0,
		BalanceMax:          20,
		ReservedMin:         0,
		ReservedMax:         3,
		SuggestedPriceMin:   0.05,
		SuggestedPriceMax:   5,
		ContentTypes:        []string{"image/png", "image/jpeg"},
		DefaultAuctionHours: 72,
		MinBidIncrementPct:  5,
		AuctionStatusProbs: map[string]float64{
			dataset.AuctionActive:    0.10,
			dataset.AuctionCompleted: 0.80,
			dataset.AuctionCancelled: 0.10,
		},
		Precision: 8,
	}
}

// Generator produces upstream records. Every table draws from its own
// random stream, so changing one generator leaves the others untouched.
type Generator struct {
	p      Params
	logger *slog.Logger
	tracer trace.Tracer
}

// NewGenerator returns a Generator.
func NewGenerator(p Params, logger *slog.Logger, tp trace.TracerProvider) *Generator {
	return &Generator{
		p:      p,
		logger: logger,
		tracer: tp.Tracer("github.com/jensholdgaard/auction-datagen/internal/fixture"),
	}
}

// Populate fills the catalog, actor and auction tables of ds in dependency
// order, taking ids from ids.
func (g *Generator) Populate(ctx context.Context, ds *dataset.Dataset, ids *dataset.IDs) error {
	ctx, span := g.tracer.Start(ctx, "fixture.Populate")
	defer span.End()

	if g.p.Users <= 0 {
		return ErrNoUsers
	}

	ds.Statuses = g.Statuses(ids)
	ds.Roles = g.Roles(ids)
	ds.Users = g.Users(ids)
	ds.AuctionSettings = []dataset.AuctionSettings{g.AuctionSettings()}
	ds.NFTSettings = []dataset.NFTSettings{g.NFTSettings()}
	if err := ctx.Err(); err != nil {
		return err
	}

	ds.UserRoles = g.UserRoles(ds.Users, ds.Roles)
	ds.UserEmails = g.UserEmails(ids, ds.Users)
	ds.Wallets = g.Wallets(ids, ds.Users)
	ds.NFTs = g.NFTs(ids, ds.Users, ds.Roles, ds.UserRoles)
	if err := ctx.Err(); err != nil {
		return err
	}

	ds.CurationReviews = g.CurationReviews(ids, ds.NFTs, ds.Users, ds.Roles, ds.UserRoles)
	ds.Auctions = g.Auctions(ids, ds.NFTs, ds.AuctionSettings[0])

	span.SetAttributes(
		attribute.Int("fixture.users", len(ds.Users)),
		attribute.Int("fixture.nfts", len(ds.NFTs)),
		attribute.Int("fixture.auctions", len(ds.Auctions)),
	)
	g.logger.InfoContext(ctx, "fixtures generated",
		slog.Int("users", len(ds.Users)),
		slog.Int("emails", len(ds.UserEmails)),
		slog.Int("nfts", len(ds.NFTs)),
		slog.Int("auctions", len(ds.Auctions)),
	)
	return nil
}

// weighted returns the keys of m in sorted order with their weights.
func weighted(m map[string]float64) ([]string, []float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	weights := make([]float64, len(keys))
	for i, k := range keys {
		weights[i] = m[k]
	}
	return keys, weights
}
