package pipeline_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/pipeline"
)

type recorder struct {
	mu     sync.Mutex
	phases []string
}

func (r *recorder) SetPhase(p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, p)
}

func testSimulation(workers int) config.SimulationConfig {
	s := config.Default().Simulation
	s.Users = 40
	s.NFTs = 80
	s.Workers = workers
	return s
}

func run(t *testing.T, s config.SimulationConfig, phases pipeline.PhaseReporter) *dataset.Dataset {
	t.Helper()
	ds, err := pipeline.Run(context.Background(), s, pipeline.Deps{
		Logger:         slog.Default(),
		TracerProvider: noop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		Phases:         phases,
	})
	require.NoError(t, err)
	return ds
}

// fingerprint renders the simulated tables so runs can be compared exactly.
func fingerprint(ds *dataset.Dataset) []string {
	var out []string
	for _, b := range ds.Bids {
		out = append(out, fmt.Sprintf("bid %d %d %d %s %s", b.ID, b.AuctionID, b.BidderID, b.Amount, b.PlacedAt))
	}
	for _, r := range ds.Reservations {
		out = append(out, fmt.Sprintf("res %d %d %d %s %s", r.ID, r.AuctionID, r.UserID, r.Amount, r.CreatedAt))
	}
	for _, e := range ds.Ledger {
		out = append(out, fmt.Sprintf("led %d %d %d %s %s", e.ID, e.AuctionID, e.UserID, e.Amount, e.Type))
	}
	for _, n := range ds.NFTs {
		out = append(out, fmt.Sprintf("nft %d %d", n.ID, n.CurrentOwnerID))
	}
	for _, w := range ds.Wallets {
		out = append(out, fmt.Sprintf("wal %d %s %s", w.ID, w.Balance, w.Reserved))
	}
	for _, o := range ds.Outbox {
		out = append(out, fmt.Sprintf("out %d %d %s", o.ID, o.RecipientUserID, o.Subject))
	}
	return out
}

func TestRun_Deterministic(t *testing.T) {
	a := run(t, testSimulation(1), nil)
	b := run(t, testSimulation(1), nil)
	c := run(t, testSimulation(8), nil)

	require.NotEmpty(t, a.Bids)
	assert.Equal(t, a.RunID, c.RunID)
	assert.Equal(t, fingerprint(a), fingerprint(b))
	assert.Equal(t, fingerprint(a), fingerprint(c), "output must not depend on worker count")

	other := testSimulation(1)
	other.Seed++
	assert.NotEqual(t, fingerprint(a), fingerprint(run(t, other, nil)))
}

func TestRun_Phases(t *testing.T) {
	rec := &recorder{}
	ds := run(t, testSimulation(2), rec)

	assert.Equal(t, []string{
		pipeline.PhaseFixtures,
		pipeline.PhaseBids,
		pipeline.PhaseSettlement,
		pipeline.PhaseWallets,
		pipeline.PhaseOutbox,
		pipeline.PhaseGenerated,
	}, rec.phases)
	assert.Equal(t, testSimulation(2).EndDate, ds.AsOf)
}

func TestRun_Consistency(t *testing.T) {
	s := testSimulation(4)
	ds := run(t, s, nil)
	rate := decimal.NewFromFloat(s.PlatformFeePct).Div(decimal.NewFromInt(100))

	bids := dataset.BidsByAuction(ds.Bids)
	ledger := map[int64][]dataset.LedgerEntry{}
	for _, e := range ds.Ledger {
		ledger[e.AuctionID] = append(ledger[e.AuctionID], e)
	}
	reserved := map[int64]dataset.FundsReservation{}
	for _, r := range ds.Reservations {
		reserved[r.AuctionID] = r
	}

	owner := map[int64]int64{}
	for _, a := range ds.Auctions {
		if a.Status != dataset.AuctionCompleted {
			assert.NotContains(t, ledger, a.ID, "auction %d is %s but has ledger entries", a.ID, a.Status)
			continue
		}
		require.NotEmpty(t, bids[a.ID], "completed auction %d has no bids", a.ID)
		winner, ok := auction.ResolveWinner(bids[a.ID])
		require.True(t, ok)

		entries := ledger[a.ID]
		require.Len(t, entries, 2)
		debit, credit := entries[0], entries[1]
		assert.Equal(t, dataset.EntryDebit, debit.Type)
		assert.Equal(t, dataset.EntryCredit, credit.Type)
		assert.Equal(t, winner.BidderID, debit.UserID)
		assert.True(t, winner.Amount.Equal(debit.Amount))

		fee := debit.Amount.Sub(credit.Amount)
		assert.True(t, fee.Equal(debit.Amount.Mul(rate).Round(s.MoneyPrecision)), "auction %d fee %s", a.ID, fee)

		r, ok := reserved[a.ID]
		require.True(t, ok)
		assert.Equal(t, dataset.ReservationCaptured, r.State)
		assert.True(t, r.Amount.Equal(debit.Amount))
		assert.Equal(t, winner.BidderID, r.UserID)

		require.NotNil(t, a.CurrentLeaderID)
		assert.Equal(t, winner.BidderID, *a.CurrentLeaderID)
		owner[a.NFTID] = winner.BidderID
	}

	// Settled auctions are processed by end time, so the latest one decides.
	latest := map[int64]dataset.Auction{}
	for _, a := range ds.Auctions {
		if a.Status != dataset.AuctionCompleted {
			continue
		}
		if prev, ok := latest[a.NFTID]; !ok || a.EndAt.After(prev.EndAt) || (a.EndAt.Equal(prev.EndAt) && a.ID > prev.ID) {
			latest[a.NFTID] = a
		}
	}
	for _, n := range ds.NFTs {
		if a, ok := latest[n.ID]; ok {
			assert.Equal(t, *a.CurrentLeaderID, n.CurrentOwnerID, "nft %d", n.ID)
		} else {
			assert.Equal(t, n.ArtistID, n.CurrentOwnerID, "unsold nft %d changed owner", n.ID)
		}
	}

	for _, w := range ds.Wallets {
		assert.False(t, w.Balance.IsNegative(), "wallet %d", w.ID)
		assert.True(t, w.Reserved.LessThanOrEqual(w.Balance), "wallet %d", w.ID)
	}
}

func TestRun_WalletsMatchLedger(t *testing.T) {
	ds := run(t, config.Default().Simulation, nil)
	require.NotEmpty(t, ds.Ledger)
	require.Len(t, ds.OpeningWallets, len(ds.Wallets))

	delta := map[int64]decimal.Decimal{}
	for _, e := range ds.Ledger {
		switch e.Type {
		case dataset.EntryDebit:
			delta[e.UserID] = delta[e.UserID].Sub(e.Amount)
		case dataset.EntryCredit:
			delta[e.UserID] = delta[e.UserID].Add(e.Amount)
		}
	}
	for i, w := range ds.Wallets {
		opening := ds.OpeningWallets[i]
		require.Equal(t, opening.ID, w.ID)
		want := opening.Balance.Add(delta[w.UserID])
		assert.True(t, w.Balance.Equal(want),
			"wallet %d: balance %s, opening %s + ledger %s", w.ID, w.Balance, opening.Balance, delta[w.UserID])
		assert.False(t, w.Balance.IsNegative(), "wallet %d", w.ID)
	}
}

func TestRun_NoAuctions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.SimulationConfig)
	}{
		{name: "no nfts", modify: func(s *config.SimulationConfig) { s.NFTs = 0 }},
		{name: "nothing listed", modify: func(s *config.SimulationConfig) { s.PctNFTsInAuction = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSimulation(2)
			tt.modify(&s)
			ds, err := pipeline.Run(context.Background(), s, pipeline.Deps{
				Logger:         slog.Default(),
				TracerProvider: noop.NewTracerProvider(),
				MeterProvider:  metricnoop.NewMeterProvider(),
			})
			assert.ErrorIs(t, err, auction.ErrConfiguration)
			assert.Nil(t, ds)
		})
	}
}

func TestRun_NoUsers(t *testing.T) {
	s := testSimulation(1)
	s.Users = 0
	_, err := pipeline.Run(context.Background(), s, pipeline.Deps{
		Logger:         slog.Default(),
		TracerProvider: noop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
	})
	require.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Run(ctx, testSimulation(2), pipeline.Deps{
		Logger:         slog.Default(),
		TracerProvider: noop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
