package wallet_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/wallet"
)

var (
	t0 = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 = t0.Add(96 * time.Hour)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newManager(t *testing.T) (*wallet.Manager, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := wallet.NewManager(slog.Default(), noop.NewTracerProvider(), mp)
	require.NoError(t, err)
	return m, reader
}

func topUps(t *testing.T, r *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, r.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "auctiongen.wallet.topups" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestApply(t *testing.T) {
	m, reader := newManager(t)
	wallets := []dataset.Wallet{
		{ID: 1, UserID: 10, Balance: d("5"), Reserved: d("1"), UpdatedAt: t0},
		{ID: 2, UserID: 20, Balance: d("2"), Reserved: d("1.5"), UpdatedAt: t0},
		{ID: 3, UserID: 30, Balance: d("0.5"), Reserved: d("0"), UpdatedAt: t0},
	}
	outcomes := []auction.Outcome{
		{AuctionID: 1, WinnerID: 20, SellerID: 10, Amount: d("1.8"), Proceeds: d("1.764"), At: t1},
		{AuctionID: 2, WinnerID: 30, SellerID: 10, Amount: d("1"), Proceeds: d("0.98"), At: t1},
	}

	res := m.Apply(context.Background(), wallets, outcomes)
	require.Len(t, res.Opening, 3)
	require.Len(t, res.Closing, 3)
	got := res.Closing

	assert.True(t, got[0].Balance.Equal(d("7.744")), "seller balance %s", got[0].Balance)
	assert.True(t, got[1].Balance.Equal(d("0.2")), "winner balance %s", got[1].Balance)
	assert.True(t, got[1].Reserved.Equal(d("0.2")), "reserved clamped to balance")
	assert.True(t, got[2].Balance.IsZero(), "winner balance %s", got[2].Balance)
	for _, w := range got {
		assert.Equal(t, t1, w.UpdatedAt)
		assert.True(t, w.Reserved.LessThanOrEqual(w.Balance))
	}

	assert.True(t, res.Opening[0].Balance.Equal(d("5")))
	assert.True(t, res.Opening[1].Balance.Equal(d("2")))
	assert.True(t, res.Opening[2].Balance.Equal(d("1")), "shortfall funded into opening balance, got %s", res.Opening[2].Balance)
	assert.Equal(t, t0, res.Opening[2].UpdatedAt)

	assert.True(t, wallets[2].Balance.Equal(d("0.5")), "input must not be mutated")
	assert.Equal(t, int64(1), topUps(t, reader))
}

func TestApply_BalancesMatchLedger(t *testing.T) {
	m, _ := newManager(t)
	wallets := []dataset.Wallet{
		{ID: 1, UserID: 1, Balance: d("0.1")},
		{ID: 2, UserID: 2, Balance: d("3")},
		{ID: 3, UserID: 3, Balance: d("0")},
	}
	outcomes := []auction.Outcome{
		{AuctionID: 1, WinnerID: 1, SellerID: 2, Amount: d("4"), Proceeds: d("3.92"), At: t0},
		{AuctionID: 2, WinnerID: 2, SellerID: 3, Amount: d("9"), Proceeds: d("8.82"), At: t0},
		{AuctionID: 3, WinnerID: 3, SellerID: 1, Amount: d("10"), Proceeds: d("9.8"), At: t1},
		{AuctionID: 4, WinnerID: 1, SellerID: 3, Amount: d("2.5"), Proceeds: d("2.45"), At: t1},
	}
	res := m.Apply(context.Background(), wallets, outcomes)

	delta := map[int64]decimal.Decimal{}
	for _, o := range outcomes {
		delta[o.WinnerID] = delta[o.WinnerID].Sub(o.Amount)
		delta[o.SellerID] = delta[o.SellerID].Add(o.Proceeds)
	}
	for i, w := range res.Closing {
		open := res.Opening[i]
		assert.True(t, open.Balance.GreaterThanOrEqual(wallets[i].Balance), "wallet %d opening shrank", w.ID)
		assert.True(t, w.Balance.Equal(open.Balance.Add(delta[w.UserID])),
			"wallet %d: closing %s, opening %s, delta %s", w.ID, w.Balance, open.Balance, delta[w.UserID])
		assert.False(t, w.Balance.IsNegative(), "wallet %d", w.ID)
	}
}

func TestApply_MissingWallet(t *testing.T) {
	m, _ := newManager(t)
	wallets := []dataset.Wallet{{ID: 1, UserID: 10, Balance: d("1"), UpdatedAt: t1}}
	res := m.Apply(context.Background(), wallets, []auction.Outcome{
		{AuctionID: 1, WinnerID: 99, SellerID: 10, Amount: d("1"), Proceeds: d("0.98"), At: t0},
	})
	got := res.Closing
	assert.True(t, got[0].Balance.Equal(d("1.98")))
	assert.Equal(t, t1, got[0].UpdatedAt, "earlier settlement keeps the later timestamp")
}

func TestApply_Deterministic(t *testing.T) {
	m, _ := newManager(t)
	wallets := []dataset.Wallet{{UserID: 1, Balance: d("3")}, {UserID: 2, Balance: d("1")}}
	outcomes := []auction.Outcome{{WinnerID: 1, SellerID: 2, Amount: d("5"), Proceeds: d("4.9"), At: t0}}
	assert.Equal(t, m.Apply(context.Background(), wallets, outcomes), m.Apply(context.Background(), wallets, outcomes))
}
