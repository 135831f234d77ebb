package auction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
	"github.com/jensholdgaard/auction-datagen/internal/rng"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testAuction(id int64, status string) dataset.Auction {
	return dataset.Auction{
		ID:            id,
		NFTID:         id,
		StartAt:       testStart,
		EndAt:         testStart.Add(72 * time.Hour),
		StartingPrice: decimal.NewFromInt(1),
		CurrentPrice:  decimal.NewFromInt(1),
		Status:        status,
	}
}

func drain(s *auction.BidStream) []dataset.Bid {
	var out []dataset.Bid
	for b, ok := s.Next(); ok; b, ok = s.Next() {
		out = append(out, b)
	}
	return out
}

func TestBidStream_AmountsStrictlyIncrease(t *testing.T) {
	p := auction.DefaultParams()
	rate := money.Percent(p.MinIncrementPct)
	for i := 0; i < 50; i++ {
		a := testAuction(int64(i+1), dataset.AuctionCompleted)
		s, err := auction.NewBidStream(a, 99, []int64{1, 2, 3, 99}, p, rng.For(1, rng.ComponentBids, i))
		require.NoError(t, err)

		prev := a.StartingPrice
		for _, b := range drain(s) {
			step := money.MinIncrement(prev, rate, p.Precision)
			diff := b.Amount.Sub(prev)
			assert.True(t, b.Amount.GreaterThan(prev), "bid %s not above %s", b.Amount, prev)
			assert.True(t, diff.GreaterThanOrEqual(step.Sub(money.Epsilon(p.Precision))),
				"increment %s below minimum %s", diff, step)
			assert.True(t, diff.LessThanOrEqual(step.Mul(decimal.NewFromInt(3)).Add(money.Epsilon(p.Precision))))
			assert.True(t, b.Amount.Equal(b.Amount.Round(p.Precision)), "amount %s not rounded", b.Amount)
			prev = b.Amount
		}
	}
}

func TestBidStream_Chronological(t *testing.T) {
	p := auction.DefaultParams()
	a := testAuction(1, dataset.AuctionCompleted)
	s, err := auction.NewBidStream(a, 0, []int64{1, 2}, p, rng.New(9))
	require.NoError(t, err)

	bids := drain(s)
	require.NotEmpty(t, bids)
	for i, b := range bids {
		assert.False(t, b.PlacedAt.Before(a.StartAt))
		assert.True(t, b.PlacedAt.Before(a.EndAt))
		assert.Equal(t, a.ID, b.AuctionID)
		assert.Zero(t, b.ID)
		assert.Equal(t, b.PlacedAt.Truncate(time.Second), b.PlacedAt)
		if i > 0 {
			assert.True(t, b.PlacedAt.After(bids[i-1].PlacedAt), "bid %d not after bid %d", i, i-1)
		}
	}
}

func TestBidStream_ShortWindow(t *testing.T) {
	p := auction.DefaultParams()
	a := testAuction(1, dataset.AuctionCompleted)
	a.EndAt = a.StartAt.Add(3 * time.Second)
	s, err := auction.NewBidStream(a, 0, []int64{1, 2}, p, rng.New(9))
	require.NoError(t, err)

	bids := drain(s)
	require.Greater(t, len(bids), 3)
	for i, b := range bids {
		assert.False(t, b.PlacedAt.Before(a.StartAt))
		assert.True(t, b.PlacedAt.Before(a.EndAt))
		if i > 0 {
			assert.False(t, b.PlacedAt.Before(bids[i-1].PlacedAt))
			assert.True(t, b.Amount.GreaterThan(bids[i-1].Amount))
		}
	}
}

func TestBidStream_ExcludesSeller(t *testing.T) {
	p := auction.DefaultParams()
	const seller = 2
	for i := 0; i < 30; i++ {
		s, err := auction.NewBidStream(testAuction(int64(i+1), dataset.AuctionCompleted),
			seller, []int64{1, seller, 3}, p, rng.For(3, rng.ComponentBids, i))
		require.NoError(t, err)
		for _, b := range drain(s) {
			assert.NotEqual(t, int64(seller), b.BidderID)
		}
		assert.Zero(t, s.SellerCollisions())
	}
}

func TestBidStream_SellerOnlyPool(t *testing.T) {
	p := auction.DefaultParams()
	s, err := auction.NewBidStream(testAuction(1, dataset.AuctionCompleted), 5, []int64{5}, p, rng.New(11))
	require.NoError(t, err)

	bids := drain(s)
	require.NotEmpty(t, bids)
	assert.Equal(t, len(bids), s.SellerCollisions())
}

func TestBidStream_EmptyPool(t *testing.T) {
	_, err := auction.NewBidStream(testAuction(1, dataset.AuctionCompleted), 0, nil, auction.DefaultParams(), rng.New(1))
	require.ErrorIs(t, err, auction.ErrMissingDependency)
	assert.ErrorIs(t, err, auction.ErrConfiguration)
}

func TestBidStream_EmptyInterval(t *testing.T) {
	a := testAuction(1, dataset.AuctionCompleted)
	a.EndAt = a.StartAt
	s, err := auction.NewBidStream(a, 0, []int64{1}, auction.DefaultParams(), rng.New(1))
	require.NoError(t, err)

	_, ok := s.Next()
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestBidStream_ZeroBidInjection(t *testing.T) {
	p := auction.DefaultParams()
	p.Lambda = 0
	p.ZeroBidInjectionProb = 1

	tests := []struct {
		name   string
		status string
		want   int
	}{
		{name: "active auction receives one bid", status: dataset.AuctionActive, want: 1},
		{name: "completed auction stays empty", status: dataset.AuctionCompleted, want: 0},
		{name: "cancelled auction stays empty", status: dataset.AuctionCancelled, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := auction.NewBidStream(testAuction(1, tt.status), 0, []int64{1, 2}, p, rng.New(5))
			require.NoError(t, err)
			assert.Len(t, drain(s), tt.want)
		})
	}
}

func TestBidStream_Exhausted(t *testing.T) {
	s, err := auction.NewBidStream(testAuction(1, dataset.AuctionCompleted), 0, []int64{1}, auction.DefaultParams(), rng.New(2))
	require.NoError(t, err)
	n := len(drain(s))
	assert.Equal(t, s.Len(), n)

	_, ok := s.Next()
	assert.False(t, ok, "stream must not restart")
}
