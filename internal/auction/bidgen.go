package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
	"github.com/jensholdgaard/auction-datagen/internal/rng"
)

// BidStream lazily produces the bids of one auction in chronological order.
// It is finite and cannot be restarted. Bids carry AuctionID but no ID; ids
// are assigned when streams are merged.
type BidStream struct {
	auctionID  int64
	seller     int64
	pool       []int64
	times      []time.Time
	pos        int
	price      decimal.Decimal
	rate       decimal.Decimal
	precision  int32
	maxRedraws int
	src        *rng.Source
	collisions int
}

// NewBidStream draws the bid count and timestamps for a and returns a stream
// over them. Timestamps are whole seconds and strictly increasing unless the
// auction window is shorter than the number of bids. seller is excluded from bidding within the redraw bound. An empty
// pool is a configuration error; an auction with start >= end yields no bids.
func NewBidStream(a dataset.Auction, seller int64, pool []int64, p Params, src *rng.Source) (*BidStream, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("auction %d: no eligible bidders: %w", a.ID, ErrMissingDependency)
	}

	s := &BidStream{
		auctionID:  a.ID,
		seller:     seller,
		pool:       pool,
		price:      a.StartingPrice,
		rate:       money.Percent(p.MinIncrementPct),
		precision:  p.Precision,
		maxRedraws: p.MaxSellerRedraws,
		src:        src,
	}
	if !a.StartAt.Before(a.EndAt) {
		return s, nil
	}

	n := src.Poisson(p.Lambda)
	if n == 0 && a.Status == dataset.AuctionActive && src.Float64() < p.ZeroBidInjectionProb {
		n = 1
	}

	s.times = src.Times(a.StartAt, a.EndAt, n)
	return s, nil
}

// Len returns the total number of bids the stream produces.
func (s *BidStream) Len() int { return len(s.times) }

// SellerCollisions returns how many emitted bids were placed by the seller
// because the redraw bound was exhausted.
func (s *BidStream) SellerCollisions() int { return s.collisions }

// Next returns the next bid, or false when the stream is exhausted.
func (s *BidStream) Next() (dataset.Bid, bool) {
	if s.pos >= len(s.times) {
		return dataset.Bid{}, false
	}
	at := s.times[s.pos]
	s.pos++

	bidder := rng.Pick(s.src, s.pool)
	for attempts := 0; bidder == s.seller && attempts < s.maxRedraws; attempts++ {
		bidder = rng.Pick(s.src, s.pool)
	}
	if bidder == s.seller {
		s.collisions++
	}

	step := money.MinIncrement(s.price, s.rate, s.precision)
	factor := decimal.NewFromFloat(s.src.Uniform(1, 3))
	amount := money.Round(s.price.Add(step.Mul(factor)), s.precision)
	if !amount.GreaterThan(s.price) {
		amount = s.price.Add(money.Epsilon(s.precision))
	}
	s.price = amount

	return dataset.Bid{
		AuctionID: s.auctionID,
		BidderID:  bidder,
		Amount:    amount,
		PlacedAt:  at,
	}, true
}
