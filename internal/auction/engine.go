package auction

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/rng"
)

// GenerateBids simulates bidding on every auction and returns the bids in
// auction order, then chronological order, with ids taken from ids. Auctions
// are simulated concurrently but each uses a stream derived from its index,
// so the result does not depend on the number of workers. An empty auction
// set or bidder pool is an ErrMissingDependency.
func (e *Engine) GenerateBids(ctx context.Context, ids *dataset.IDs, auctions []dataset.Auction, nfts []dataset.NFT, pool []int64) ([]dataset.Bid, error) {
	ctx, span := e.tracer.Start(ctx, "auction.GenerateBids")
	defer span.End()

	var err error
	switch {
	case len(auctions) == 0:
		err = fmt.Errorf("no auctions: %w", ErrMissingDependency)
	case len(pool) == 0:
		err = fmt.Errorf("bidder pool is empty: %w", ErrMissingDependency)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	nftIdx := dataset.NFTIndex(nfts)
	sellers := make([]int64, len(auctions))
	for i, a := range auctions {
		j, ok := nftIdx[a.NFTID]
		if !ok {
			e.logger.WarnContext(ctx, "auction references unknown nft, seller not excluded",
				slog.Int64("auction_id", a.ID),
				slog.Int64("nft_id", a.NFTID),
			)
			continue
		}
		sellers[i] = nfts[j].ArtistID
	}

	results := make([][]dataset.Bid, len(auctions))
	collisions := make([]int, len(auctions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.params.Workers)
	for i := range auctions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := rng.New(rng.Derive(e.params.Seed, rng.ComponentBids, i))
			stream, err := NewBidStream(auctions[i], sellers[i], pool, e.params, src)
			if err != nil {
				return err
			}
			bids := make([]dataset.Bid, 0, stream.Len())
			for b, ok := stream.Next(); ok; b, ok = stream.Next() {
				bids = append(bids, b)
			}
			results[i] = bids
			collisions[i] = stream.SellerCollisions()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("generating bids: %w", err)
	}

	var total, selfBids int
	for i := range results {
		total += len(results[i])
		selfBids += collisions[i]
	}
	out := make([]dataset.Bid, 0, total)
	for i, bids := range results {
		for _, b := range bids {
			b.ID = ids.Next(dataset.SeqBid)
			out = append(out, b)
		}
		e.bidsPerAuction.Record(ctx, int64(len(bids)))
		if collisions[i] > 0 {
			e.logger.DebugContext(ctx, "seller redraws exhausted",
				slog.Int64("auction_id", auctions[i].ID),
				slog.Int("bids", collisions[i]),
			)
		}
	}
	e.bidsGenerated.Add(ctx, int64(total))

	span.SetAttributes(
		attribute.Int("auction.count", len(auctions)),
		attribute.Int("bid.count", total),
		attribute.Int("bid.seller_collisions", selfBids),
	)
	e.logger.InfoContext(ctx, "bids generated",
		slog.Int("auctions", len(auctions)),
		slog.Int("bids", total),
		slog.Int("workers", e.params.Workers),
	)
	return out, nil
}
