package auction

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
)

// SettleInput is the snapshot a settlement pass works on.
type SettleInput struct {
	Auctions []dataset.Auction
	Bids     map[int64][]dataset.Bid
	NFTs     []dataset.NFT
	// UserIDs lists every known user. Winners outside it are skipped.
	UserIDs []int64
}

// Outcome describes one settled auction.
type Outcome struct {
	AuctionID int64
	NFTID     int64
	WinnerID  int64
	SellerID  int64
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Proceeds  decimal.Decimal
	At        time.Time
}

// Settlement is the result of a settlement pass. Nothing in the input is
// modified; callers apply Transfers and Reclassified themselves.
type Settlement struct {
	Reservations []dataset.FundsReservation
	Ledger       []dataset.LedgerEntry
	Transfers    []dataset.Transfer
	Reclassified []dataset.StatusChange
	Outcomes     []Outcome
}

// Settle converts COMPLETED auctions into captured reservations, a
// debit/credit ledger pair and an ownership transfer. Auctions are processed
// in (EndAt, ID) order so the latest sale decides the final owner. A
// completed auction without bids is reclassified to CANCELLED.
func (e *Engine) Settle(ctx context.Context, ids *dataset.IDs, in SettleInput) (*Settlement, error) {
	ctx, span := e.tracer.Start(ctx, "auction.Settle")
	defer span.End()

	completed := make([]dataset.Auction, 0, len(in.Auctions))
	for _, a := range in.Auctions {
		if a.Status == dataset.AuctionCompleted {
			completed = append(completed, a)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		if !completed[i].EndAt.Equal(completed[j].EndAt) {
			return completed[i].EndAt.Before(completed[j].EndAt)
		}
		return completed[i].ID < completed[j].ID
	})

	nfts := dataset.NFTIndex(in.NFTs)
	users := make(map[int64]struct{}, len(in.UserIDs))
	for _, id := range in.UserIDs {
		users[id] = struct{}{}
	}
	owners := make(map[int64]int64, len(in.NFTs))
	for _, n := range in.NFTs {
		owners[n.ID] = n.CurrentOwnerID
	}

	rate := money.Percent(e.params.FeePct)
	out := &Settlement{}

	for _, a := range completed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bids := in.Bids[a.ID]
		winner, ok := ResolveWinner(bids)
		if !ok {
			out.Reclassified = append(out.Reclassified, dataset.StatusChange{
				AuctionID: a.ID,
				From:      dataset.AuctionCompleted,
				To:        dataset.AuctionCancelled,
			})
			e.unsold.Add(ctx, 1)
			e.logger.DebugContext(ctx, "completed auction has no bids",
				slog.Int64("auction_id", a.ID))
			continue
		}

		i, ok := nfts[a.NFTID]
		if !ok {
			err := fmt.Errorf("auction %d references nft %d: %w", a.ID, a.NFTID, ErrDanglingReference)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		nft := in.NFTs[i]
		if _, ok := users[nft.ArtistID]; !ok {
			err := fmt.Errorf("nft %d references artist %d: %w", nft.ID, nft.ArtistID, ErrDanglingReference)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if _, ok := users[winner.BidderID]; !ok {
			e.logger.WarnContext(ctx, "skipping settlement, winner unknown",
				slog.Int64("auction_id", a.ID),
				slog.Int64("bidder_id", winner.BidderID),
			)
			continue
		}

		fee, proceeds := money.Fee(winner.Amount, rate, e.params.Precision)

		out.Reservations = append(out.Reservations, dataset.FundsReservation{
			ID:        ids.Next(dataset.SeqReservation),
			AuctionID: a.ID,
			UserID:    winner.BidderID,
			Amount:    winner.Amount,
			State:     dataset.ReservationCaptured,
			CreatedAt: a.EndAt,
		})
		out.Ledger = append(out.Ledger,
			dataset.LedgerEntry{
				ID:        ids.Next(dataset.SeqLedger),
				AuctionID: a.ID,
				UserID:    winner.BidderID,
				Amount:    winner.Amount,
				Type:      dataset.EntryDebit,
				CreatedAt: a.EndAt,
			},
			dataset.LedgerEntry{
				ID:        ids.Next(dataset.SeqLedger),
				AuctionID: a.ID,
				UserID:    nft.ArtistID,
				Amount:    proceeds,
				Type:      dataset.EntryCredit,
				CreatedAt: a.EndAt,
			},
		)
		out.Transfers = append(out.Transfers, dataset.Transfer{
			NFTID:     nft.ID,
			AuctionID: a.ID,
			From:      owners[nft.ID],
			To:        winner.BidderID,
			At:        a.EndAt,
		})
		owners[nft.ID] = winner.BidderID
		out.Outcomes = append(out.Outcomes, Outcome{
			AuctionID: a.ID,
			NFTID:     nft.ID,
			WinnerID:  winner.BidderID,
			SellerID:  nft.ArtistID,
			Amount:    winner.Amount,
			Fee:       fee,
			Proceeds:  proceeds,
			At:        a.EndAt,
		})
		e.settled.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int("auction.settled", len(out.Outcomes)),
		attribute.Int("auction.reclassified", len(out.Reclassified)),
	)
	span.AddEvent("settled", trace.WithAttributes(attribute.Int("ledger.entries", len(out.Ledger))))
	return out, nil
}
