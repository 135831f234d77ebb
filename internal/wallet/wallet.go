// Package wallet applies settled auctions to user wallet balances.
package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// Manager moves settled amounts between wallets.
type Manager struct {
	logger *slog.Logger
	tracer trace.Tracer
	topUps metric.Int64Counter
}

// NewManager returns a new wallet Manager.
func NewManager(logger *slog.Logger, tp trace.TracerProvider, mp metric.MeterProvider) (*Manager, error) {
	topUps, err := mp.Meter("github.com/jensholdgaard/auction-datagen/internal/wallet").
		Int64Counter("auctiongen.wallet.topups",
			metric.WithDescription("Debits that exceeded the wallet balance and were funded into the opening balance."))
	if err != nil {
		return nil, fmt.Errorf("creating top-up counter: %w", err)
	}
	return &Manager{
		logger: logger,
		tracer: tp.Tracer("github.com/jensholdgaard/auction-datagen/internal/wallet"),
		topUps: topUps,
	}, nil
}

// Result holds the wallets before and after settlement. For every wallet,
// closing balance = opening balance - debits + credits.
type Result struct {
	Opening []dataset.Wallet
	Closing []dataset.Wallet
}

// Apply replays outcomes in order: the winner is debited the amount and the
// seller is credited the proceeds. When a debit exceeds the running balance
// the shortfall is added to the opening balance, so no wallet ever goes
// negative and the ledger accounts for every balance change. Reserved is
// clamped to the closing balance. Outcomes that name a user without a wallet
// are logged and skipped for that side. The input is not modified.
func (m *Manager) Apply(ctx context.Context, wallets []dataset.Wallet, outcomes []auction.Outcome) Result {
	ctx, span := m.tracer.Start(ctx, "Manager.Apply",
		trace.WithAttributes(attribute.Int("outcomes", len(outcomes))),
	)
	defer span.End()

	opening := make([]dataset.Wallet, len(wallets))
	copy(opening, wallets)
	closing := make([]dataset.Wallet, len(wallets))
	copy(closing, wallets)
	byUser := make(map[int64]int, len(wallets))
	for i, w := range wallets {
		byUser[w.UserID] = i
	}

	var funded int
	for _, o := range outcomes {
		if i, ok := byUser[o.WinnerID]; ok {
			if short := o.Amount.Sub(closing[i].Balance); short.IsPositive() {
				opening[i].Balance = opening[i].Balance.Add(short)
				closing[i].Balance = closing[i].Balance.Add(short)
				funded++
				m.topUps.Add(ctx, 1)
				m.logger.DebugContext(ctx, "funding wallet for winning bid",
					slog.Int64("auction_id", o.AuctionID),
					slog.Int64("user_id", o.WinnerID),
					slog.String("shortfall", short.String()),
				)
			}
			closing[i].Balance = closing[i].Balance.Sub(o.Amount)
			touch(&closing[i], o)
		} else {
			m.logger.WarnContext(ctx, "winner has no wallet",
				slog.Int64("auction_id", o.AuctionID),
				slog.Int64("user_id", o.WinnerID),
			)
		}
		if i, ok := byUser[o.SellerID]; ok {
			closing[i].Balance = closing[i].Balance.Add(o.Proceeds)
			touch(&closing[i], o)
		} else {
			m.logger.WarnContext(ctx, "seller has no wallet",
				slog.Int64("auction_id", o.AuctionID),
				slog.Int64("user_id", o.SellerID),
			)
		}
	}
	span.SetAttributes(attribute.Int("wallet.funded", funded))
	return Result{Opening: opening, Closing: closing}
}

func touch(w *dataset.Wallet, o auction.Outcome) {
	if w.Reserved.GreaterThan(w.Balance) {
		w.Reserved = w.Balance
	}
	if o.At.After(w.UpdatedAt) {
		w.UpdatedAt = o.At
	}
}
