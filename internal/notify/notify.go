// Package notify posts a summary of each generator run to a Discord webhook.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

const (
	instrumentationName = "github.com/jensholdgaard/auction-datagen/internal/notify"
	embedColor          = 0x5865F2
)

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier sends run summaries.
type Notifier struct {
	exec   webhookExecutor
	cfg    config.DiscordConfig
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Notifier for the configured webhook.
func New(cfg config.DiscordConfig, logger *slog.Logger, tp trace.TracerProvider) (*Notifier, error) {
	// Webhook execution is authorised by the webhook token alone.
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return newNotifier(session, cfg, logger, tp), nil
}

func newNotifier(exec webhookExecutor, cfg config.DiscordConfig, logger *slog.Logger, tp trace.TracerProvider) *Notifier {
	return &Notifier{
		exec:   exec,
		cfg:    cfg,
		logger: logger,
		tracer: tp.Tracer(instrumentationName),
	}
}

// RunSummary posts row counts and settlement totals of ds. sink names where
// the dataset was written.
func (n *Notifier) RunSummary(ctx context.Context, ds *dataset.Dataset, sink string, elapsed time.Duration) error {
	ctx, span := n.tracer.Start(ctx, "notify.RunSummary",
		trace.WithAttributes(attribute.String("auctiongen.run_id", ds.RunID.String())),
	)
	defer span.End()

	params := &discordgo.WebhookParams{
		Username: n.cfg.Username,
		Embeds:   []*discordgo.MessageEmbed{summaryEmbed(ds, sink, elapsed)},
	}
	if _, err := n.exec.WebhookExecute(n.cfg.WebhookID, n.cfg.WebhookToken, false, params, discordgo.WithContext(ctx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("posting run summary: %w", err)
	}

	n.logger.InfoContext(ctx, "run summary posted", slog.String("run_id", ds.RunID.String()))
	return nil
}

func summaryEmbed(ds *dataset.Dataset, sink string, elapsed time.Duration) *discordgo.MessageEmbed {
	counts := ds.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows strings.Builder
	for _, name := range names {
		fmt.Fprintf(&rows, "%s: %d\n", name, counts[name])
	}

	volume, fees := totals(ds.Ledger)
	return &discordgo.MessageEmbed{
		Title:       "Auction dataset generated",
		Description: fmt.Sprintf("Run `%s` (seed %d) written to **%s** in %s.", ds.RunID, ds.Seed, sink, elapsed.Round(time.Millisecond)),
		Color:       embedColor,
		Timestamp:   ds.AsOf.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rows", Value: "```\n" + rows.String() + "```"},
			{Name: "Volume (ETH)", Value: volume.String(), Inline: true},
			{Name: "Fees (ETH)", Value: fees.String(), Inline: true},
		},
	}
}

// totals returns the settled volume (sum of debits) and the platform's share
// of it.
func totals(ledger []dataset.LedgerEntry) (volume, fees decimal.Decimal) {
	credits := decimal.Zero
	for _, e := range ledger {
		switch e.Type {
		case dataset.EntryDebit:
			volume = volume.Add(e.Amount)
		case dataset.EntryCredit:
			credits = credits.Add(e.Amount)
		}
	}
	return volume, volume.Sub(credits)
}
