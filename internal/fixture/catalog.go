package fixture

import (
	"sort"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
)

// CompanyName is written to the auction settings row.
const CompanyName = "ArteCrypto Auctions"

var statusCatalog = []struct {
	domain string
	codes  []string
}{
	{"NFT", []string{dataset.NFTPending, dataset.NFTApproved, dataset.NFTRejected}},
	{"AUCTION", []string{dataset.AuctionActive, dataset.AuctionCompleted, dataset.AuctionCancelled}},
	{"FUNDS_RESERVATION", []string{dataset.ReservationActive, dataset.ReservationReleased, dataset.ReservationCaptured}},
	{"USER_EMAIL", []string{dataset.EmailActive, dataset.EmailInactive}},
	{"EMAIL_OUTBOX", []string{dataset.OutboxPending, dataset.OutboxSent, dataset.OutboxFailed}},
	{"CURATION_DECISION", []string{dataset.NFTPending, dataset.NFTApproved, dataset.NFTRejected}},
}

var statusDescriptions = map[[2]string]string{
	{"NFT", "PENDING"}:                "NFT under review",
	{"NFT", "APPROVED"}:               "NFT approved",
	{"NFT", "REJECTED"}:               "NFT rejected",
	{"AUCTION", "ACTIVE"}:             "Auction open",
	{"AUCTION", "COMPLETED"}:          "Auction completed",
	{"AUCTION", "CANCELLED"}:          "Auction cancelled",
	{"FUNDS_RESERVATION", "ACTIVE"}:   "Funds held",
	{"FUNDS_RESERVATION", "RELEASED"}: "Funds released",
	{"FUNDS_RESERVATION", "CAPTURED"}: "Funds captured",
	{"USER_EMAIL", "ACTIVE"}:          "Email active",
	{"USER_EMAIL", "INACTIVE"}:        "Email inactive",
	{"EMAIL_OUTBOX", "PENDING"}:       "Queued",
	{"EMAIL_OUTBOX", "SENT"}:          "Sent",
	{"EMAIL_OUTBOX", "FAILED"}:        "Delivery failed",
	{"CURATION_DECISION", "PENDING"}:  "Awaiting review",
	{"CURATION_DECISION", "APPROVED"}: "Approved by curator",
	{"CURATION_DECISION", "REJECTED"}: "Rejected by curator",
}

// Statuses returns the status catalog.
func (g *Generator) Statuses(ids *dataset.IDs) []dataset.Status {
	var out []dataset.Status
	for _, d := range statusCatalog {
		for _, c := range d.codes {
			desc, ok := statusDescriptions[[2]string{d.domain, c}]
			if !ok {
				desc = d.domain + ":" + c
			}
			out = append(out, dataset.Status{
				ID:          ids.Next(dataset.SeqStatus),
				Domain:      d.domain,
				Code:        c,
				Description: desc,
			})
		}
	}
	return out
}

// Roles returns one role per configured role name, sorted by name.
func (g *Generator) Roles(ids *dataset.IDs) []dataset.Role {
	names := make([]string, 0, len(g.p.RoleProbs))
	for n := range g.p.RoleProbs {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]dataset.Role, len(names))
	for i, n := range names {
		out[i] = dataset.Role{ID: ids.Next(dataset.SeqRole), Name: n}
	}
	return out
}

// AuctionSettings returns the singleton platform settings row.
func (g *Generator) AuctionSettings() dataset.AuctionSettings {
	return dataset.AuctionSettings{
		ID:                  1,
		CompanyName:         CompanyName,
		BasePrice:           money.FromFloat(g.p.SuggestedPriceMin, 4),
		DefaultAuctionHours: g.p.DefaultAuctionHours,
		MinBidIncrementPct:  g.p.MinBidIncrementPct,
	}
}

// NFTSettings returns the singleton media limits row.
func (g *Generator) NFTSettings() dataset.NFTSettings {
	return dataset.NFTSettings{
		ID:               1,
		MaxWidthPx:       4096,
		MinWidthPx:       512,
		MaxHeightPx:      4096,
		MinHeightPx:      512,
		MaxFileSizeBytes: 10 << 20,
		MinFileSizeBytes: 1024,
		CreatedAt:        g.p.Start,
	}
}
