// Package outbox builds the notification records queued by a simulated run.
package outbox

import (
	"fmt"
	"sort"

	"github.com/jensholdgaard/auction-datagen/internal/auction"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// Input is what the outbox is derived from. Auctions carry their final
// statuses.
type Input struct {
	Auctions        []dataset.Auction
	NFTs            []dataset.NFT
	CurationReviews []dataset.CurationReview
	UserEmails      []dataset.UserEmail
	Outcomes        []auction.Outcome
	Reclassified    []dataset.StatusChange
}

type notice struct {
	to      int64
	subject string
	body    string
}

// Build returns PENDING notifications in a fixed order: curation decisions,
// auction listings, then one won and one sold notice per settled auction,
// then cancellations of auctions that closed without bids. Recipients
// without a primary address are skipped.
func Build(ids *dataset.IDs, in Input) []dataset.EmailOutbox {
	primary := dataset.PrimaryEmails(in.UserEmails)
	artist := make(map[int64]int64, len(in.NFTs))
	for _, n := range in.NFTs {
		artist[n.ID] = n.ArtistID
	}

	var notices []notice
	for _, r := range in.CurationReviews {
		var verb string
		switch r.Decision {
		case dataset.NFTApproved:
			verb = "approved"
		case dataset.NFTRejected:
			verb = "rejected"
		default:
			continue
		}
		a, ok := artist[r.NFTID]
		if !ok {
			continue
		}
		notices = append(notices, notice{
			to:      a,
			subject: fmt.Sprintf("NFT #%d %s", r.NFTID, verb),
			body:    fmt.Sprintf("Your NFT #%d was %s by the curator.", r.NFTID, verb),
		})
	}

	for _, a := range in.Auctions {
		seller, ok := artist[a.NFTID]
		if !ok {
			continue
		}
		notices = append(notices, notice{
			to:      seller,
			subject: fmt.Sprintf("Auction created for NFT #%d", a.NFTID),
			body: fmt.Sprintf("Your NFT #%d was listed in auction #%d with a starting price of %s ETH.",
				a.NFTID, a.ID, a.StartingPrice.StringFixed(8)),
		})
	}

	outcomes := append([]auction.Outcome(nil), in.Outcomes...)
	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].AuctionID < outcomes[j].AuctionID })
	for _, o := range outcomes {
		notices = append(notices,
			notice{
				to:      o.WinnerID,
				subject: fmt.Sprintf("You won auction #%d", o.AuctionID),
				body: fmt.Sprintf("You won auction #%d for %s ETH. NFT #%d is now in your collection.",
					o.AuctionID, o.Amount.StringFixed(8), o.NFTID),
			},
			notice{
				to:      o.SellerID,
				subject: fmt.Sprintf("Auction #%d sold", o.AuctionID),
				body: fmt.Sprintf("Auction #%d closed at %s ETH. %s ETH were credited to your wallet after a %s ETH fee.",
					o.AuctionID, o.Amount.StringFixed(8), o.Proceeds.StringFixed(8), o.Fee.StringFixed(8)),
			},
		)
	}

	nftOf := make(map[int64]int64, len(in.Auctions))
	for _, a := range in.Auctions {
		nftOf[a.ID] = a.NFTID
	}
	for _, c := range in.Reclassified {
		seller, ok := artist[nftOf[c.AuctionID]]
		if !ok {
			continue
		}
		notices = append(notices, notice{
			to:      seller,
			subject: fmt.Sprintf("Auction #%d cancelled", c.AuctionID),
			body:    fmt.Sprintf("Your auction #%d closed without bids and was cancelled.", c.AuctionID),
		})
	}

	out := make([]dataset.EmailOutbox, 0, len(notices))
	for _, n := range notices {
		addr, ok := primary[n.to]
		if !ok {
			continue
		}
		out = append(out, dataset.EmailOutbox{
			ID:              ids.Next(dataset.SeqOutbox),
			RecipientUserID: n.to,
			RecipientEmail:  addr,
			Subject:         n.subject,
			Body:            n.body,
			Status:          dataset.OutboxPending,
		})
	}
	return out
}
