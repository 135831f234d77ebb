package auction

import "github.com/jensholdgaard/auction-datagen/internal/dataset"

// ProjectState returns copies of auctions with CurrentPrice and
// CurrentLeaderID taken from the winning bid. Auctions without bids are
// returned unchanged. Applying it twice gives the same result.
func ProjectState(auctions []dataset.Auction, bidsByAuction map[int64][]dataset.Bid) []dataset.Auction {
	out := make([]dataset.Auction, len(auctions))
	copy(out, auctions)
	for i := range out {
		w, ok := ResolveWinner(bidsByAuction[out[i].ID])
		if !ok {
			continue
		}
		leader := w.BidderID
		out[i].CurrentPrice = w.Amount
		out[i].CurrentLeaderID = &leader
	}
	return out
}
