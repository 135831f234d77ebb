package auction

import "github.com/jensholdgaard/auction-datagen/internal/dataset"

// Compare orders bids by amount descending, then placement time ascending,
// then id ascending. The first bid under this order wins.
func Compare(a, b dataset.Bid) int {
	if c := b.Amount.Cmp(a.Amount); c != 0 {
		return c
	}
	if a.PlacedAt.Before(b.PlacedAt) {
		return -1
	}
	if a.PlacedAt.After(b.PlacedAt) {
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// ResolveWinner returns the winning bid, or false when bids is empty.
func ResolveWinner(bids []dataset.Bid) (dataset.Bid, bool) {
	if len(bids) == 0 {
		return dataset.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if Compare(b, best) < 0 {
			best = b
		}
	}
	return best, true
}
