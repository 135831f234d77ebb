package dataset

import (
	"sort"
	"time"
)

// Transfer moves an NFT to a new owner as the result of a settled auction.
type Transfer struct {
	NFTID     int64
	AuctionID int64
	From      int64
	To        int64
	At        time.Time
}

// StatusChange records an explicit auction status reclassification.
type StatusChange struct {
	AuctionID int64
	From      string
	To        string
}

// RoleHolders returns the ids of users holding the named role, ascending.
func RoleHolders(roles []Role, assignments []UserRole, name string) []int64 {
	var roleID int64
	found := false
	for _, r := range roles {
		if r.Name == name {
			roleID, found = r.ID, true
			break
		}
	}
	if !found {
		return nil
	}
	seen := make(map[int64]struct{})
	var ids []int64
	for _, a := range assignments {
		if a.RoleID != roleID {
			continue
		}
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		ids = append(ids, a.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// UserIDs returns the ids of all users in order.
func UserIDs(users []User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

// NFTIndex maps NFT id to its position in nfts.
func NFTIndex(nfts []NFT) map[int64]int {
	idx := make(map[int64]int, len(nfts))
	for i, n := range nfts {
		idx[n.ID] = i
	}
	return idx
}

// BidsByAuction groups bids by auction id, keeping their relative order.
func BidsByAuction(bids []Bid) map[int64][]Bid {
	out := make(map[int64][]Bid)
	for _, b := range bids {
		out[b.AuctionID] = append(out[b.AuctionID], b)
	}
	return out
}

// ApplyTransfers returns a copy of nfts with ownership moved in transfer order.
// Transfers for unknown NFTs are ignored.
func ApplyTransfers(nfts []NFT, transfers []Transfer) []NFT {
	out := make([]NFT, len(nfts))
	copy(out, nfts)
	idx := NFTIndex(out)
	for _, t := range transfers {
		if i, ok := idx[t.NFTID]; ok {
			out[i].CurrentOwnerID = t.To
		}
	}
	return out
}

// ApplyStatuses returns a copy of auctions with the status changes applied.
func ApplyStatuses(auctions []Auction, changes []StatusChange) []Auction {
	out := make([]Auction, len(auctions))
	copy(out, auctions)
	if len(changes) == 0 {
		return out
	}
	to := make(map[int64]string, len(changes))
	for _, c := range changes {
		to[c.AuctionID] = c.To
	}
	for i := range out {
		if s, ok := to[out[i].ID]; ok {
			out[i].Status = s
		}
	}
	return out
}

// PrimaryEmails maps user id to the user's primary address.
func PrimaryEmails(emails []UserEmail) map[int64]string {
	out := make(map[int64]string)
	for _, e := range emails {
		if e.IsPrimary {
			out[e.UserID] = e.Email
		}
	}
	return out
}
