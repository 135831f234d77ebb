package dataset_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

func TestIDs_PerEntity(t *testing.T) {
	ids := dataset.NewIDs()
	assert.Equal(t, int64(1), ids.Next(dataset.SeqBid))
	assert.Equal(t, int64(2), ids.Next(dataset.SeqBid))
	assert.Equal(t, int64(1), ids.Next(dataset.SeqLedger))
	assert.Equal(t, int64(3), ids.Peek(dataset.SeqBid))
	assert.Equal(t, int64(3), ids.Next(dataset.SeqBid))
}

func TestRunID_Deterministic(t *testing.T) {
	assert.Equal(t, dataset.RunID(42), dataset.RunID(42))
	assert.NotEqual(t, dataset.RunID(42), dataset.RunID(43))
	assert.Equal(t, 5, int(dataset.RunID(42).Version()))
}

func TestRoleHolders(t *testing.T) {
	roles := []dataset.Role{{ID: 1, Name: dataset.RoleArtist}, {ID: 2, Name: dataset.RoleBidder}}
	assignments := []dataset.UserRole{
		{UserID: 5, RoleID: 2},
		{UserID: 3, RoleID: 2},
		{UserID: 3, RoleID: 1},
		{UserID: 5, RoleID: 2},
	}
	assert.Equal(t, []int64{3, 5}, dataset.RoleHolders(roles, assignments, dataset.RoleBidder))
	assert.Equal(t, []int64{3}, dataset.RoleHolders(roles, assignments, dataset.RoleArtist))
	assert.Nil(t, dataset.RoleHolders(roles, assignments, dataset.RoleCurator))
}

func TestApplyTransfers(t *testing.T) {
	nfts := []dataset.NFT{
		{ID: 1, ArtistID: 10, CurrentOwnerID: 10},
		{ID: 2, ArtistID: 11, CurrentOwnerID: 11},
	}
	got := dataset.ApplyTransfers(nfts, []dataset.Transfer{
		{NFTID: 1, From: 10, To: 20},
		{NFTID: 1, From: 20, To: 21},
		{NFTID: 99, To: 1},
	})
	require.Len(t, got, 2)
	assert.Equal(t, int64(21), got[0].CurrentOwnerID)
	assert.Equal(t, int64(11), got[1].CurrentOwnerID)
	assert.Equal(t, int64(10), nfts[0].CurrentOwnerID, "input must not be mutated")
}

func TestApplyStatuses(t *testing.T) {
	auctions := []dataset.Auction{
		{ID: 1, Status: dataset.AuctionCompleted},
		{ID: 2, Status: dataset.AuctionCompleted},
	}
	got := dataset.ApplyStatuses(auctions, []dataset.StatusChange{
		{AuctionID: 2, From: dataset.AuctionCompleted, To: dataset.AuctionCancelled},
	})
	assert.Equal(t, dataset.AuctionCompleted, got[0].Status)
	assert.Equal(t, dataset.AuctionCancelled, got[1].Status)
	assert.Equal(t, dataset.AuctionCompleted, auctions[1].Status)
}

func TestBidsByAuction(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bids := []dataset.Bid{
		{ID: 1, AuctionID: 7, Amount: decimal.NewFromInt(1), PlacedAt: at},
		{ID: 2, AuctionID: 8, Amount: decimal.NewFromInt(1), PlacedAt: at},
		{ID: 3, AuctionID: 7, Amount: decimal.NewFromInt(2), PlacedAt: at},
	}
	grouped := dataset.BidsByAuction(bids)
	require.Len(t, grouped[7], 2)
	assert.Equal(t, int64(3), grouped[7][1].ID)
	assert.Len(t, grouped[8], 1)
}

func TestPrimaryEmails(t *testing.T) {
	got := dataset.PrimaryEmails([]dataset.UserEmail{
		{UserID: 1, Email: "a@x", IsPrimary: false},
		{UserID: 1, Email: "b@x", IsPrimary: true},
	})
	assert.Equal(t, map[int64]string{1: "b@x"}, got)
}
