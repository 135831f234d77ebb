// Package datasettest provides a small, referentially consistent dataset for
// sink tests.
package datasettest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// Start is the creation time of the fixture's oldest record.
var Start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Small returns a dataset with two users, one settled auction and one
// cancelled auction. Every call returns fresh slices.
func Small(seed int64) *dataset.Dataset {
	at := func(h int) time.Time { return Start.Add(time.Duration(h) * time.Hour) }
	ptr := func(t time.Time) *time.Time { return &t }
	leader := int64(2)

	return &dataset.Dataset{
		RunID: dataset.RunID(seed),
		Seed:  seed,
		AsOf:  at(200),

		Statuses: []dataset.Status{
			{ID: 1, Domain: "AUCTION", Code: dataset.AuctionCompleted, Description: "Auction closed with a winner"},
			{ID: 2, Domain: "AUCTION", Code: dataset.AuctionCancelled, Description: "Auction closed without a sale"},
		},
		Roles: []dataset.Role{{ID: 1, Name: dataset.RoleArtist}, {ID: 2, Name: dataset.RoleBidder}},
		Users: []dataset.User{
			{ID: 1, FullName: "Ana María Pérez", CreatedAt: at(0)},
			{ID: 2, FullName: "José O'Neil", CreatedAt: at(1)},
		},
		AuctionSettings: []dataset.AuctionSettings{
			{ID: 1, CompanyName: "ArteCrypto Auctions", BasePrice: decimal.RequireFromString("0.1"), DefaultAuctionHours: 72, MinBidIncrementPct: 5},
		},
		NFTSettings: []dataset.NFTSettings{
			{ID: 1, MaxWidthPx: 4096, MinWidthPx: 256, MaxHeightPx: 4096, MinHeightPx: 256, MaxFileSizeBytes: 10 << 20, MinFileSizeBytes: 10 << 10, CreatedAt: at(0)},
		},
		UserRoles: []dataset.UserRole{
			{UserID: 1, RoleID: 1, AssignedAt: at(0)},
			{UserID: 2, RoleID: 2, AssignedAt: at(1)},
		},
		UserEmails: []dataset.UserEmail{
			{ID: 1, UserID: 1, Email: "ana.perez@example.com", IsPrimary: true, AddedAt: at(0), VerifiedAt: ptr(at(1)), Status: dataset.EmailActive},
			{ID: 2, UserID: 2, Email: "jose.oneil@example.com", IsPrimary: true, AddedAt: at(1), Status: dataset.EmailActive},
		},
		Wallets: []dataset.Wallet{
			{ID: 1, UserID: 1, Balance: decimal.RequireFromString("1.96"), Reserved: decimal.Zero, UpdatedAt: at(100)},
			{ID: 2, UserID: 2, Balance: decimal.RequireFromString("8.00000001"), Reserved: decimal.RequireFromString("0.5"), UpdatedAt: at(100)},
		},
		NFTs: []dataset.NFT{
			{
				ID: 1, ArtistID: 1, SettingsID: 1, CurrentOwnerID: 2, Name: "Artwork #0001", Description: "Sunset",
				ContentType: "image/png", HashCode: "ab12", FileSizeBytes: 2 << 20, WidthPx: 1024, HeightPx: 768,
				SuggestedPrice: decimal.RequireFromString("1.5"), Status: dataset.NFTApproved, CreatedAt: at(2), ApprovedAt: ptr(at(3)),
			},
			{
				ID: 2, ArtistID: 1, SettingsID: 1, CurrentOwnerID: 1, Name: "Artwork #0002", Description: "Dawn",
				ContentType: "image/jpeg", HashCode: "cd34", FileSizeBytes: 1 << 20, WidthPx: 512, HeightPx: 512,
				SuggestedPrice: decimal.RequireFromString("0.75"), Status: dataset.NFTApproved, CreatedAt: at(2), ApprovedAt: ptr(at(3)),
			},
		},
		CurationReviews: []dataset.CurationReview{
			{ID: 1, NFTID: 1, CuratorID: 2, Decision: dataset.NFTApproved, Comment: "Automated review - decision: APPROVED", StartedAt: at(2), ReviewedAt: ptr(at(3))},
			{ID: 2, NFTID: 2, CuratorID: 2, Decision: dataset.NFTApproved, Comment: "Automated review - decision: APPROVED", StartedAt: at(2), ReviewedAt: ptr(at(3))},
		},
		Auctions: []dataset.Auction{
			{
				ID: 1, SettingsID: 1, NFTID: 1, StartAt: at(4), EndAt: at(76),
				StartingPrice: decimal.RequireFromString("1.5"), CurrentPrice: decimal.RequireFromString("2"),
				CurrentLeaderID: &leader, Status: dataset.AuctionCompleted,
			},
			{
				ID: 2, SettingsID: 1, NFTID: 2, StartAt: at(4), EndAt: at(76),
				StartingPrice: decimal.RequireFromString("0.75"), CurrentPrice: decimal.RequireFromString("0.75"),
				Status: dataset.AuctionCancelled,
			},
		},
		Bids: []dataset.Bid{
			{ID: 1, AuctionID: 1, BidderID: 2, Amount: decimal.RequireFromString("1.6"), PlacedAt: at(10)},
			{ID: 2, AuctionID: 1, BidderID: 2, Amount: decimal.RequireFromString("2"), PlacedAt: at(20)},
		},
		Reservations: []dataset.FundsReservation{
			{ID: 1, AuctionID: 1, UserID: 2, Amount: decimal.RequireFromString("2"), State: dataset.ReservationCaptured, CreatedAt: at(76)},
		},
		Ledger: []dataset.LedgerEntry{
			{ID: 1, AuctionID: 1, UserID: 2, Amount: decimal.RequireFromString("2"), Type: dataset.EntryDebit, CreatedAt: at(76)},
			{ID: 2, AuctionID: 1, UserID: 1, Amount: decimal.RequireFromString("1.96"), Type: dataset.EntryCredit, CreatedAt: at(76)},
		},
		Outbox: []dataset.EmailOutbox{
			{ID: 1, RecipientUserID: 2, RecipientEmail: "jose.oneil@example.com", Subject: "You won auction #1", Body: "Winning bid: 2 ETH.", Status: dataset.OutboxPending},
		},
	}
}
