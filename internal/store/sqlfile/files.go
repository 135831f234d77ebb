package sqlfile

import (
	"fmt"
	"strings"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

// Script file names, in load order.
const (
	InitialDataFile       = "01_initial_data.sql"
	EntityActorsFile      = "02_entity_actors.sql"
	ProcessSimulationFile = "03_process_simulation.sql"
)

const nftTrigger = "nft.tr_NFT_InsertFlow ON nft.NFT"

type script struct {
	name  string
	title string
	parts []string
}

func (s script) render(database string, ds *dataset.Dataset) string {
	head := []string{
		"/* " + s.title + " */",
		fmt.Sprintf("-- run %s, seed %d, as of %s", ds.RunID, ds.Seed, ds.AsOf.UTC().Format(tsqlTime)),
		"USE " + database + ";",
		"GO\n",
	}
	return strings.Join(append(head, s.parts...), "\n")
}

// scripts returns the three load scripts of ds.
func scripts(ds *dataset.Dataset) []script {
	return []script{
		{
			name:  InitialDataFile,
			title: "PHASE 1: INITIAL DATA (catalogs and configuration)",
			parts: []string{
				statusBlock(ds).render(),
				roleBlock(ds).render(),
				nftSettingsBlock(ds).render(),
				auctionSettingsBlock(ds).render(),
			},
		},
		{
			name:  EntityActorsFile,
			title: "PHASE 2: ENTITIES AND ACTORS (users, wallets, roles)",
			parts: []string{
				userBlock(ds).render(),
				userRoleBlock(ds).render(),
				userEmailBlock(ds).render(),
				walletBlock(ds).render(),
			},
		},
		{
			name:  ProcessSimulationFile,
			title: "PHASE 3: PROCESS SIMULATION (NFTs, auctions, finance)",
			parts: []string{
				// The insert trigger would force every NFT back to PENDING.
				"-- Disabling INSTEAD OF INSERT trigger for the NFT bulk load",
				"DISABLE TRIGGER " + nftTrigger + ";",
				"GO",
				nftBlock(ds).render(),
				"-- Re-enabling triggers",
				"ENABLE TRIGGER " + nftTrigger + ";",
				"GO\n",
				curationBlock(ds).render(),
				auctionBlock(ds).render(),
				bidBlock(ds).render(),
				reservationBlock(ds).render(),
				ledgerBlock(ds).render(),
				outboxBlock(ds).render(),
			},
		},
	}
}

func statusBlock(ds *dataset.Dataset) block {
	b := block{table: "[ops].[Status]", identity: true, columns: []string{"StatusId", "Domain", "Code", "Description"}}
	for _, s := range ds.Statuses {
		b.rows = append(b.rows, []any{s.ID, s.Domain, s.Code, s.Description})
	}
	return b
}

func roleBlock(ds *dataset.Dataset) block {
	b := block{table: "[core].[Role]", identity: true, columns: []string{"RoleId", "Name"}}
	for _, r := range ds.Roles {
		b.rows = append(b.rows, []any{r.ID, r.Name})
	}
	return b
}

func nftSettingsBlock(ds *dataset.Dataset) block {
	b := block{table: "[nft].[NFTSettings]", columns: []string{
		"SettingsID", "MaxWidthPx", "MinWidthPx", "MaxHeightPx", "MinHeigntPx",
		"MaxFileSizeBytes", "MinFileSizeBytes", "CreatedAtUtc",
	}}
	for _, s := range ds.NFTSettings {
		b.rows = append(b.rows, []any{
			s.ID, s.MaxWidthPx, s.MinWidthPx, s.MaxHeightPx, s.MinHeightPx,
			s.MaxFileSizeBytes, s.MinFileSizeBytes, s.CreatedAt,
		})
	}
	return b
}

func auctionSettingsBlock(ds *dataset.Dataset) block {
	b := block{table: "[auction].[AuctionSettings]", columns: []string{
		"SettingsID", "CompanyName", "BasePriceETH", "DefaultAuctionHours", "MinBidIncrementPct",
	}}
	for _, s := range ds.AuctionSettings {
		b.rows = append(b.rows, []any{s.ID, s.CompanyName, s.BasePrice, s.DefaultAuctionHours, s.MinBidIncrementPct})
	}
	return b
}

func userBlock(ds *dataset.Dataset) block {
	b := block{table: "[core].[User]", identity: true, columns: []string{"UserId", "FullName", "CreatedAtUtc"}}
	for _, u := range ds.Users {
		b.rows = append(b.rows, []any{u.ID, u.FullName, u.CreatedAt})
	}
	return b
}

func userRoleBlock(ds *dataset.Dataset) block {
	b := block{table: "[core].[UserRole]", columns: []string{"UserId", "RoleId", "AsignacionUtc"}}
	for _, r := range ds.UserRoles {
		b.rows = append(b.rows, []any{r.UserID, r.RoleID, r.AssignedAt})
	}
	return b
}

func userEmailBlock(ds *dataset.Dataset) block {
	b := block{table: "[core].[UserEmail]", identity: true, columns: []string{
		"EmailId", "UserId", "Email", "IsPrimary", "AddedAtUtc", "VerifiedAtUtc", "StatusCode",
	}}
	for _, e := range ds.UserEmails {
		b.rows = append(b.rows, []any{e.ID, e.UserID, e.Email, e.IsPrimary, e.AddedAt, e.VerifiedAt, e.Status})
	}
	return b
}

func walletBlock(ds *dataset.Dataset) block {
	b := block{table: "[core].[Wallet]", identity: true, columns: []string{
		"WalletId", "UserId", "BalanceETH", "ReservedETH", "UpdatedAtUtc",
	}}
	for _, w := range ds.Wallets {
		b.rows = append(b.rows, []any{w.ID, w.UserID, w.Balance, w.Reserved, w.UpdatedAt})
	}
	return b
}

func nftBlock(ds *dataset.Dataset) block {
	b := block{table: "[nft].[NFT]", identity: true, columns: []string{
		"NFTId", "ArtistId", "SettingsID", "CurrentOwnerId", "Name", "Description", "ContentType",
		"HashCode", "FileSizeBytes", "WidthPx", "HeightPx", "SuggestedPriceETH", "StatusCode",
		"CreatedAtUtc", "ApprovedAtUtc",
	}}
	for _, n := range ds.NFTs {
		b.rows = append(b.rows, []any{
			n.ID, n.ArtistID, n.SettingsID, n.CurrentOwnerID, n.Name, n.Description, n.ContentType,
			n.HashCode, n.FileSizeBytes, n.WidthPx, n.HeightPx, n.SuggestedPrice, n.Status,
			n.CreatedAt, n.ApprovedAt,
		})
	}
	return b
}

func curationBlock(ds *dataset.Dataset) block {
	b := block{table: "[admin].[CurationReview]", identity: true, columns: []string{
		"ReviewId", "NFTId", "CuratorId", "DecisionCode", "Comment", "StartedAtUtc", "ReviewedAtUtc",
	}}
	for _, r := range ds.CurationReviews {
		b.rows = append(b.rows, []any{r.ID, r.NFTID, r.CuratorID, r.Decision, r.Comment, r.StartedAt, r.ReviewedAt})
	}
	return b
}

func auctionBlock(ds *dataset.Dataset) block {
	b := block{table: "[auction].[Auction]", identity: true, columns: []string{
		"AuctionId", "SettingsID", "NFTId", "StartAtUtc", "EndAtUtc",
		"StartingPriceETH", "CurrentPriceETH", "CurrentLeaderId", "StatusCode",
	}}
	for _, a := range ds.Auctions {
		b.rows = append(b.rows, []any{
			a.ID, a.SettingsID, a.NFTID, a.StartAt, a.EndAt,
			a.StartingPrice, a.CurrentPrice, a.CurrentLeaderID, a.Status,
		})
	}
	return b
}

func bidBlock(ds *dataset.Dataset) block {
	b := block{table: "[auction].[Bid]", identity: true, columns: []string{
		"BidId", "AuctionId", "BidderId", "AmountETH", "PlacedAtUtc",
	}}
	for _, x := range ds.Bids {
		b.rows = append(b.rows, []any{x.ID, x.AuctionID, x.BidderID, x.Amount, x.PlacedAt})
	}
	return b
}

func reservationBlock(ds *dataset.Dataset) block {
	b := block{table: "[finance].[FundsReservation]", identity: true, columns: []string{
		"ReservationId", "AuctionId", "UserId", "AmountETH", "StateCode", "CreatedAtUtc",
	}}
	for _, r := range ds.Reservations {
		b.rows = append(b.rows, []any{r.ID, r.AuctionID, r.UserID, r.Amount, r.State, r.CreatedAt})
	}
	return b
}

func ledgerBlock(ds *dataset.Dataset) block {
	b := block{table: "[finance].[Ledger]", identity: true, columns: []string{
		"EntryId", "AuctionId", "UserId", "AmountETH", "EntryType", "CreatedAtUtc",
	}}
	for _, e := range ds.Ledger {
		b.rows = append(b.rows, []any{e.ID, e.AuctionID, e.UserID, e.Amount, e.Type, e.CreatedAt})
	}
	return b
}

func outboxBlock(ds *dataset.Dataset) block {
	b := block{table: "[audit].[EmailOutbox]", identity: true, columns: []string{
		"EmailId", "RecipientUserId", "RecipientEmail", "Subject", "Body", "StatusCode",
	}}
	for _, o := range ds.Outbox {
		b.rows = append(b.rows, []any{o.ID, o.RecipientUserID, o.RecipientEmail, o.Subject, o.Body, o.Status})
	}
	return b
}
