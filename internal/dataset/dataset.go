// Package dataset defines the relational records produced by the generator
// and the aggregate that carries them from generation to the output sinks.
package dataset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auction statuses.
const (
	AuctionActive    = "ACTIVE"
	AuctionCompleted = "COMPLETED"
	AuctionCancelled = "CANCELLED"
)

// Funds reservation states.
const (
	ReservationActive   = "ACTIVE"
	ReservationReleased = "RELEASED"
	ReservationCaptured = "CAPTURED"
)

// Ledger entry types.
const (
	EntryDebit  = "DEBIT"
	EntryCredit = "CREDIT"
)

// NFT and curation statuses.
const (
	NFTPending  = "PENDING"
	NFTApproved = "APPROVED"
	NFTRejected = "REJECTED"
)

// Email and outbox statuses.
const (
	EmailActive   = "ACTIVE"
	EmailInactive = "INACTIVE"

	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// Role names.
const (
	RoleAdmin   = "ADMIN"
	RoleArtist  = "ARTIST"
	RoleBidder  = "BIDDER"
	RoleCurator = "CURATOR"
)

// Status is a row of the shared status catalog.
type Status struct {
	ID          int64  `db:"status_id"`
	Domain      string `db:"domain"`
	Code        string `db:"code"`
	Description string `db:"description"`
}

// Role is a user capability.
type Role struct {
	ID   int64  `db:"role_id"`
	Name string `db:"name"`
}

// User is a platform account.
type User struct {
	ID        int64     `db:"user_id"`
	FullName  string    `db:"full_name"`
	CreatedAt time.Time `db:"created_at"`
}

// UserRole assigns a role to a user.
type UserRole struct {
	UserID     int64     `db:"user_id"`
	RoleID     int64     `db:"role_id"`
	AssignedAt time.Time `db:"assigned_at"`
}

// UserEmail is an address owned by a user. Exactly one per user is primary.
type UserEmail struct {
	ID         int64      `db:"email_id"`
	UserID     int64      `db:"user_id"`
	Email      string     `db:"email"`
	IsPrimary  bool       `db:"is_primary"`
	AddedAt    time.Time  `db:"added_at"`
	VerifiedAt *time.Time `db:"verified_at"`
	Status     string     `db:"status_code"`
}

// Wallet holds a user's ETH balance. Reserved never exceeds Balance.
type Wallet struct {
	ID        int64           `db:"wallet_id"`
	UserID    int64           `db:"user_id"`
	Balance   decimal.Decimal `db:"balance_eth"`
	Reserved  decimal.Decimal `db:"reserved_eth"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// AuctionSettings is the platform-wide auction configuration row.
type AuctionSettings struct {
	ID                  int64           `db:"settings_id"`
	CompanyName         string          `db:"company_name"`
	BasePrice           decimal.Decimal `db:"base_price_eth"`
	DefaultAuctionHours int             `db:"default_auction_hours"`
	MinBidIncrementPct  float64         `db:"min_bid_increment_pct"`
}

// NFTSettings bounds the media accepted for artworks.
type NFTSettings struct {
	ID               int64     `db:"settings_id"`
	MaxWidthPx       int       `db:"max_width_px"`
	MinWidthPx       int       `db:"min_width_px"`
	MaxHeightPx      int       `db:"max_height_px"`
	MinHeightPx      int       `db:"min_height_px"`
	MaxFileSizeBytes int64     `db:"max_file_size_bytes"`
	MinFileSizeBytes int64     `db:"min_file_size_bytes"`
	CreatedAt        time.Time `db:"created_at"`
}

// NFT is an artwork. CurrentOwnerID starts as ArtistID and moves to the
// winner of each settled auction.
type NFT struct {
	ID             int64           `db:"nft_id"`
	ArtistID       int64           `db:"artist_id"`
	SettingsID     int64           `db:"settings_id"`
	CurrentOwnerID int64           `db:"current_owner_id"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	ContentType    string          `db:"content_type"`
	HashCode       string          `db:"hash_code"`
	FileSizeBytes  int64           `db:"file_size_bytes"`
	WidthPx        int             `db:"width_px"`
	HeightPx       int             `db:"height_px"`
	SuggestedPrice decimal.Decimal `db:"suggested_price_eth"`
	Status         string          `db:"status_code"`
	CreatedAt      time.Time       `db:"created_at"`
	ApprovedAt     *time.Time      `db:"approved_at"`
}

// CurationReview is a curator's decision on an NFT.
type CurationReview struct {
	ID         int64      `db:"review_id"`
	NFTID      int64      `db:"nft_id"`
	CuratorID  int64      `db:"curator_id"`
	Decision   string     `db:"decision_code"`
	Comment    string     `db:"comment"`
	StartedAt  time.Time  `db:"started_at"`
	ReviewedAt *time.Time `db:"reviewed_at"`
}

// Auction is a timed sale of one NFT.
type Auction struct {
	ID              int64           `db:"auction_id"`
	SettingsID      int64           `db:"settings_id"`
	NFTID           int64           `db:"nft_id"`
	StartAt         time.Time       `db:"start_at"`
	EndAt           time.Time       `db:"end_at"`
	StartingPrice   decimal.Decimal `db:"starting_price_eth"`
	CurrentPrice    decimal.Decimal `db:"current_price_eth"`
	CurrentLeaderID *int64          `db:"current_leader_id"`
	Status          string          `db:"status_code"`
}

// Bid is a single offer on an auction.
type Bid struct {
	ID        int64           `db:"bid_id"`
	AuctionID int64           `db:"auction_id"`
	BidderID  int64           `db:"bidder_id"`
	Amount    decimal.Decimal `db:"amount_eth"`
	PlacedAt  time.Time       `db:"placed_at"`
}

// FundsReservation is the amount committed by the winner of an auction.
type FundsReservation struct {
	ID        int64           `db:"reservation_id"`
	AuctionID int64           `db:"auction_id"`
	UserID    int64           `db:"user_id"`
	Amount    decimal.Decimal `db:"amount_eth"`
	State     string          `db:"state_code"`
	CreatedAt time.Time       `db:"created_at"`
}

// LedgerEntry is an immutable debit or credit tied to a user and auction.
type LedgerEntry struct {
	ID        int64           `db:"entry_id"`
	AuctionID int64           `db:"auction_id"`
	UserID    int64           `db:"user_id"`
	Amount    decimal.Decimal `db:"amount_eth"`
	Type      string          `db:"entry_type"`
	CreatedAt time.Time       `db:"created_at"`
}

// EmailOutbox is a queued notification.
type EmailOutbox struct {
	ID              int64  `db:"email_id"`
	RecipientUserID int64  `db:"recipient_user_id"`
	RecipientEmail  string `db:"recipient_email"`
	Subject         string `db:"subject"`
	Body            string `db:"body"`
	Status          string `db:"status_code"`
}

// Dataset is everything generated by one run.
type Dataset struct {
	RunID uuid.UUID
	Seed  int64
	AsOf  time.Time

	Statuses        []Status
	Roles           []Role
	Users           []User
	AuctionSettings []AuctionSettings
	NFTSettings     []NFTSettings

	UserRoles  []UserRole
	UserEmails []UserEmail
	Wallets    []Wallet
	NFTs       []NFT

	CurationReviews []CurationReview
	Auctions        []Auction
	Bids            []Bid
	Reservations    []FundsReservation
	Ledger          []LedgerEntry
	Outbox          []EmailOutbox

	// OpeningWallets is the wallet state before any settlement, after
	// funding winners. It is not exported to sinks.
	OpeningWallets []Wallet
}

// runNamespace scopes run ids derived from seeds.
var runNamespace = uuid.MustParse("6f1c2a0e-8a53-4f4e-9a43-5b1e2f7d9c10")

// RunID returns the deterministic identifier of a run with the given seed.
func RunID(seed int64) uuid.UUID {
	var b [8]byte
	for i := range b {
		b[i] = byte(uint64(seed) >> (8 * i))
	}
	return uuid.NewSHA1(runNamespace, b[:])
}

// Counts returns the number of rows per table, keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"statuses":           len(d.Statuses),
		"roles":              len(d.Roles),
		"users":              len(d.Users),
		"auction_settings":   len(d.AuctionSettings),
		"nft_settings":       len(d.NFTSettings),
		"user_roles":         len(d.UserRoles),
		"user_emails":        len(d.UserEmails),
		"wallets":            len(d.Wallets),
		"nfts":               len(d.NFTs),
		"curation_reviews":   len(d.CurationReviews),
		"auctions":           len(d.Auctions),
		"bids":               len(d.Bids),
		"funds_reservations": len(d.Reservations),
		"ledger_entries":     len(d.Ledger),
		"email_outbox":       len(d.Outbox),
	}
}
