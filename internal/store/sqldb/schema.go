// Package sqldb holds the relational schema of a dataset and the transactional
// writer shared by the SQL-backed sinks.
package sqldb

import (
	"fmt"
	"strings"
	"time"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
)

type kind int

const (
	kindInt kind = iota
	kindText
	kindMoney
	kindTime
	kindBool
	kindFloat
)

// Dialect maps column kinds to the types of one database.
type Dialect struct {
	Name  string
	types map[kind]string
}

// Postgres stores money as NUMERIC and times as TIMESTAMPTZ.
var Postgres = Dialect{
	Name: "postgres",
	types: map[kind]string{
		kindInt:   "BIGINT",
		kindText:  "TEXT",
		kindMoney: "NUMERIC(38,18)",
		kindTime:  "TIMESTAMPTZ",
		kindBool:  "BOOLEAN",
		kindFloat: "DOUBLE PRECISION",
	},
}

// SQLite stores money as TEXT, since NUMERIC affinity would coerce it to REAL.
var SQLite = Dialect{
	Name: "sqlite",
	types: map[kind]string{
		kindInt:   "INTEGER",
		kindText:  "TEXT",
		kindMoney: "TEXT",
		kindTime:  "TIMESTAMP",
		kindBool:  "BOOLEAN",
		kindFloat: "REAL",
	},
}

type column struct {
	name string
	kind kind
	null bool
	ref  string
}

type table struct {
	name    string
	columns []column
	key     []string
	unique  [][]string
	rows    func(ds *dataset.Dataset) [][]any
}

func col(name string, k kind) column { return column{name: name, kind: k} }

func nullable(name string, k kind) column { return column{name: name, kind: k, null: true} }

func fk(name, ref string) column { return column{name: name, kind: kindInt, ref: ref} }

func nullableFK(name, ref string) column {
	return column{name: name, kind: kindInt, null: true, ref: ref}
}

func key(names ...string) []string { return names }

func uniques(sets ...[]string) [][]string { return sets }

func utc(t time.Time) time.Time { return t.UTC() }

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

const runTable = "generator_run"

var runColumns = []column{
	col("run_id", kindText),
	col("seed", kindInt),
	col("as_of", kindTime),
	col("written_at", kindTime),
}

// tables lists every table in insertion order; each only references tables
// before it.
var tables = []table{
	{
		name: "statuses",
		columns: []column{
			col("status_id", kindInt), col("domain", kindText), col("code", kindText), col("description", kindText),
		},
		key:    key("status_id"),
		unique: uniques(key("domain", "code")),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Statuses))
			for _, s := range ds.Statuses {
				out = append(out, []any{s.ID, s.Domain, s.Code, s.Description})
			}
			return out
		},
	},
	{
		name:    "roles",
		columns: []column{col("role_id", kindInt), col("name", kindText)},
		key:     key("role_id"),
		unique:  uniques(key("name")),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Roles))
			for _, r := range ds.Roles {
				out = append(out, []any{r.ID, r.Name})
			}
			return out
		},
	},
	{
		name:    "users",
		columns: []column{col("user_id", kindInt), col("full_name", kindText), col("created_at", kindTime)},
		key:     key("user_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Users))
			for _, u := range ds.Users {
				out = append(out, []any{u.ID, u.FullName, utc(u.CreatedAt)})
			}
			return out
		},
	},
	{
		name: "auction_settings",
		columns: []column{
			col("settings_id", kindInt), col("company_name", kindText), col("base_price_eth", kindMoney),
			col("default_auction_hours", kindInt), col("min_bid_increment_pct", kindFloat),
		},
		key: key("settings_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.AuctionSettings))
			for _, s := range ds.AuctionSettings {
				out = append(out, []any{s.ID, s.CompanyName, s.BasePrice, int64(s.DefaultAuctionHours), s.MinBidIncrementPct})
			}
			return out
		},
	},
	{
		name: "nft_settings",
		columns: []column{
			col("settings_id", kindInt), col("max_width_px", kindInt), col("min_width_px", kindInt),
			col("max_height_px", kindInt), col("min_height_px", kindInt),
			col("max_file_size_bytes", kindInt), col("min_file_size_bytes", kindInt), col("created_at", kindTime),
		},
		key: key("settings_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.NFTSettings))
			for _, s := range ds.NFTSettings {
				out = append(out, []any{
					s.ID, int64(s.MaxWidthPx), int64(s.MinWidthPx), int64(s.MaxHeightPx), int64(s.MinHeightPx),
					s.MaxFileSizeBytes, s.MinFileSizeBytes, utc(s.CreatedAt),
				})
			}
			return out
		},
	},
	{
		name: "user_roles",
		columns: []column{
			fk("user_id", "users(user_id)"), fk("role_id", "roles(role_id)"), col("assigned_at", kindTime),
		},
		key: key("user_id", "role_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.UserRoles))
			for _, r := range ds.UserRoles {
				out = append(out, []any{r.UserID, r.RoleID, utc(r.AssignedAt)})
			}
			return out
		},
	},
	{
		name: "user_emails",
		columns: []column{
			col("email_id", kindInt), fk("user_id", "users(user_id)"), col("email", kindText),
			col("is_primary", kindBool), col("added_at", kindTime), nullable("verified_at", kindTime),
			col("status_code", kindText),
		},
		key:    key("email_id"),
		unique: uniques(key("email")),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.UserEmails))
			for _, e := range ds.UserEmails {
				out = append(out, []any{e.ID, e.UserID, e.Email, e.IsPrimary, utc(e.AddedAt), nullTime(e.VerifiedAt), e.Status})
			}
			return out
		},
	},
	{
		name: "wallets",
		columns: []column{
			col("wallet_id", kindInt), fk("user_id", "users(user_id)"), col("balance_eth", kindMoney),
			col("reserved_eth", kindMoney), col("updated_at", kindTime),
		},
		key:    key("wallet_id"),
		unique: uniques(key("user_id")),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Wallets))
			for _, w := range ds.Wallets {
				out = append(out, []any{w.ID, w.UserID, w.Balance, w.Reserved, utc(w.UpdatedAt)})
			}
			return out
		},
	},
	{
		name: "nfts",
		columns: []column{
			col("nft_id", kindInt), fk("artist_id", "users(user_id)"), fk("settings_id", "nft_settings(settings_id)"),
			fk("current_owner_id", "users(user_id)"), col("name", kindText), col("description", kindText),
			col("content_type", kindText), col("hash_code", kindText), col("file_size_bytes", kindInt),
			col("width_px", kindInt), col("height_px", kindInt), col("suggested_price_eth", kindMoney),
			col("status_code", kindText), col("created_at", kindTime), nullable("approved_at", kindTime),
		},
		key: key("nft_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.NFTs))
			for _, n := range ds.NFTs {
				out = append(out, []any{
					n.ID, n.ArtistID, n.SettingsID, n.CurrentOwnerID, n.Name, n.Description,
					n.ContentType, n.HashCode, n.FileSizeBytes, int64(n.WidthPx), int64(n.HeightPx),
					n.SuggestedPrice, n.Status, utc(n.CreatedAt), nullTime(n.ApprovedAt),
				})
			}
			return out
		},
	},
	{
		name: "curation_reviews",
		columns: []column{
			col("review_id", kindInt), fk("nft_id", "nfts(nft_id)"), fk("curator_id", "users(user_id)"),
			col("decision_code", kindText), col("comment", kindText), col("started_at", kindTime),
			nullable("reviewed_at", kindTime),
		},
		key: key("review_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.CurationReviews))
			for _, r := range ds.CurationReviews {
				out = append(out, []any{r.ID, r.NFTID, r.CuratorID, r.Decision, r.Comment, utc(r.StartedAt), nullTime(r.ReviewedAt)})
			}
			return out
		},
	},
	{
		name: "auctions",
		columns: []column{
			col("auction_id", kindInt), fk("settings_id", "auction_settings(settings_id)"), fk("nft_id", "nfts(nft_id)"),
			col("start_at", kindTime), col("end_at", kindTime), col("starting_price_eth", kindMoney),
			col("current_price_eth", kindMoney), nullableFK("current_leader_id", "users(user_id)"),
			col("status_code", kindText),
		},
		key: key("auction_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Auctions))
			for _, a := range ds.Auctions {
				out = append(out, []any{
					a.ID, a.SettingsID, a.NFTID, utc(a.StartAt), utc(a.EndAt),
					a.StartingPrice, a.CurrentPrice, nullInt(a.CurrentLeaderID), a.Status,
				})
			}
			return out
		},
	},
	{
		name: "bids",
		columns: []column{
			col("bid_id", kindInt), fk("auction_id", "auctions(auction_id)"), fk("bidder_id", "users(user_id)"),
			col("amount_eth", kindMoney), col("placed_at", kindTime),
		},
		key: key("bid_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Bids))
			for _, b := range ds.Bids {
				out = append(out, []any{b.ID, b.AuctionID, b.BidderID, b.Amount, utc(b.PlacedAt)})
			}
			return out
		},
	},
	{
		name: "funds_reservations",
		columns: []column{
			col("reservation_id", kindInt), fk("auction_id", "auctions(auction_id)"), fk("user_id", "users(user_id)"),
			col("amount_eth", kindMoney), col("state_code", kindText), col("created_at", kindTime),
		},
		key: key("reservation_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Reservations))
			for _, r := range ds.Reservations {
				out = append(out, []any{r.ID, r.AuctionID, r.UserID, r.Amount, r.State, utc(r.CreatedAt)})
			}
			return out
		},
	},
	{
		name: "ledger_entries",
		columns: []column{
			col("entry_id", kindInt), fk("auction_id", "auctions(auction_id)"), fk("user_id", "users(user_id)"),
			col("amount_eth", kindMoney), col("entry_type", kindText), col("created_at", kindTime),
		},
		key: key("entry_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Ledger))
			for _, e := range ds.Ledger {
				out = append(out, []any{e.ID, e.AuctionID, e.UserID, e.Amount, e.Type, utc(e.CreatedAt)})
			}
			return out
		},
	},
	{
		name: "email_outbox",
		columns: []column{
			col("email_id", kindInt), fk("recipient_user_id", "users(user_id)"), col("recipient_email", kindText),
			col("subject", kindText), col("body", kindText), col("status_code", kindText),
		},
		key: key("email_id"),
		rows: func(ds *dataset.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Outbox))
			for _, o := range ds.Outbox {
				out = append(out, []any{o.ID, o.RecipientUserID, o.RecipientEmail, o.Subject, o.Body, o.Status})
			}
			return out
		},
	},
}

// Tables returns the data table names in insertion order.
func Tables() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}

// DDL returns the CREATE TABLE statements of the schema for d, run table first.
func (d Dialect) DDL() []string {
	stmts := []string{d.createTable(table{name: runTable, columns: runColumns, key: key("run_id")})}
	for _, t := range tables {
		stmts = append(stmts, d.createTable(t))
	}
	return stmts
}

func (d Dialect) createTable(t table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.name)
	for _, c := range t.columns {
		fmt.Fprintf(&b, "\t%s %s", c.name, d.types[c.kind])
		if !c.null {
			b.WriteString(" NOT NULL")
		}
		if c.ref != "" {
			fmt.Fprintf(&b, " REFERENCES %s", c.ref)
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(&b, "\tPRIMARY KEY (%s)", strings.Join(t.key, ", "))
	for _, u := range t.unique {
		fmt.Fprintf(&b, ",\n\tUNIQUE (%s)", strings.Join(u, ", "))
	}
	b.WriteString("\n)")
	return b.String()
}

// insert returns a multi-row INSERT with ? placeholders for n rows.
func (t table) insert(n int) string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", t.name, strings.Join(names, ", "))
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return b.String()
}
