package fixture

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
	"github.com/jensholdgaard/auction-datagen/internal/rng"
)

var (
	nftStatusCodes   = []string{dataset.NFTApproved, dataset.NFTPending, dataset.NFTRejected}
	nftStatusWeights = []float64{0.75, 0.10, 0.15}

	pendingDecisionCodes   = []string{dataset.NFTPending, dataset.NFTApproved, dataset.NFTRejected}
	pendingDecisionWeights = []float64{0.20, 0.60, 0.20}
)

// NFTs returns artworks by ARTIST role holders, or by any user when nobody
// holds the role. Each NFT starts owned by its artist.
func (g *Generator) NFTs(ids *dataset.IDs, users []dataset.User, roles []dataset.Role, assignments []dataset.UserRole) []dataset.NFT {
	src := rng.For(g.p.Seed, rng.ComponentNFTs, 0)
	artists := dataset.RoleHolders(roles, assignments, dataset.RoleArtist)
	if len(artists) == 0 {
		artists = dataset.UserIDs(users)
	}
	created := make(map[int64]time.Time, len(users))
	for _, u := range users {
		created[u.ID] = u.CreatedAt
	}
	contentTypes := g.p.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = []string{"image/png"}
	}

	out := make([]dataset.NFT, 0, g.p.NFTs)
	for i := 0; i < g.p.NFTs; i++ {
		id := ids.Next(dataset.SeqNFT)
		artist := rng.Pick(src, artists)
		createdAt := src.Between(created[artist], g.p.End)
		n := dataset.NFT{
			ID:             id,
			ArtistID:       artist,
			SettingsID:     1,
			CurrentOwnerID: artist,
			Name:           fmt.Sprintf("Artwork #%04d", id),
			Description:    fmt.Sprintf("Generated artwork for the ArteCrypto dataset (ID %d).", id),
			ContentType:    rng.Pick(src, contentTypes),
			HashCode:       src.Hex(64),
			FileSizeBytes:  int64(src.IntRange(60_000, 7_999_999)),
			WidthPx:        src.IntRange(512, 4095),
			HeightPx:       src.IntRange(512, 4095),
			SuggestedPrice: money.FromFloat(src.Uniform(g.p.SuggestedPriceMin, g.p.SuggestedPriceMax), g.p.Precision),
			Status:         nftStatusCodes[src.Weighted(nftStatusWeights)],
			CreatedAt:      createdAt,
		}
		if n.Status == dataset.NFTApproved {
			at := src.Between(createdAt, g.p.End)
			n.ApprovedAt = &at
		}
		out = append(out, n)
	}
	return out
}

// CurationReviews returns one review per NFT. Approved and rejected NFTs get
// the matching decision; pending ones are sampled and may still be open.
func (g *Generator) CurationReviews(ids *dataset.IDs, nfts []dataset.NFT, users []dataset.User, roles []dataset.Role, assignments []dataset.UserRole) []dataset.CurationReview {
	src := rng.For(g.p.Seed, rng.ComponentCuration, 0)
	curators := dataset.RoleHolders(roles, assignments, dataset.RoleCurator)
	if len(curators) == 0 {
		curators = dataset.UserIDs(users)
	}
	if len(curators) == 0 {
		return nil
	}

	out := make([]dataset.CurationReview, 0, len(nfts))
	for _, n := range nfts {
		r := dataset.CurationReview{
			ID:        ids.Next(dataset.SeqReview),
			NFTID:     n.ID,
			CuratorID: rng.Pick(src, curators),
			StartedAt: src.Between(n.CreatedAt, g.p.End),
		}
		switch n.Status {
		case dataset.NFTApproved, dataset.NFTRejected:
			r.Decision = n.Status
		default:
			r.Decision = pendingDecisionCodes[src.Weighted(pendingDecisionWeights)]
		}
		if r.Decision != dataset.NFTPending {
			at := src.Between(r.StartedAt, g.p.End)
			r.ReviewedAt = &at
		}
		r.Comment = "Automated review - decision: " + r.Decision
		out = append(out, r)
	}
	return out
}

// Auctions lists a PctNFTsInAuction share of the approved NFTs, drawn
// without replacement. Auctions that would end after End are still ACTIVE;
// the others get a status weighted by AuctionStatusProbs.
func (g *Generator) Auctions(ids *dataset.IDs, nfts []dataset.NFT, settings dataset.AuctionSettings) []dataset.Auction {
	src := rng.For(g.p.Seed, rng.ComponentAuctions, 0)
	var approved []dataset.NFT
	for _, n := range nfts {
		if n.Status == dataset.NFTApproved {
			approved = append(approved, n)
		}
	}
	k := int(math.Round(float64(len(approved)) * g.p.PctNFTsInAuction))
	k = min(max(k, 0), len(approved))
	if k == 0 {
		return nil
	}

	statuses, weights := weighted(g.p.AuctionStatusProbs)
	duration := time.Duration(settings.DefaultAuctionHours) * time.Hour
	perm := src.Perm(len(approved))

	out := make([]dataset.Auction, 0, k)
	for _, i := range perm[:k] {
		n := approved[i]
		from := n.CreatedAt
		if n.ApprovedAt != nil {
			from = *n.ApprovedAt
		}
		start := src.Between(from, g.p.End)
		end := start.Add(duration)

		status := dataset.AuctionActive
		if !end.After(g.p.End) && len(statuses) > 0 {
			status = statuses[src.Weighted(weights)]
		}
		price := n.SuggestedPrice.Mul(decimal.NewFromFloat(src.Uniform(0.8, 1.2))).Round(g.p.Precision)
		out = append(out, dataset.Auction{
			ID:            ids.Next(dataset.SeqAuction),
			SettingsID:    settings.ID,
			NFTID:         n.ID,
			StartAt:       start,
			EndAt:         end,
			StartingPrice: price,
			CurrentPrice:  price,
			Status:        status,
		})
	}
	return out
}
