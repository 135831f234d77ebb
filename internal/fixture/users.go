package fixture

import (
	"fmt"

	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/money"
	"github.com/jensholdgaard/auction-datagen/internal/rng"
)

const emailAttempts = 100

// Users returns the configured number of users with random full names,
// created uniformly over the simulation window.
func (g *Generator) Users(ids *dataset.IDs) []dataset.User {
	src := rng.For(g.p.Seed, rng.ComponentUsers, 0)
	out := make([]dataset.User, g.p.Users)
	for i := range out {
		out[i] = dataset.User{
			ID:        ids.Next(dataset.SeqUser),
			FullName:  rng.Pick(src, firstNames) + " " + rng.Pick(src, lastNames),
			CreatedAt: src.Between(g.p.Start, g.p.End),
		}
	}
	return out
}

// UserRoles assigns each user between RolesPerUserMin and RolesPerUserMax
// distinct roles drawn by weight without replacement. With probability
// 1-MultiRoleProb only the first drawn role is kept.
func (g *Generator) UserRoles(users []dataset.User, roles []dataset.Role) []dataset.UserRole {
	src := rng.For(g.p.Seed, rng.ComponentRoles, 0)
	names, weights := weighted(g.p.RoleProbs)
	roleID := make(map[string]int64, len(roles))
	for _, r := range roles {
		roleID[r.Name] = r.ID
	}

	var out []dataset.UserRole
	for _, u := range users {
		k := src.IntRange(g.p.RolesPerUserMin, g.p.RolesPerUserMax)
		w := append([]float64(nil), weights...)
		var chosen []int
		for len(chosen) < k && len(chosen) < len(names) {
			i := src.Weighted(w)
			if w[i] <= 0 {
				break
			}
			chosen = append(chosen, i)
			w[i] = 0
		}
		if len(chosen) > 1 && src.Float64() > g.p.MultiRoleProb {
			chosen = chosen[:1]
		}

		// Assignments are emitted in role name order.
		picked := make([]bool, len(names))
		for _, i := range chosen {
			picked[i] = true
		}
		for i, ok := range picked {
			if !ok {
				continue
			}
			id, known := roleID[names[i]]
			if !known {
				continue
			}
			out = append(out, dataset.UserRole{
				UserID:     u.ID,
				RoleID:     id,
				AssignedAt: src.Between(u.CreatedAt, g.p.End),
			})
		}
	}
	return out
}

// UserEmails returns between EmailsPerUserMin and EmailsPerUserMax unique
// addresses per user, exactly one of them primary.
func (g *Generator) UserEmails(ids *dataset.IDs, users []dataset.User) []dataset.UserEmail {
	src := rng.For(g.p.Seed, rng.ComponentEmails, 0)
	used := make(map[string]struct{})
	domains := g.p.EmailDomains
	if len(domains) == 0 {
		domains = []string{"example.com"}
	}

	var out []dataset.UserEmail
	for _, u := range users {
		n := max(src.IntRange(g.p.EmailsPerUserMin, g.p.EmailsPerUserMax), 1)
		primary := src.IntN(n)
		local := asciiLocal(u.FullName)

		for i := 0; i < n; i++ {
			id := ids.Next(dataset.SeqEmail)
			var addr string
			for attempt := 0; attempt < emailAttempts; attempt++ {
				addr = fmt.Sprintf("%s%d@%s", local, src.IntN(10000), rng.Pick(src, domains))
				if _, dup := used[addr]; !dup {
					break
				}
			}
			if _, dup := used[addr]; dup {
				addr = fmt.Sprintf("%s.%d@%s", local, id, domains[0])
			}
			used[addr] = struct{}{}

			e := dataset.UserEmail{
				ID:        id,
				UserID:    u.ID,
				Email:     addr,
				IsPrimary: i == primary,
				AddedAt:   src.Between(u.CreatedAt, g.p.End),
				Status:    dataset.EmailInactive,
			}
			if src.Float64() < 0.90 {
				e.Status = dataset.EmailActive
			}
			if e.Status == dataset.EmailActive {
				p := 0.85
				if e.IsPrimary {
					p += 0.08
				}
				if src.Float64() < min(p, g.p.PctPrimaryVerified) {
					v := src.Between(e.AddedAt, g.p.End)
					e.VerifiedAt = &v
				}
			}
			out = append(out, e)
		}
	}
	return out
}

// Wallets returns one wallet per user with Reserved never above Balance.
func (g *Generator) Wallets(ids *dataset.IDs, users []dataset.User) []dataset.Wallet {
	src := rng.For(g.p.Seed, rng.ComponentWallets, 0)
	out := make([]dataset.Wallet, len(users))
	for i, u := range users {
		balance := money.FromFloat(src.Uniform(g.p.BalanceMin, g.p.BalanceMax), g.p.Precision)
		hi := min(balance.InexactFloat64(), g.p.ReservedMax)
		reserved := money.FromFloat(src.Uniform(g.p.ReservedMin, hi), g.p.Precision)
		if reserved.GreaterThan(balance) {
			reserved = balance
		}
		out[i] = dataset.Wallet{
			ID:        ids.Next(dataset.SeqWallet),
			UserID:    u.ID,
			Balance:   balance,
			Reserved:  reserved,
			UpdatedAt: src.Between(u.CreatedAt, g.p.End),
		}
	}
	return out
}
