// Package rng provides deterministic random streams for the generator.
//
// Every component draws from its own stream derived from the run seed, so
// adding, removing or reordering a component never perturbs the draws of
// another one.
package rng

import (
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Component identifies a named random stream within a run.
type Component uint64

// Stream offsets. The values are part of the output contract: changing one
// changes every dataset generated for a given seed.
const (
	ComponentUsers    Component = 200
	ComponentRoles    Component = 301
	ComponentEmails   Component = 302
	ComponentWallets  Component = 303
	ComponentNFTs     Component = 304
	ComponentCuration Component = 400
	ComponentAuctions Component = 410
	ComponentBids     Component = 420
)

// Derive returns the seed of the stream for component c. Index separates
// independent sub-streams of the same component (one per auction for bids).
func Derive(base int64, c Component, index int) uint64 {
	x := uint64(base) + uint64(c)<<32 + uint64(index)
	return splitmix64(x)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Source is a seeded pseudo-random stream. It is not safe for concurrent use;
// give each goroutine its own Source.
type Source struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// New returns a Source seeded with seed.
func New(seed uint64) *Source {
	pcg := rand.NewPCG(seed, splitmix64(seed))
	return &Source{pcg: pcg, r: rand.New(pcg)}
}

// For is shorthand for New(Derive(base, c, index)).
func For(base int64, c Component, index int) *Source {
	return New(Derive(base, c, index))
}

// Poisson draws from a Poisson distribution with mean lambda.
func (s *Source) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: s.pcg}.Rand())
}

// Uniform draws uniformly from [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: s.pcg}.Rand()
}

// Float64 returns a float in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// IntN returns an int in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int { return s.r.IntN(n) }

// IntRange returns an int in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Between returns a time uniformly drawn from [start, end) at one-second
// resolution. It returns start when the interval is shorter than a second.
func (s *Source) Between(start, end time.Time) time.Time {
	secs := int64(end.Sub(start) / time.Second)
	if secs <= 0 {
		return start
	}
	return start.Add(time.Duration(s.r.Int64N(secs)) * time.Second)
}

// Times returns n times drawn from [start, end) at one-second resolution,
// sorted ascending. The times are distinct whenever the interval holds at
// least n whole seconds; otherwise ties are unavoidable.
func (s *Source) Times(start, end time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	secs := int64(end.Sub(start) / time.Second)
	switch {
	case n <= 0:
		return out
	case secs < int64(n):
		for range n {
			out = append(out, s.Between(start, end))
		}
	case int64(n)*2 <= secs:
		seen := make(map[int64]struct{}, n)
		for len(out) < n {
			off := s.r.Int64N(secs)
			if _, dup := seen[off]; dup {
				continue
			}
			seen[off] = struct{}{}
			out = append(out, start.Add(time.Duration(off)*time.Second))
		}
	default:
		for _, off := range s.r.Perm(int(secs))[:n] {
			out = append(out, start.Add(time.Duration(off)*time.Second))
		}
	}
	slices.SortFunc(out, time.Time.Compare)
	return out
}

// Weighted picks an index with probability proportional to weights.
// Non-positive weights are never picked unless all weights are non-positive,
// in which case index 0 is returned.
func (s *Source) Weighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	x := s.r.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if x < w {
			return i
		}
		x -= w
	}
	return last
}

// Pick returns a uniformly drawn element of items. It panics on an empty slice.
func Pick[T any](s *Source, items []T) T {
	return items[s.IntN(len(items))]
}

// Hex returns n random lowercase hexadecimal characters.
func (s *Source) Hex(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[s.r.IntN(len(digits))]
	}
	return string(b)
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int { return s.r.Perm(n) }
