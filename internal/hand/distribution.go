package hand

import (
	"sort"
	"strconv"
	"strings"

	"royal-odds/internal/card"
)

// Distribution counts cards per rank. Order lists the ranks by descending
// count; ranks with equal counts keep canonical order (A, K, Q, J, T).
type Distribution struct {
	Counts [card.NumRanks]int
	Order  [card.NumRanks]card.Rank
}

func NewDistribution(cards []card.Card) Distribution {
	var d Distribution
	for _, c := range cards {
		d.Counts[c.Rank]++
	}
	d.Order = card.Ranks
	sort.SliceStable(d.Order[:], func(i, j int) bool {
		return d.Counts[d.Order[i]] > d.Counts[d.Order[j]]
	})
	return d
}

// Rank returns the i-th rank in count order.
func (d Distribution) Rank(i int) card.Rank { return d.Order[i] }

// Top returns the count of the i-th rank in count order.
func (d Distribution) Top(i int) int { return d.Counts[d.Order[i]] }

// Covers reports whether every rank appears at least once.
func (d Distribution) Covers() bool {
	for _, n := range d.Counts {
		if n == 0 {
			return false
		}
	}
	return true
}

// PairRanks returns the ranks that appear exactly twice, in count order.
func (d Distribution) PairRanks() []card.Rank {
	var out []card.Rank
	for _, r := range d.Order {
		if d.Counts[r] == 2 {
			out = append(out, r)
		}
	}
	return out
}

// String renders the distribution as "A:3 K:2 Q:1 J:1 T:0".
func (d Distribution) String() string {
	parts := make([]string, 0, card.NumRanks)
	for _, r := range d.Order {
		parts = append(parts, r.String()+":"+strconv.Itoa(d.Counts[r]))
	}
	return strings.Join(parts, " ")
}
