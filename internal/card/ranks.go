package card

import (
	"fmt"
	"sort"
	"strings"

	appErr "royal-odds/pkg/errors"
)

// RankKey concatenates the ranks of cards in canonical order, e.g. (KC, AH) -> "AK".
func RankKey(cards ...Card) string {
	ranks := make([]Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return rankString(ranks)
}

func rankString(ranks []Rank) string {
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
	var b strings.Builder
	b.Grow(len(ranks))
	for _, r := range ranks {
		b.WriteString(r.String())
	}
	return b.String()
}

// CanonicalRanks validates a user-supplied rank string and returns it in the
// same form RankKey produces: uppercase, canonical order, no separators.
func CanonicalRanks(s string) (string, error) {
	s = strings.TrimSpace(s)
	ranks := make([]Rank, 0, len(s))
	for i := 0; i < len(s); i++ {
		r, ok := ParseRank(s[i])
		if !ok {
			return "", fmt.Errorf("%w: %q", appErr.ErrInvalidRank, s[i])
		}
		ranks = append(ranks, r)
	}
	return rankString(ranks), nil
}

// RankMultisets enumerates every multiset of size n over the canonical rank
// order in which no rank appears more than NumSuits times. Keys are produced in
// lexicographic order of rank index, matching combinations-with-replacement.
func RankMultisets(n int) []string {
	var out []string
	buf := make([]Rank, n)
	var walk func(pos int, from Rank, counts [NumRanks]int)
	walk = func(pos int, from Rank, counts [NumRanks]int) {
		if pos == n {
			out = append(out, rankString(append([]Rank(nil), buf...)))
			return
		}
		for r := from; int(r) < NumRanks; r++ {
			if counts[r] == NumSuits {
				continue
			}
			counts[r]++
			buf[pos] = r
			walk(pos+1, r, counts)
			counts[r]--
		}
	}
	walk(0, Ace, [NumRanks]int{})
	return out
}
