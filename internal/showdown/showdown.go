// Package showdown decides which players win a deal of the reduced deck.
package showdown

import (
	"fmt"

	"royal-odds/internal/card"
	"royal-odds/internal/hand"
)

// Outcome is a single player's result in one deal.
type Outcome int

const (
	Lost Outcome = iota
	Won
	Tied
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Tied:
		return "tied"
	default:
		return "lost"
	}
}

type Showdown struct {
	Winners []int         // player indices, ascending
	Best    hand.Result   // result of the first winner
	Results []hand.Result // per player
}

// Outcome reports Won for a sole winner, Tied for one of several joint winners,
// and Lost otherwise.
func (s Showdown) Outcome(player int) Outcome {
	for _, w := range s.Winners {
		if w == player {
			if len(s.Winners) == 1 {
				return Won
			}
			return Tied
		}
	}
	return Lost
}

// Resolve evaluates each player's hole cards together with the community cards
// and picks the winners.
func Resolve(holes [][]card.Card, community []card.Card) (Showdown, error) {
	if len(holes) == 0 {
		return Showdown{}, fmt.Errorf("showdown needs at least one player")
	}
	results := make([]hand.Result, len(holes))
	all := make([]card.Card, 0, hand.MaxCards)
	for i, hole := range holes {
		all = append(append(all[:0], hole...), community...)
		res, err := hand.Evaluate(all)
		if err != nil {
			return Showdown{}, fmt.Errorf("player %d: %w", i, err)
		}
		results[i] = res
	}
	winners := Winners(results)
	return Showdown{Winners: winners, Best: results[winners[0]], Results: results}, nil
}

// Winners returns the indices of the strongest results. The strongest category
// wins outright when a single player holds it. Shared royal flushes and
// straights are always split. Otherwise tie-break cards are compared position
// by position, keeping only the players holding the best rank at each step.
func Winners(results []hand.Result) []int {
	if len(results) == 0 {
		return nil
	}
	best := results[0].Category
	for _, r := range results[1:] {
		if r.Category.Strength() < best.Strength() {
			best = r.Category
		}
	}

	contenders := make([]int, 0, len(results))
	for i, r := range results {
		if r.Category == best {
			contenders = append(contenders, i)
		}
	}
	if len(contenders) == 1 || !best.HasKickers() {
		return contenders
	}

	for pos := 0; pos < len(results[contenders[0]].Cards); pos++ {
		top := card.Rank(card.NumRanks)
		for _, i := range contenders {
			if r := results[i].Cards[pos].Rank; r < top {
				top = r
			}
		}
		kept := contenders[:0]
		for _, i := range contenders {
			if results[i].Cards[pos].Rank == top {
				kept = append(kept, i)
			}
		}
		contenders = kept
		if len(contenders) == 1 {
			break
		}
	}
	return contenders
}
