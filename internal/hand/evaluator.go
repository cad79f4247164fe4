package hand

import (
	"errors"
	"fmt"

	"royal-odds/internal/card"
)

const (
	MinCards = 5
	MaxCards = 7
)

var (
	// ErrNoCategory means no category matched. Seven cards from the reduced
	// deck always match one, so this signals a bug or a short hand.
	ErrNoCategory    = errors.New("no hand category matched")
	ErrHandSize      = errors.New("invalid hand size")
	ErrDuplicateCard = errors.New("duplicate card in hand")
)

// Result is the best category of a card set plus the cards that break ties
// within it, most significant first. Cards is nil for a straight.
type Result struct {
	Category Category
	Cards    []card.Card
}

func (r Result) String() string {
	if r.Cards == nil {
		return r.Category.String()
	}
	return r.Category.String() + " [" + card.Join(r.Cards) + "]"
}

// Evaluate classifies 5 to 7 cards. The input slice is not modified.
func Evaluate(cards []card.Card) (Result, error) {
	if len(cards) < MinCards || len(cards) > MaxCards {
		return Result{}, fmt.Errorf("%w: %d cards, want %d-%d", ErrHandSize, len(cards), MinCards, MaxCards)
	}
	var seen [card.NumRanks][card.NumSuits]bool
	var suits [card.NumSuits]int
	for _, c := range cards {
		if seen[c.Rank][c.Suit] {
			return Result{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c.Rank][c.Suit] = true
		suits[c.Suit]++
	}

	for _, s := range card.Suits {
		if suits[s] == card.NumRanks {
			return Result{Category: RoyalFlush, Cards: card.SortByRank(ofSuit(cards, s))}, nil
		}
	}

	dist := NewDistribution(cards)
	switch {
	case dist.Top(0) == 4:
		quad := dist.Rank(0)
		return Result{Category: FourOfAKind, Cards: withKicker(cards, quad)}, nil
	case dist.Top(0) == 3 && dist.Top(1) >= 2:
		out := append(ofRank(cards, dist.Rank(0)), ofRank(cards, dist.Rank(1))...)
		return Result{Category: FullHouse, Cards: out[:5]}, nil
	case dist.Covers():
		return Result{Category: Straight}, nil
	}

	if pairs := dist.PairRanks(); len(pairs) >= 2 {
		return Result{Category: TwoPair, Cards: withKicker(cards, pairs[0], pairs[1])}, nil
	}
	return Result{}, fmt.Errorf("%w: distribution %s", ErrNoCategory, dist)
}

// MustEvaluate panics on error. Only for inputs known to be seven distinct cards.
func MustEvaluate(cards []card.Card) Result {
	r, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return r
}

// withKicker returns the cards of each group rank in order, followed by the
// best remaining card.
func withKicker(cards []card.Card, groups ...card.Rank) []card.Card {
	out := make([]card.Card, 0, 5)
	for _, r := range groups {
		out = append(out, ofRank(cards, r)...)
	}
	rest := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if !inRanks(c.Rank, groups) {
			rest = append(rest, c)
		}
	}
	return append(out, card.SortByRank(rest)[0])
}

func inRanks(r card.Rank, ranks []card.Rank) bool {
	for _, x := range ranks {
		if x == r {
			return true
		}
	}
	return false
}

// ofRank returns the cards of rank r ordered by suit.
func ofRank(cards []card.Card, r card.Rank) []card.Card {
	out := make([]card.Card, 0, card.NumSuits)
	for _, c := range cards {
		if c.Rank == r {
			out = append(out, c)
		}
	}
	return card.SortByRank(out)
}

func ofSuit(cards []card.Card, s card.Suit) []card.Card {
	out := make([]card.Card, 0, card.NumRanks)
	for _, c := range cards {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}
