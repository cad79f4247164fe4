package card

import (
	"fmt"
	"sort"
	"strings"
)

// Rank is one of the five ranks of the reduced deck. Index 0 is the best.
type Rank uint8

const (
	Ace Rank = iota
	King
	Queen
	Jack
	Ten
)

// NumRanks is the size of the rank table.
const NumRanks = 5

// Suit only matters for flush detection.
type Suit uint8

const (
	Clubs Suit = iota
	Hearts
	Spades
	Diamonds
)

const NumSuits = 4

const (
	rankChars = "AKQJT"
	suitChars = "CHSD"
)

// Ranks lists every rank in canonical order (A, K, Q, J, T).
var Ranks = [NumRanks]Rank{Ace, King, Queen, Jack, Ten}

// Suits lists every suit in table order.
var Suits = [NumSuits]Suit{Clubs, Hearts, Spades, Diamonds}

func (r Rank) String() string {
	if int(r) >= NumRanks {
		return "?"
	}
	return rankChars[r : r+1]
}

// Index is the position of r in the canonical rank order; lower is stronger.
func (r Rank) Index() int { return int(r) }

func (s Suit) String() string {
	if int(s) >= NumSuits {
		return "?"
	}
	return suitChars[s : s+1]
}

// Card is an immutable (rank, suit) pair, e.g. "AC".
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Less orders cards by rank (best first), then by suit.
func (c Card) Less(o Card) bool {
	if c.Rank != o.Rank {
		return c.Rank < o.Rank
	}
	return c.Suit < o.Suit
}

// All returns the 20 cards of the reduced deck, suit-major.
func All() []Card {
	cards := make([]Card, 0, NumRanks*NumSuits)
	for _, s := range Suits {
		for _, r := range Ranks {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// ParseRank accepts one of A, K, Q, J, T (case-insensitive).
func ParseRank(b byte) (Rank, bool) {
	i := strings.IndexByte(rankChars, upper(b))
	if i < 0 {
		return 0, false
	}
	return Rank(i), true
}

func parseSuit(b byte) (Suit, bool) {
	i := strings.IndexByte(suitChars, upper(b))
	if i < 0 {
		return 0, false
	}
	return Suit(i), true
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// Parse converts a two-character string such as "AC" or "th" into a Card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}
	r, ok := ParseRank(s[0])
	if !ok {
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}
	su, ok := parseSuit(s[1])
	if !ok {
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}
	return Card{Rank: r, Suit: su}, nil
}

func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList parses a whitespace-separated card list like "AC KH QS".
func ParseList(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// SortByRank returns a copy of cards ordered best rank first. The input is left untouched.
func SortByRank(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Join renders cards as "AC KH ...".
func Join(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
