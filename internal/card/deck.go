package card

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a shuffled sequence of the 20 cards. Cards are dealt from the end and
// never return to the deck.
type Deck struct {
	cards []Card
}

// NewDeck returns all 20 cards in random order. A nil r uses the package-level source.
func NewDeck(r *rand.Rand) *Deck {
	cards := All()
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Deal removes and returns the last n cards, last card first.
func (d *Deck) Deal(n int) ([]Card, error) {
	total := len(d.cards)
	if n < 0 || n > total {
		return nil, fmt.Errorf("%w: requested %d, %d remaining", ErrDeckExhausted, n, total)
	}
	out := make([]Card, n)
	for i := 0; i < n; i++ {
		out[i] = d.cards[total-1-i]
	}
	d.cards = d.cards[:total-n]
	return out, nil
}
