package simulation

import (
	"fmt"
	"strings"

	"royal-odds/internal/card"
	appErr "royal-odds/pkg/errors"
)

// Mode selects how a deal is bucketed.
type Mode string

const (
	// Preflop buckets by the tracked player's two hole ranks.
	Preflop Mode = "preflop"
	// Postflop buckets by the hole ranks plus the first three community ranks.
	Postflop Mode = "postflop"
)

var Modes = []Mode{Preflop, Postflop}

type keySet struct {
	keys  []string
	index map[string]int
}

func newKeySet(n int) keySet {
	keys := card.RankMultisets(n)
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return keySet{keys: keys, index: index}
}

var (
	preflopKeys  = newKeySet(2)
	postflopKeys = newKeySet(5)
)

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", appErr.ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	return m == Preflop || m == Postflop
}

// KeyLength is the number of ranks in a bucket key.
func (m Mode) KeyLength() int {
	if m == Preflop {
		return 2
	}
	return 5
}

func (m Mode) keySet() keySet {
	if m == Preflop {
		return preflopKeys
	}
	return postflopKeys
}

// Keys lists every bucket key of the mode in its stable enumeration order.
func (m Mode) Keys() []string {
	keys := m.keySet().keys
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Key derives the bucket key for a player's hole cards and the community cards.
func (m Mode) Key(hole, community []card.Card) string {
	if m == Preflop {
		return card.RankKey(hole...)
	}
	cards := make([]card.Card, 0, 5)
	cards = append(cards, hole...)
	cards = append(cards, community[:3]...)
	return card.RankKey(cards...)
}

// CanonicalKey validates a user-supplied rank string for this mode and returns
// the matching bucket key.
func (m Mode) CanonicalKey(s string) (string, error) {
	key, err := card.CanonicalRanks(s)
	if err != nil {
		return "", err
	}
	if len(key) != m.KeyLength() {
		return "", fmt.Errorf("%w: got %d ranks, want %d", appErr.ErrInvalidHandLength, len(key), m.KeyLength())
	}
	return key, nil
}
