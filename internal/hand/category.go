package hand

import "fmt"

// Category is a hand strength class of the reduced deck. Lower values are stronger.
type Category int

const (
	RoyalFlush Category = iota
	FourOfAKind
	FullHouse
	Straight
	TwoPair
)

const NumCategories = 5

// Categories lists every category from strongest to weakest.
var Categories = [NumCategories]Category{RoyalFlush, FourOfAKind, FullHouse, Straight, TwoPair}

func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "Royal Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Straight:
		return "Straight"
	case TwoPair:
		return "Two Pair"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Strength is the position in the category table: 0 = Royal Flush ... 4 = Two Pair.
func (c Category) Strength() int { return int(c) }

// HasKickers reports whether hands of this category can be told apart by their cards.
// Every royal flush and every straight in the reduced deck is rank-for-rank identical.
func (c Category) HasKickers() bool {
	return c != RoyalFlush && c != Straight
}

func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}
