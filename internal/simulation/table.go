package simulation

import (
	"errors"
	"fmt"

	"royal-odds/internal/hand"
	"royal-odds/internal/showdown"
)

var ErrUnknownBucket = errors.New("unknown bucket key")

// Tally counts the deals of one bucket. Won+Tied+Lost always equals Played.
type Tally struct {
	Played int64 `json:"played"`
	Won    int64 `json:"won"`
	Tied   int64 `json:"tied"`
	Lost   int64 `json:"lost"`
}

func (t *Tally) Add(o showdown.Outcome) {
	t.Played++
	switch o {
	case showdown.Won:
		t.Won++
	case showdown.Tied:
		t.Tied++
	default:
		t.Lost++
	}
}

func (t Tally) Plus(o Tally) Tally {
	return Tally{
		Played: t.Played + o.Played,
		Won:    t.Won + o.Won,
		Tied:   t.Tied + o.Tied,
		Lost:   t.Lost + o.Lost,
	}
}

func (t Tally) Balanced() bool {
	return t.Won+t.Tied+t.Lost == t.Played
}

func (t Tally) WonPct() float64  { return pct(t.Won, t.Played) }
func (t Tally) TiedPct() float64 { return pct(t.Tied, t.Played) }
func (t Tally) LostPct() float64 { return pct(t.Lost, t.Played) }

func pct(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// Row is one bucket of a table.
type Row struct {
	Key string
	Tally
}

// Table holds the tallies of one harness run, one per bucket key, plus a
// histogram of the tracked player's best category.
type Table struct {
	mode       Mode
	tallies    []Tally
	categories [hand.NumCategories]int64
}

func NewTable(mode Mode) *Table {
	return &Table{
		mode:    mode,
		tallies: make([]Tally, len(mode.keySet().keys)),
	}
}

func (t *Table) Mode() Mode { return t.mode }

func (t *Table) Record(key string, o showdown.Outcome) error {
	i, ok := t.mode.keySet().index[key]
	if !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownBucket, key, t.mode)
	}
	t.tallies[i].Add(o)
	return nil
}

func (t *Table) RecordCategory(c hand.Category) {
	t.categories[c]++
}

// Merge adds other's counts into t.
func (t *Table) Merge(other *Table) error {
	if other.mode != t.mode {
		return fmt.Errorf("cannot merge %s table into %s table", other.mode, t.mode)
	}
	for i := range t.tallies {
		t.tallies[i] = t.tallies[i].Plus(other.tallies[i])
	}
	for i := range t.categories {
		t.categories[i] += other.categories[i]
	}
	return nil
}

func (t *Table) Get(key string) (Tally, bool) {
	i, ok := t.mode.keySet().index[key]
	if !ok {
		return Tally{}, false
	}
	return t.tallies[i], true
}

// Rows returns every bucket in the mode's enumeration order, including empty ones.
func (t *Table) Rows() []Row {
	keys := t.mode.keySet().keys
	rows := make([]Row, len(keys))
	for i, k := range keys {
		rows[i] = Row{Key: k, Tally: t.tallies[i]}
	}
	return rows
}

func (t *Table) Total() Tally {
	var total Tally
	for _, tl := range t.tallies {
		total = total.Plus(tl)
	}
	return total
}

// Categories returns how often each category was the tracked player's best hand.
func (t *Table) Categories() map[hand.Category]int64 {
	out := make(map[hand.Category]int64, hand.NumCategories)
	for _, c := range hand.Categories {
		out[c] = t.categories[c]
	}
	return out
}
