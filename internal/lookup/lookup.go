// Package lookup answers "what are the odds of this hand" from a statistics file.
package lookup

import (
	"fmt"
	"strings"

	"royal-odds/internal/card"
	"royal-odds/internal/report"
	appErr "royal-odds/pkg/errors"
)

type Table struct {
	rows   map[string]report.Row
	keyLen int
}

// New indexes rows by hand. Every hand must have the same number of ranks.
func New(rows []report.Row) (*Table, error) {
	if len(rows) == 0 {
		return nil, appErr.ErrEmptyResult
	}
	t := &Table{rows: make(map[string]report.Row, len(rows)), keyLen: len(rows[0].Hand)}
	for _, r := range rows {
		if len(r.Hand) != t.keyLen {
			return nil, fmt.Errorf("%w: row %q, want %d ranks", appErr.ErrInvalidHandLength, r.Hand, t.keyLen)
		}
		t.rows[r.Hand] = r
	}
	return t, nil
}

func Load(path string) (*Table, error) {
	rows, err := report.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(rows)
}

// KeyLength is the number of ranks a query must contain.
func (t *Table) KeyLength() int { return t.keyLen }

// Canonicalize validates user input and sorts it into bucket-key order,
// so "ka" and "AK" both become "AK".
func (t *Table) Canonicalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if len(s) != t.keyLen {
		return "", fmt.Errorf("%w: got %d characters, want %d", appErr.ErrInvalidHandLength, len(s), t.keyLen)
	}
	return card.CanonicalRanks(s)
}

// Find returns the row for input and its canonical key. ok is false when the
// input is valid but the file holds no row for it.
func (t *Table) Find(input string) (row report.Row, key string, ok bool, err error) {
	key, err = t.Canonicalize(input)
	if err != nil {
		return report.Row{}, "", false, err
	}
	row, ok = t.rows[key]
	return row, key, ok, nil
}

// Describe renders a found row line by line.
func Describe(row report.Row) []string {
	return []string{
		fmt.Sprintf("Information about %s", row.Hand),
		fmt.Sprintf("Hand: %s", row.Hand),
		fmt.Sprintf("Played: %d", row.Played),
		fmt.Sprintf("Won: %s", row.Won),
		fmt.Sprintf("Even: %s", row.Even),
		fmt.Sprintf("Lost: %s", row.Lost),
	}
}

func NotFound(key string) string {
	return fmt.Sprintf("No information about %s", key)
}
