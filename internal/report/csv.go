// Package report writes and reads the flat statistics file produced by a run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"royal-odds/internal/simulation"
)

var Header = []string{"Hand", "Played", "Won", "Even", "Lost"}

// Row is one line of a statistics file. Percentages are kept as written,
// e.g. "45.2%".
type Row struct {
	Hand   string
	Played int64
	Won    string
	Even   string
	Lost   string
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FromTally renders a bucket the way it appears in the statistics file.
func FromTally(key string, t simulation.Tally) Row {
	return Row{
		Hand:   key,
		Played: t.Played,
		Won:    formatPct(t.WonPct()),
		Even:   formatPct(t.TiedPct()),
		Lost:   formatPct(t.LostPct()),
	}
}

// Rows converts a table into file rows in enumeration order.
func Rows(table *simulation.Table) []Row {
	buckets := table.Rows()
	rows := make([]Row, len(buckets))
	for i, b := range buckets {
		rows[i] = FromTally(b.Key, b.Tally)
	}
	return rows
}

func WriteCSV(w io.Writer, table *simulation.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range Rows(table) {
		if err := cw.Write([]string{r.Hand, strconv.FormatInt(r.Played, 10), r.Won, r.Even, r.Lost}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the statistics file to path, replacing any existing file.
func WriteFile(path string, table *simulation.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, table); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty statistics file")
	}
	if strings.Join(records[0], ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(records[0], ","))
	}
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		played, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid played count %q", i+2, rec[1])
		}
		rows = append(rows, Row{Hand: rec[0], Played: played, Won: rec[2], Even: rec[3], Lost: rec[4]})
	}
	return rows, nil
}

func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
