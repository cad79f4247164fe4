package report

import (
	"fmt"
	"strconv"

	"royal-odds/internal/hand"
	"royal-odds/internal/simulation"
)

// SummaryLine renders a bucket for the console, e.g. "AK W: 45% S: 3% L: 52%".
func SummaryLine(key string, t simulation.Tally) string {
	return fmt.Sprintf("%s W: %.0f%% S: %.0f%% L: %.0f%%", key, t.WonPct(), t.TiedPct(), t.LostPct())
}

// SummaryTable returns a header plus one row per bucket, ready for a terminal table.
func SummaryTable(table *simulation.Table) [][]string {
	data := [][]string{{"Hand", "Played", "Won", "Even", "Lost"}}
	for _, b := range table.Rows() {
		data = append(data, []string{
			b.Key,
			strconv.FormatInt(b.Played, 10),
			fmt.Sprintf("%.0f%%", b.WonPct()),
			fmt.Sprintf("%.0f%%", b.TiedPct()),
			fmt.Sprintf("%.0f%%", b.LostPct()),
		})
	}
	return data
}

// CategoryTable lists how often each category was the tracked player's best
// hand, with four decimals of percentage.
func CategoryTable(table *simulation.Table) [][]string {
	counts := table.Categories()
	var total int64
	for _, n := range counts {
		total += n
	}
	data := [][]string{{"Category", "Count", "Share"}}
	for _, c := range hand.Categories {
		share := 0.0
		if total > 0 {
			share = float64(counts[c]) * 100 / float64(total)
		}
		data = append(data, []string{c.String(), strconv.FormatInt(counts[c], 10), fmt.Sprintf("%.4f%%", share)})
	}
	return data
}
