package simulation

import (
	"context"
	"errors"
	"testing"

	"royal-odds/internal/card"
	"royal-odds/internal/hand"
	"royal-odds/internal/showdown"
	appErr "royal-odds/pkg/errors"
	"royal-odds/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustCards(t *testing.T, s string) []card.Card {
	t.Helper()
	cards, err := card.ParseList(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return cards
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })
	return logs
}

func TestModeKeys(t *testing.T) {
	if n := len(Preflop.Keys()); n != 15 {
		t.Fatalf("expected 15 preflop keys, got %d", n)
	}
	if n := len(Postflop.Keys()); n != 121 {
		t.Fatalf("expected 121 postflop keys, got %d", n)
	}
	keys := Preflop.Keys()
	keys[0] = "XX"
	if Preflop.Keys()[0] != "AA" {
		t.Fatalf("Keys must return a copy")
	}
}

func TestModeKey(t *testing.T) {
	hole := mustCards(t, "KC AH")
	community := mustCards(t, "TC JD AS QH KD")
	if got := Preflop.Key(hole, community); got != "AK" {
		t.Fatalf("expected preflop key AK, got %s", got)
	}
	if got := Postflop.Key(hole, community); got != "AAKJT" {
		t.Fatalf("expected postflop key AAKJT, got %s", got)
	}
}

func TestCanonicalKey(t *testing.T) {
	for _, in := range []string{"AK", "KA", "ka"} {
		got, err := Preflop.CanonicalKey(in)
		if err != nil || got != "AK" {
			t.Fatalf("CanonicalKey(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := Postflop.CanonicalKey("AK"); !errors.Is(err, appErr.ErrInvalidHandLength) {
		t.Fatalf("expected ErrInvalidHandLength, got %v", err)
	}
	if _, err := Postflop.CanonicalKey("AKQJ9"); !errors.Is(err, appErr.ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" PostFlop "); err != nil || m != Postflop {
		t.Fatalf("unexpected mode %q, %v", m, err)
	}
	if _, err := ParseMode("river"); !errors.Is(err, appErr.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Mode: Preflop, Rounds: 10, Players: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string]Config{
		"bad mode":       {Mode: "river", Rounds: 10, Players: 2},
		"no rounds":      {Mode: Preflop, Rounds: 0, Players: 2},
		"one player":     {Mode: Preflop, Rounds: 10, Players: 1},
		"deck too small": {Mode: Preflop, Rounds: 10, Players: 8},
		"neg workers":    {Mode: Preflop, Rounds: 10, Players: 2, Workers: -1},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); !errors.Is(err, appErr.ErrInvalidSimulationConfig) {
			t.Fatalf("%s: expected ErrInvalidSimulationConfig, got %v", name, err)
		}
	}
	if _, err := Run(context.Background(), cases["deck too small"]); !errors.Is(err, appErr.ErrInvalidPlayers) {
		t.Fatalf("expected ErrInvalidPlayers from Run, got %v", err)
	}
}

func TestTableRecordAndMerge(t *testing.T) {
	a := NewTable(Preflop)
	b := NewTable(Preflop)
	if err := a.Record("AK", showdown.Won); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := b.Record("AK", showdown.Tied); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := b.Record("TT", showdown.Lost); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := a.Record("KA", showdown.Won); !errors.Is(err, ErrUnknownBucket) {
		t.Fatalf("expected ErrUnknownBucket, got %v", err)
	}
	b.RecordCategory(hand.Straight)

	if err := a.Merge(b); err != nil {
		t.Fatalf("merge: %v", err)
	}
	ak, _ := a.Get("AK")
	if ak != (Tally{Played: 2, Won: 1, Tied: 1}) {
		t.Fatalf("unexpected AK tally %+v", ak)
	}
	if ak.WonPct() != 50 || ak.TiedPct() != 50 || ak.LostPct() != 0 {
		t.Fatalf("unexpected percentages for %+v", ak)
	}
	if total := a.Total(); total.Played != 3 || !total.Balanced() {
		t.Fatalf("unexpected total %+v", total)
	}
	if a.Categories()[hand.Straight] != 1 {
		t.Fatalf("expected merged category histogram")
	}
	if err := a.Merge(NewTable(Postflop)); err == nil {
		t.Fatalf("expected error merging tables of different modes")
	}
	if (Tally{}).WonPct() != 0 {
		t.Fatalf("empty tally must report 0%%")
	}
}

func TestRunAccounting(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			res, err := Run(context.Background(), Config{Mode: mode, Rounds: 20_000, Players: 3, Workers: 4, Seed: 11})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Completed != 20_000 || res.Cancelled() {
				t.Fatalf("expected all rounds completed, got %d", res.Completed)
			}
			var played int64
			for _, row := range res.Table.Rows() {
				if !row.Balanced() {
					t.Fatalf("bucket %s unbalanced: %+v", row.Key, row.Tally)
				}
				played += row.Played
			}
			if played != 20_000 {
				t.Fatalf("expected 20000 played, got %d", played)
			}
			var categories int64
			for _, n := range res.Table.Categories() {
				categories += n
			}
			if categories != 20_000 {
				t.Fatalf("expected 20000 categorized hands, got %d", categories)
			}
		})
	}
}

func TestRunPreflopCoversEveryBucket(t *testing.T) {
	res, err := Run(context.Background(), Config{Mode: Preflop, Rounds: 20_000, Players: 2, Workers: 2, Seed: 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, row := range res.Table.Rows() {
		if row.Played == 0 {
			t.Fatalf("bucket %s never played", row.Key)
		}
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	cfg := Config{Mode: Postflop, Rounds: 5_000, Players: 4, Workers: 3, Seed: 99}
	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	rowsA, rowsB := a.Table.Rows(), b.Table.Rows()
	for i := range rowsA {
		if rowsA[i] != rowsB[i] {
			t.Fatalf("bucket %s differs: %+v vs %+v", rowsA[i].Key, rowsA[i].Tally, rowsB[i].Tally)
		}
	}
	if a.Config.Workers != 3 || a.Config.Seed != 99 {
		t.Fatalf("unexpected effective config %+v", a.Config)
	}
}

func TestRunRandomSeedRecorded(t *testing.T) {
	res, err := Run(context.Background(), Config{Mode: Preflop, Rounds: 10, Players: 2, Workers: 50})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Config.Seed == 0 {
		t.Fatalf("expected generated seed to be recorded")
	}
	if res.Config.Workers != 10 {
		t.Fatalf("expected workers capped at rounds, got %d", res.Config.Workers)
	}
}

func TestRunCancelledReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, Config{Mode: Postflop, Rounds: 1_000_000, Players: 3, Workers: 2, Seed: 5})
	if !errors.Is(err, context.Canceled) || !IsCancellation(err) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil {
		t.Fatalf("expected partial result on cancellation")
	}
	if !res.Cancelled() {
		t.Fatalf("expected result to be marked cancelled")
	}
	for _, row := range res.Table.Rows() {
		if !row.Balanced() {
			t.Fatalf("bucket %s unbalanced after cancel", row.Key)
		}
	}
}

func TestRunLogsProgress(t *testing.T) {
	logs := observeLogs(t)

	if _, err := Run(context.Background(), Config{Mode: Preflop, Rounds: 6_400, Players: 2, Workers: 1, Seed: 1}); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries := logs.FilterMessage("simulation progress").All()
	if len(entries) != 100 {
		t.Fatalf("expected 100 progress lines, got %d", len(entries))
	}
	last := entries[len(entries)-1].ContextMap()
	if last["percent"] != int64(100) {
		t.Fatalf("expected final progress at 100%%, got %v", last["percent"])
	}
	if logs.FilterMessage("simulation finished").Len() != 1 {
		t.Fatalf("expected a finished log line")
	}
}
