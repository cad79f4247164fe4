package odds_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"royal-odds/internal/model"
	"royal-odds/internal/service/odds"
	"royal-odds/internal/showdown"
	"royal-odds/internal/simulation"
	appErr "royal-odds/pkg/errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate odds tables: %v", err)
	}
	return db
}

func newService(t *testing.T) (*gorm.DB, *odds.Service) {
	t.Helper()
	db := newDB(t)
	return db, odds.NewService(db, nil, time.Minute)
}

type deal struct {
	key     string
	outcome showdown.Outcome
}

func newResult(t *testing.T, mode simulation.Mode, players int, deals []deal) *simulation.Result {
	t.Helper()
	table := simulation.NewTable(mode)
	for _, d := range deals {
		if err := table.Record(d.key, d.outcome); err != nil {
			t.Fatalf("record %s: %v", d.key, err)
		}
	}
	now := time.Now()
	return &simulation.Result{
		Config: simulation.Config{
			Mode:    mode,
			Rounds:  int64(len(deals)),
			Players: players,
			Workers: 1,
			Seed:    42,
		},
		Table:      table,
		Completed:  table.Total().Played,
		StartedAt:  now,
		FinishedAt: now,
	}
}

func TestRecordAccumulatesAcrossRuns(t *testing.T) {
	ctx := context.Background()
	db, svc := newService(t)

	first := newResult(t, simulation.Preflop, 3, []deal{
		{"AK", showdown.Won}, {"AK", showdown.Lost}, {"TT", showdown.Tied},
	})
	second := newResult(t, simulation.Preflop, 3, []deal{
		{"AK", showdown.Won}, {"QJ", showdown.Lost},
	})
	for _, res := range []*simulation.Result{first, second} {
		if _, err := svc.Record(ctx, res); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	got, err := svc.Lookup(ctx, simulation.Preflop, 3, "AK")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.Played != 3 || got.Won != 2 || got.Tied != 0 || got.Lost != 1 {
		t.Fatalf("unexpected accumulated odds: %+v", got)
	}
	if got.WonPct < 66.6 || got.WonPct > 66.7 {
		t.Fatalf("expected won pct ~66.67, got %v", got.WonPct)
	}

	var buckets int64
	if err := db.Model(&model.HandOdds{}).Count(&buckets).Error; err != nil {
		t.Fatalf("count buckets: %v", err)
	}
	if buckets != 3 {
		t.Fatalf("expected only played buckets to be stored, got %d rows", buckets)
	}
}

func TestRecordSeparatesPlayerCounts(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	if _, err := svc.Record(ctx, newResult(t, simulation.Preflop, 2, []deal{{"AA", showdown.Won}})); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := svc.Record(ctx, newResult(t, simulation.Preflop, 4, []deal{{"AA", showdown.Lost}})); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	two, err := svc.Lookup(ctx, simulation.Preflop, 2, "AA")
	if err != nil || two.Won != 1 || two.Played != 1 {
		t.Fatalf("unexpected heads-up odds: %+v, %v", two, err)
	}
	four, err := svc.Lookup(ctx, simulation.Preflop, 4, "AA")
	if err != nil || four.Lost != 1 || four.Played != 1 {
		t.Fatalf("unexpected four-handed odds: %+v, %v", four, err)
	}
}

func TestRecordStoresRun(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	res, err := simulation.Run(ctx, simulation.Config{
		Mode:    simulation.Postflop,
		Rounds:  300,
		Players: 3,
		Workers: 1,
		Seed:    11,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	run, err := svc.Record(ctx, res)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if run.ID == 0 || len(run.Tag) != 8 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Completed != 300 || run.Cancelled || run.Seed != 11 {
		t.Fatalf("unexpected run accounting: %+v", run)
	}

	var categories map[string]int64
	if err := json.Unmarshal(run.CategoryJSON, &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	var total int64
	for _, n := range categories {
		total += n
	}
	if total != run.Completed {
		t.Fatalf("category histogram sums to %d, want %d", total, run.Completed)
	}

	items, err := svc.List(ctx, simulation.Postflop, 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var played int64
	for _, it := range items {
		played += it.Played
		if it.Won+it.Tied+it.Lost != it.Played {
			t.Fatalf("unbalanced bucket %+v", it)
		}
	}
	if played != 300 {
		t.Fatalf("expected 300 played deals across buckets, got %d", played)
	}
}

func TestRecordEmptyResult(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	if _, err := svc.Record(ctx, nil); !errors.Is(err, appErr.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult for nil result, got %v", err)
	}
	empty := newResult(t, simulation.Postflop, 3, nil)
	if _, err := svc.Record(ctx, empty); !errors.Is(err, appErr.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult for empty result, got %v", err)
	}
}

func TestLookupCanonicalizesHand(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	if _, err := svc.Record(ctx, newResult(t, simulation.Postflop, 3, []deal{{"AKQJT", showdown.Won}})); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	got, err := svc.Lookup(ctx, simulation.Postflop, 3, " tjqka ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.Hand != "AKQJT" || got.Won != 1 {
		t.Fatalf("unexpected odds: %+v", got)
	}
}

func TestLookupErrors(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	cases := []struct {
		name    string
		mode    simulation.Mode
		players int
		hand    string
		want    error
	}{
		{"not found", simulation.Preflop, 3, "AK", appErr.ErrOddsNotFound},
		{"bad mode", simulation.Mode("river"), 3, "AK", appErr.ErrInvalidMode},
		{"too few players", simulation.Preflop, 1, "AK", appErr.ErrInvalidPlayers},
		{"too many players", simulation.Preflop, 8, "AK", appErr.ErrInvalidPlayers},
		{"wrong length", simulation.Preflop, 3, "AKQ", appErr.ErrInvalidHandLength},
		{"bad rank", simulation.Preflop, 3, "A9", appErr.ErrInvalidRank},
	}
	for _, tc := range cases {
		if _, err := svc.Lookup(ctx, tc.mode, tc.players, tc.hand); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLookupFallsBackWhenCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	svc := odds.NewService(db, rdb, time.Minute)

	if _, err := svc.Record(ctx, newResult(t, simulation.Preflop, 2, []deal{{"KK", showdown.Tied}})); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	got, err := svc.Lookup(ctx, simulation.Preflop, 2, "kk")
	if err != nil {
		t.Fatalf("lookup should not depend on the cache: %v", err)
	}
	if got.Tied != 1 {
		t.Fatalf("unexpected odds: %+v", got)
	}
}

func TestListOrdersByEnumeration(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	if _, err := svc.Record(ctx, newResult(t, simulation.Preflop, 3, []deal{
		{"TT", showdown.Lost}, {"AA", showdown.Won}, {"KQ", showdown.Tied},
	})); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	items, err := svc.List(ctx, simulation.Preflop, 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var hands []string
	for _, it := range items {
		hands = append(hands, it.Hand)
	}
	if got := strings.Join(hands, ","); got != "AA,KQ,TT" {
		t.Fatalf("unexpected order %s", got)
	}

	if _, err := svc.List(ctx, simulation.Preflop, 9); !errors.Is(err, appErr.ErrInvalidPlayers) {
		t.Fatalf("expected ErrInvalidPlayers, got %v", err)
	}
}

func TestListRunsPagination(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, newResult(t, simulation.Preflop, 2, []deal{{"AK", showdown.Won}})); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	result, err := svc.ListRuns(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list runs failed: %v", err)
	}
	if result.Total != 3 || len(result.Items) != 2 {
		t.Fatalf("unexpected page: total=%d items=%d", result.Total, len(result.Items))
	}
	if result.Items[0].ID < result.Items[1].ID {
		t.Fatalf("expected newest run first")
	}

	last, err := svc.ListRuns(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list runs failed: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected one run on the last page, got %d", len(last.Items))
	}
}
