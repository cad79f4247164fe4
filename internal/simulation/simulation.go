// Package simulation runs Monte-Carlo deals of the reduced deck and tallies
// how the tracked player's starting hands fare.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"royal-odds/internal/card"
	"royal-odds/internal/showdown"
	appErr "royal-odds/pkg/errors"
	"royal-odds/pkg/logger"
	"royal-odds/pkg/utils/random"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	CommunityCards = 5
	HoleCards      = 2
	MinPlayers     = 2
	// MaxPlayers keeps every deal inside the 20-card deck.
	MaxPlayers = (card.NumRanks*card.NumSuits - CommunityCards) / HoleCards

	// TrackedPlayer is the seat whose starting hands are bucketed.
	TrackedPlayer = 0

	batchSize = 64
)

type Config struct {
	Mode    Mode
	Rounds  int64
	Players int
	Workers int   // 0 = one per CPU
	Seed    int64 // 0 = random
}

func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %w: %q", appErr.ErrInvalidSimulationConfig, appErr.ErrInvalidMode, c.Mode)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("%w: rounds must be > 0, got %d", appErr.ErrInvalidSimulationConfig, c.Rounds)
	}
	if c.Players < MinPlayers || c.Players > MaxPlayers {
		return fmt.Errorf("%w: %w: %d, want %d-%d", appErr.ErrInvalidSimulationConfig, appErr.ErrInvalidPlayers, c.Players, MinPlayers, MaxPlayers)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", appErr.ErrInvalidSimulationConfig, c.Workers)
	}
	return nil
}

func (c Config) workerCount() int {
	n := c.Workers
	if n == 0 {
		n = runtime.NumCPU()
	}
	if int64(n) > c.Rounds {
		n = int(c.Rounds)
	}
	return n
}

// Result is the merged outcome of a run. Config carries the effective worker
// count and seed, so a run can be repeated exactly.
type Result struct {
	Config     Config
	Table      *Table
	Completed  int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Cancelled reports whether the run stopped before all rounds were played.
func (r *Result) Cancelled() bool {
	return r.Completed < r.Config.Rounds
}

// Run plays cfg.Rounds deals split across workers. Each worker owns its RNG
// and table; tables are merged once all workers stop. When ctx is cancelled
// the partial result is returned together with ctx.Err().
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Workers = cfg.workerCount()
	if cfg.Seed == 0 {
		cfg.Seed = random.Seed()
	}

	logger.Log.Info("simulation started",
		zap.String("mode", string(cfg.Mode)),
		zap.Int64("rounds", cfg.Rounds),
		zap.Int("players", cfg.Players),
		zap.Int("workers", cfg.Workers),
		zap.Int64("seed", cfg.Seed),
	)

	res := &Result{Config: cfg, Table: NewTable(cfg.Mode), StartedAt: time.Now()}
	prog := newProgress(cfg.Mode, cfg.Rounds)
	tables := make([]*Table, cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	per, extra := cfg.Rounds/int64(cfg.Workers), cfg.Rounds%int64(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		rounds := per
		if int64(i) < extra {
			rounds++
		}
		w := &worker{
			mode:  cfg.Mode,
			rng:   rand.New(rand.NewSource(cfg.Seed + int64(i))),
			table: NewTable(cfg.Mode),
			holes: make([][]card.Card, cfg.Players),
		}
		tables[i] = w.table
		g.Go(func() error {
			return w.run(gctx, rounds, prog)
		})
	}
	err := g.Wait()
	res.FinishedAt = time.Now()

	if err != nil && ctx.Err() == nil {
		logger.Log.Error("simulation failed", zap.Error(err))
		return nil, err
	}
	for _, t := range tables {
		if mergeErr := res.Table.Merge(t); mergeErr != nil {
			return nil, mergeErr
		}
	}
	res.Completed = res.Table.Total().Played

	fields := []zap.Field{
		zap.String("mode", string(cfg.Mode)),
		zap.Int64("completed", res.Completed),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	}
	if err != nil {
		logger.Log.Warn("simulation cancelled", append(fields, zap.Error(err))...)
		return res, err
	}
	logger.Log.Info("simulation finished", fields...)
	return res, nil
}

type worker struct {
	mode  Mode
	rng   *rand.Rand
	table *Table
	holes [][]card.Card
}

func (w *worker) run(ctx context.Context, rounds int64, prog *progress) error {
	var pending int64
	for i := int64(0); i < rounds; i++ {
		if i%batchSize == 0 {
			prog.add(pending)
			pending = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := w.playRound(); err != nil {
			return err
		}
		pending++
	}
	prog.add(pending)
	return nil
}

// playRound deals community cards first, then two hole cards per player, and
// records the tracked player's outcome.
func (w *worker) playRound() error {
	deck := card.NewDeck(w.rng)
	community, err := deck.Deal(CommunityCards)
	if err != nil {
		return err
	}
	for p := range w.holes {
		if w.holes[p], err = deck.Deal(HoleCards); err != nil {
			return err
		}
	}

	sd, err := showdown.Resolve(w.holes, community)
	if err != nil {
		return fmt.Errorf("resolve showdown: %w", err)
	}
	key := w.mode.Key(w.holes[TrackedPlayer], community)
	if err := w.table.Record(key, sd.Outcome(TrackedPlayer)); err != nil {
		return err
	}
	w.table.RecordCategory(sd.Results[TrackedPlayer].Category)
	return nil
}

// IsCancellation reports whether err came from a cancelled or expired context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
