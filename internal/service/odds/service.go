package odds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"royal-odds/internal/hand"
	"royal-odds/internal/model"
	"royal-odds/internal/simulation"
	appErr "royal-odds/pkg/errors"
	"royal-odds/pkg/logger"
	"royal-odds/pkg/utils/random"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const runTagLength = 8

// Service persists harness results and serves the accumulated odds. The
// redis client is optional.
type Service struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

// Odds is the accumulated record of one bucket.
type Odds struct {
	Mode    string  `json:"mode"`
	Players int     `json:"players"`
	Hand    string  `json:"hand"`
	Played  int64   `json:"played"`
	Won     int64   `json:"won"`
	Tied    int64   `json:"tied"`
	Lost    int64   `json:"lost"`
	WonPct  float64 `json:"wonPct"`
	TiedPct float64 `json:"tiedPct"`
	LostPct float64 `json:"lostPct"`
}

type RunListResult struct {
	Items []model.SimulationRun
	Total int64
}

func NewService(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{db: db, rdb: rdb, ttl: ttl}
}

func fromModel(m model.HandOdds) Odds {
	t := simulation.Tally{Played: m.Played, Won: m.Won, Tied: m.Tied, Lost: m.Lost}
	return Odds{
		Mode:    m.Mode,
		Players: m.Players,
		Hand:    m.Hand,
		Played:  m.Played,
		Won:     m.Won,
		Tied:    m.Tied,
		Lost:    m.Lost,
		WonPct:  t.WonPct(),
		TiedPct: t.TiedPct(),
		LostPct: t.LostPct(),
	}
}

func cacheKey(mode simulation.Mode, players int, hand string) string {
	return fmt.Sprintf("odds:%s:%d:%s", mode, players, hand)
}

func validPlayers(players int) error {
	if players < simulation.MinPlayers || players > simulation.MaxPlayers {
		return fmt.Errorf("%w: %d", appErr.ErrInvalidPlayers, players)
	}
	return nil
}

// Record stores a run and adds its non-empty buckets to the accumulated odds
// in one transaction.
func (s *Service) Record(ctx context.Context, res *simulation.Result) (*model.SimulationRun, error) {
	if res == nil || res.Table == nil || res.Completed == 0 {
		return nil, appErr.ErrEmptyResult
	}
	cfg := res.Config

	categories := make(map[string]int64, hand.NumCategories)
	for c, n := range res.Table.Categories() {
		categories[c.String()] = n
	}
	categoryJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}

	run := model.SimulationRun{
		Tag:          random.Code(runTagLength),
		Mode:         string(cfg.Mode),
		Players:      cfg.Players,
		Rounds:       cfg.Rounds,
		Completed:    res.Completed,
		Workers:      cfg.Workers,
		Seed:         cfg.Seed,
		Cancelled:    res.Cancelled(),
		CategoryJSON: datatypes.JSON(categoryJSON),
		StartedAt:    res.StartedAt,
		FinishedAt:   res.FinishedAt,
	}

	now := time.Now()
	var buckets []model.HandOdds
	var keys []string
	for _, row := range res.Table.Rows() {
		if row.Played == 0 {
			continue
		}
		buckets = append(buckets, model.HandOdds{
			Mode:      string(cfg.Mode),
			Players:   cfg.Players,
			Hand:      row.Key,
			Played:    row.Played,
			Won:       row.Won,
			Tied:      row.Tied,
			Lost:      row.Lost,
			CreatedAt: now,
			UpdatedAt: now,
		})
		keys = append(keys, cacheKey(cfg.Mode, cfg.Players, row.Key))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(buckets) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "mode"}, {Name: "players"}, {Name: "hand"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"played":     gorm.Expr("hand_odds.played + excluded.played"),
				"won":        gorm.Expr("hand_odds.won + excluded.won"),
				"tied":       gorm.Expr("hand_odds.tied + excluded.tied"),
				"lost":       gorm.Expr("hand_odds.lost + excluded.lost"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).Create(&buckets).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, keys)
	logger.Log.Info("simulation run recorded",
		zap.String("tag", run.Tag),
		zap.String("mode", run.Mode),
		zap.Int("players", run.Players),
		zap.Int64("completed", run.Completed),
		zap.Int("buckets", len(buckets)),
	)
	return &run, nil
}

func (s *Service) invalidate(ctx context.Context, keys []string) {
	if s.rdb == nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("odds cache invalidation failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

// Lookup canonicalizes hand for mode and returns its accumulated odds.
func (s *Service) Lookup(ctx context.Context, mode simulation.Mode, players int, hand string) (*Odds, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", appErr.ErrInvalidMode, mode)
	}
	if err := validPlayers(players); err != nil {
		return nil, err
	}
	key, err := mode.CanonicalKey(hand)
	if err != nil {
		return nil, err
	}

	ck := cacheKey(mode, players, key)
	if cached, ok := s.fromCache(ctx, ck); ok {
		return cached, nil
	}

	var row model.HandOdds
	err = s.db.WithContext(ctx).
		Where("mode = ? AND players = ? AND hand = ?", string(mode), players, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d players %s", appErr.ErrOddsNotFound, mode, players, key)
		}
		return nil, err
	}

	odds := fromModel(row)
	s.toCache(ctx, ck, &odds)
	return &odds, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (*Odds, bool) {
	if s.rdb == nil {
		return nil, false
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("odds cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var odds Odds
	if err := json.Unmarshal(data, &odds); err != nil {
		logger.Log.Warn("odds cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &odds, true
}

func (s *Service) toCache(ctx context.Context, key string, odds *Odds) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(odds)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Log.Warn("odds cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// List returns every stored bucket for mode and players in the mode's
// enumeration order.
func (s *Service) List(ctx context.Context, mode simulation.Mode, players int) ([]Odds, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", appErr.ErrInvalidMode, mode)
	}
	if err := validPlayers(players); err != nil {
		return nil, err
	}

	var rows []model.HandOdds
	if err := s.db.WithContext(ctx).
		Where("mode = ? AND players = ?", string(mode), players).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byHand := make(map[string]model.HandOdds, len(rows))
	for _, r := range rows {
		byHand[r.Hand] = r
	}
	items := make([]Odds, 0, len(rows))
	for _, k := range mode.Keys() {
		if r, ok := byHand[k]; ok {
			items = append(items, fromModel(r))
		}
	}
	return items, nil
}

func (s *Service) ListRuns(ctx context.Context, page, size int) (*RunListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.SimulationRun{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var items []model.SimulationRun
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Model(&model.SimulationRun{}).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return &RunListResult{Items: items, Total: total}, nil
}
