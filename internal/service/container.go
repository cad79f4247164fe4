package service

import (
	"context"
	"time"

	"royal-odds/internal/service/odds"
	"royal-odds/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Container struct {
	Odds *odds.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *Container {
	return &Container{
		Odds: odds.NewService(db, rdb, cacheTTL),
	}
}

// Start checks that the store is reachable before the server accepts traffic.
func (c *Container) Start(ctx context.Context) error {
	runs, err := c.Odds.ListRuns(ctx, 1, 1)
	if err != nil {
		return err
	}
	logger.Log.Info("odds store ready", zap.Int64("runs", runs.Total))
	return nil
}
