package model

import (
	"time"

	"gorm.io/datatypes"
)

// HandOdds accumulates the outcomes of one bucket across every recorded run
// with the same mode and player count.
type HandOdds struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Mode      string `gorm:"size:16;not null;uniqueIndex:idx_hand_odds_bucket"`
	Players   int    `gorm:"not null;uniqueIndex:idx_hand_odds_bucket"`
	Hand      string `gorm:"size:8;not null;uniqueIndex:idx_hand_odds_bucket"`
	Played    int64  `gorm:"default:0;not null"`
	Won       int64  `gorm:"default:0;not null"`
	Tied      int64  `gorm:"default:0;not null"`
	Lost      int64  `gorm:"default:0;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (HandOdds) TableName() string { return "hand_odds" }

type SimulationRun struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Tag          string `gorm:"size:16;unique"`
	Mode         string `gorm:"size:16;not null"`
	Players      int
	Rounds       int64
	Completed    int64
	Workers      int
	Seed         int64
	Cancelled    bool
	CategoryJSON datatypes.JSON // {"Royal Flush": n, ...}
	StartedAt    time.Time
	FinishedAt   time.Time
	CreatedAt    time.Time
}

func (SimulationRun) TableName() string { return "simulation_runs" }

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{&HandOdds{}, &SimulationRun{}}
}
