package simulation

import (
	"sync/atomic"

	"royal-odds/pkg/logger"

	"go.uber.org/zap"
)

// progress logs a line each time another percent of the run completes.
// Workers report in batches to keep the shared counter off the hot path.
type progress struct {
	mode  Mode
	total int64
	step  int64
	done  atomic.Int64
}

func newProgress(mode Mode, total int64) *progress {
	step := total / 100
	if step == 0 {
		step = 1
	}
	return &progress{mode: mode, total: total, step: step}
}

func (p *progress) add(n int64) {
	if n <= 0 {
		return
	}
	done := p.done.Add(n)
	if (done-n)/p.step == done/p.step {
		return
	}
	logger.Log.Info("simulation progress",
		zap.String("mode", string(p.mode)),
		zap.Int64("percent", done*100/p.total),
		zap.Int64("rounds", done),
	)
}

func (p *progress) completed() int64 {
	return p.done.Load()
}
