package snapshot

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/meerski/arakh/internal/logging"
)

// RetentionSweeper periodically deletes checkpoints older than a retention
// window. It runs on wall-clock cron time rather than tick cadence, since
// retention is about disk usage, not simulation state.
type RetentionSweeper struct {
	repo   Repository
	window uint64 // ticks; checkpoints older than (latest tick - window) are eligible
	cron   *cron.Cron
}

// NewRetentionSweeper returns a sweeper that keeps checkpoints within the
// last windowTicks of simulated time.
func NewRetentionSweeper(repo Repository, windowTicks uint64) *RetentionSweeper {
	return &RetentionSweeper{repo: repo, window: windowTicks, cron: cron.New()}
}

// Start schedules the sweep on the given cron spec (e.g. "@hourly") and
// begins running it in the background.
func (s *RetentionSweeper) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.sweepOnce(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler; in-flight sweeps are allowed to finish.
func (s *RetentionSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *RetentionSweeper) sweepOnce(ctx context.Context) {
	infos, err := s.repo.List(ctx)
	if err != nil {
		logging.LogError(ctx, err, "retention sweep: list checkpoints", nil)
		return
	}
	if len(infos) == 0 {
		return
	}

	latest := infos[0].Tick
	for _, i := range infos {
		if i.Tick > latest {
			latest = i.Tick
		}
	}
	if latest < s.window {
		return
	}
	cutoff := latest - s.window

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logging.LogError(ctx, err, "retention sweep: delete old checkpoints", nil)
		return
	}
	if deleted > 0 {
		logging.LogInfo(ctx, "retention sweep: deleted checkpoints", map[string]interface{}{
			"count":  deleted,
			"cutoff": cutoff,
		})
	}
}
