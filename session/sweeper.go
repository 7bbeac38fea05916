package session

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule runs the memory sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

// StartSweeper schedules Sweep on store. Stop the returned cron to end it.
func StartSweeper(store *MemoryStore, schedule string, logger *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := store.Sweep(time.Now()); n > 0 {
			logger.Info("expired sessions swept", zap.Int("removed", n))
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
