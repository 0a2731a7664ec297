package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anyidea-app/anyidea/internal/logging"
)

const refreshTimeout = 30 * time.Second

// Refresher folds raw activity history into the popular-activities rollup.
type Refresher interface {
	Refresh(ctx context.Context) (int64, error)
}

// Scheduler runs background maintenance jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds())}
}

// ScheduleInterval registers a job every given duration.
func (s *Scheduler) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

// SchedulePopularRefresh registers the popularity rollup so the popular
// activities endpoint stays a cheap read. Failures are logged and retried on
// the next tick.
func (s *Scheduler) SchedulePopularRefresh(popular Refresher, interval time.Duration) (cron.EntryID, error) {
	return s.ScheduleInterval(interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		rows, err := popular.Refresh(ctx)
		if err != nil {
			logging.Error("popular activities refresh failed", logging.Fields{"error": err.Error()})
			return
		}
		logging.Info("popular activities refreshed", logging.Fields{"activities": rows})
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
