package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the background jobs on cron schedules in the firm's timezone.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(loc))}
}

// Add registers job under spec. Each run gets a fresh context bounded by timeout.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		zap.S().Infow("[CRON] Running job", "job", name)
		if err := job(ctx); err != nil {
			zap.S().Errorw("[CRON] Job failed", "job", name, "error", err)
			return
		}
		zap.S().Infow("[CRON] Job finished", "job", name, "elapsed", time.Since(start))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zap.S().Infow("[CRON] Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
