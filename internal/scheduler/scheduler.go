package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-theme/internal/logger"
	"github.com/i474232898/weather-theme/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute
	refreshTimeout  = 30 * time.Second
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically refreshes reports for tracked locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	locations []weather.Location
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Scheduler. Intervals below one second fall back to
// fifteen minutes.
func New(locations []weather.Location, interval time.Duration, service Refresher, log *logger.Logger) *Scheduler {
	if interval < time.Second {
		interval = defaultInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the refresh job, runs it once immediately, and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infow("scheduler started", "locations", len(s.locations), "interval", s.interval)
	return nil
}

// RunOnce refreshes every tracked location concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	s.log.Debug("scheduler: running refresh job")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc weather.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()

			if err := s.service.Refresh(ctx, loc); err != nil {
				s.log.Warnw("scheduler: refresh failed", "location", loc.Key(), "error", err)
			}
		}(loc)
	}
	wg.Wait()

	s.log.Debug("scheduler: refresh job completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
