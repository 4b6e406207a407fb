package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/cyclemate/internal/logger"
)

var ErrInvalidHour = errors.New("hour must be between 0 and 23")

const jobTimeout = time.Minute

// Job is the work run once a day. The context is cancelled after a minute.
type Job func(ctx context.Context)

// DailyScheduler keeps at most one daily job. Scheduling again replaces the
// previous entry instead of stacking another one.
type DailyScheduler struct {
	cronEngine *cron.Cron

	mu        sync.Mutex
	entry     cron.EntryID
	scheduled bool
}

func NewDailyScheduler(location *time.Location) *DailyScheduler {
	if location == nil {
		location = time.Local
	}
	return &DailyScheduler{cronEngine: cron.New(cron.WithLocation(location))}
}

func (s *DailyScheduler) Start() {
	s.cronEngine.Start()
	logger.Log.Info("scheduler: started")
}

// Schedule runs job every day at hour:00 in the scheduler's location. The
// first run is today when the hour has not passed yet.
func (s *DailyScheduler) Schedule(hour int, job Job) error {
	if hour < 0 || hour > 23 {
		return ErrInvalidHour
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduled {
		s.cronEngine.Remove(s.entry)
		s.scheduled = false
	}

	entry, err := s.cronEngine.AddFunc(fmt.Sprintf("0 %d * * *", hour), s.wrap(job))
	if err != nil {
		return fmt.Errorf("schedule daily job: %w", err)
	}
	s.entry = entry
	s.scheduled = true

	logger.Log.WithField("hour", hour).Info("scheduler: daily job scheduled")
	return nil
}

// Cancel drops the pending daily job, if any.
func (s *DailyScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduled {
		s.cronEngine.Remove(s.entry)
		s.scheduled = false
	}
}

// Next reports the next planned run. It is only known once the scheduler runs.
func (s *DailyScheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scheduled {
		return time.Time{}, false
	}
	next := s.cronEngine.Entry(s.entry).Next
	return next, !next.IsZero()
}

// Stop prevents new runs and waits for a running job to finish.
func (s *DailyScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	logger.Log.Info("scheduler: stopped")
}

func (s *DailyScheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		started := time.Now()
		job(ctx)
		logger.Log.WithField("elapsed", time.Since(started).String()).Debug("scheduler: daily job finished")
	}
}
