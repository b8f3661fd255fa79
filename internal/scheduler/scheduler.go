package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ErrInvalidInterval is returned for non-positive intervals.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Scheduler runs recurring tasks on a gocron scheduler.
type Scheduler struct {
	logger    *zap.Logger
	scheduler *gocron.Scheduler
	mu        sync.Mutex
}

// New creates a new Scheduler. Nothing runs until a task is scheduled.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:    logger.Named("scheduler"),
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Schedule runs task every interval, first firing one interval from now.
// The returned cancel func removes only this job and skips any run of it that fires
// afterwards; the scheduler keeps running for other jobs until Stop. It is safe to call
// more than once.
func (s *Scheduler) Schedule(interval time.Duration, task func()) (func(), error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		cancelMu sync.Mutex
		canceled bool
	)
	job, err := s.scheduler.Every(interval).WaitForSchedule().Do(func() {
		cancelMu.Lock()
		stopped := canceled
		cancelMu.Unlock()
		if stopped {
			return
		}
		s.logger.Debug("running scheduled task", zap.Duration("interval", interval))
		task()
	})
	if err != nil {
		return nil, err
	}

	if !s.scheduler.IsRunning() {
		s.scheduler.StartAsync()
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelMu.Lock()
			canceled = true
			cancelMu.Unlock()

			s.mu.Lock()
			defer s.mu.Unlock()
			s.scheduler.RemoveByReference(job)
			s.logger.Debug("scheduled task canceled", zap.Duration("interval", interval))
		})
	}
	return cancel, nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
