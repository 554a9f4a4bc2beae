package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var ErrAlreadyStarted = errors.New("scheduler already started")

// JobFunc is one run of a maintenance job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc
}

// Scheduler runs each registered job once on start and then every interval
// until stopped. A run is bounded by its job's interval so runs of the same
// job never overlap.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Every registers fn to run every interval. Jobs added after Start are not
// picked up.
func (s *Scheduler) Every(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	slog.Info("Maintenance job registered", "job", name, "interval", interval.String())
}

// Start launches every job on a context derived from ctx. Cancelling ctx has
// the same effect as Stop without waiting.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	slog.Info("Maintenance scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop cancels in-flight runs and waits for every job loop to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	slog.Info("Maintenance scheduler stopped")
}

// RunAll runs every job once in registration order and joins their errors.
func (s *Scheduler) RunAll(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	s.mu.Unlock()

	var errs []error
	for _, j := range jobs {
		if err := s.run(ctx, j); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if err := s.run(ctx, j); err != nil && ctx.Err() == nil {
			slog.Error("Maintenance job failed", "job", j.name, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) run(ctx context.Context, j job) error {
	ctx, cancel := context.WithTimeout(ctx, j.interval)
	defer cancel()

	start := time.Now()
	err := j.fn(ctx)
	slog.Debug("Maintenance job finished", "job", j.name, "duration", time.Since(start), "ok", err == nil)
	return err
}
