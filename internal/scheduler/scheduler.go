// Package scheduler runs the periodic maintenance jobs: the store reset and
// the cleanup of idle table workspaces.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Parser accepts five-field cron expressions and descriptors like "@every 10m".
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether schedule can be parsed.
func ValidateSchedule(schedule string) error {
	if _, err := Parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

type entry struct {
	job      Job
	schedule string
	id       cron.EntryID
	running  bool
}

// Scheduler runs registered jobs on their cron schedules. A job that is
// still running when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	mu        sync.Mutex
	entries   map[string]*entry
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a stopped scheduler. Every job run gets timeout.
func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithParser(Parser)),
		timeout: timeout,
		entries: make(map[string]*entry),
		ctx:     context.Background(),
	}
}

// Add registers job under schedule. Job names must be unique.
func (s *Scheduler) Add(schedule string, job Job) error {
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[job.Name()]; exists {
		return fmt.Errorf("job %q already scheduled", job.Name())
	}

	e := &entry{job: job, schedule: schedule}
	id, err := s.cron.AddFunc(schedule, func() { s.run(e) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}
	e.id = id
	s.entries[job.Name()] = e
	return nil
}

// Start runs the cron loop until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	var runCtx context.Context
	runCtx, s.cancel = context.WithCancel(ctx)
	s.ctx = runCtx
	s.cron.Start()
	s.isRunning = true

	for name, e := range s.entries {
		slog.Info("scheduler: job scheduled", "job", name, "schedule", e.schedule, "next_run", s.nextLocked(e))
	}

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()
}

// Stop waits for running jobs to finish and stops the cron loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete
	<-s.cron.Stop().Done()
	if cancel != nil {
		cancel()
	}
	slog.Info("scheduler: stopped")
}

// IsRunning returns whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow runs the named job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(e)
}

// NextRun returns when the named job runs next, or nil if the scheduler is stopped.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.nextLocked(e)
	return &next
}

func (s *Scheduler) nextLocked(e *entry) time.Time {
	return s.cron.Entry(e.id).Next
}

// ErrSkipped is returned by RunNow when the job is already running.
var ErrSkipped = errors.New("job already running")

func (s *Scheduler) run(e *entry) error {
	s.mu.Lock()
	if e.running {
		s.mu.Unlock()
		slog.Warn("scheduler: skipped, previous run still in progress", "job", e.job.Name())
		return ErrSkipped
	}
	e.running = true
	parent := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		e.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	if err := e.job.Run(ctx); err != nil {
		slog.Error("scheduler: job failed", "job", e.job.Name(), "error", err)
		return err
	}
	slog.Info("scheduler: job finished", "job", e.job.Name(), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
