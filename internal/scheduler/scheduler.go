package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/templui/lifeos/internal/metrics"
)

// Job is a named background task run on a cron spec such as "@every 1h".
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error

	// RunOnStart also runs the job once, in the background, when the
	// scheduler starts.
	RunOnStart bool
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	startup []Job
	wg      sync.WaitGroup
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job. It fails on an invalid spec.
func (s *Scheduler) Add(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		s.run(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
	}
	if job.RunOnStart {
		s.startup = append(s.startup, job)
	}
	slog.Info("scheduled job", "job", job.Name, "spec", job.Spec, "run_on_start", job.RunOnStart)
	return nil
}

// RunNow executes a job synchronously with the same logging and metrics as a
// scheduled run.
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	duration := time.Since(start)
	metrics.RecordJobRun(job.Name, duration, err == nil)

	if err != nil {
		slog.Error("scheduled job failed", "job", job.Name, "error", err, "duration_ms", duration.Milliseconds())
		return err
	}
	slog.Debug("scheduled job finished", "job", job.Name, "duration_ms", duration.Milliseconds())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, job := range s.startup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(job)
		}()
	}
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out, jobs still running")
	}
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
